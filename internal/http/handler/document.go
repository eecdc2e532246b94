package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"docflow/internal/model"
	"docflow/internal/service"
)

const attachmentURLExpiry = 15 * time.Minute

// ListDocuments reloads the collection and returns the filtered, paginated
// view. Filters come from query parameters: status, search, start, end
// (YYYY-MM-DD, inclusive), page, per_page.
func ListDocuments(store *service.DocumentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filters := service.DocumentFilters{
			Status: model.DocumentStatus(c.Query("status")),
			Search: c.Query("search"),
		}
		if filters.Status != "" && !filters.Status.Valid() {
			return writeError(c, fiber.StatusBadRequest, "INVALID_STATUS", "unknown document status")
		}

		dateRange, err := dateRangeFromQuery(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_DATE", "dates must be YYYY-MM-DD")
		}
		filters.DateRange = dateRange

		page, perPage, err := pagingFromQuery(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAGE", "page and per_page must be positive integers")
		}

		if _, err := store.FetchAll(c.UserContext()); err != nil && !errors.Is(err, service.ErrCorruptData) {
			return writeServiceError(c, err)
		}

		store.SetFilters(filters)
		if perPage > 0 {
			store.SetPerPage(perPage)
		}
		if page > 0 {
			store.SetPage(page)
		}

		return c.JSON(store.FilteredView())
	}
}

// GetDocument returns one document by id.
func GetDocument(store *service.DocumentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := store.FetchByID(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// CreateDocument creates a document from the JSON body.
func CreateDocument(store *service.DocumentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input service.CreateDocumentInput
		if err := c.BodyParser(&input); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		doc, err := store.Create(c.UserContext(), input)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// UpdateDocument applies a partial update; absent fields stay untouched.
func UpdateDocument(store *service.DocumentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var patch service.DocumentPatch
		if err := c.BodyParser(&patch); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		doc, err := store.Update(c.UserContext(), c.Params("id"), patch)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DeleteDocument removes a document and its attachment.
func DeleteDocument(store *service.DocumentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := store.Remove(c.UserContext(), c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// UploadAttachment streams a multipart file (field name: file) to object
// storage and records it on the document.
func UploadAttachment(store *service.DocumentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		doc, err := store.Attach(c.UserContext(), c.Params("id"), f, fh.Filename, ct, fh.Size)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// AttachmentURL returns a time-limited presigned download URL for the
// document's attachment.
func AttachmentURL(store *service.DocumentStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		url, err := store.AttachmentURL(c.UserContext(), c.Params("id"), attachmentURLExpiry)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"url": url})
	}
}

// dateRangeFromQuery parses optional start/end query params into an inclusive
// range. Returns nil when neither is set.
func dateRangeFromQuery(c *fiber.Ctx) (*service.DateRange, error) {
	startStr, endStr := c.Query("start"), c.Query("end")
	if startStr == "" && endStr == "" {
		return nil, nil
	}

	// Open bounds: a missing start reaches back to the epoch, a missing end
	// reaches far forward.
	r := &service.DateRange{End: time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)}
	if startStr != "" {
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return nil, err
		}
		r.Start = start
	}
	if endStr != "" {
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return nil, err
		}
		// Inclusive end: cover the whole last day.
		r.End = end.Add(24*time.Hour - time.Nanosecond)
	}
	return r, nil
}

// pagingFromQuery parses optional page/per_page params; zero means "leave the
// store's current value alone".
func pagingFromQuery(c *fiber.Ctx) (page, perPage int, err error) {
	if v := c.Query("page"); v != "" {
		page, err = strconv.Atoi(v)
		if err != nil || page < 1 {
			return 0, 0, errInvalidPaging
		}
	}
	if v := c.Query("per_page"); v != "" {
		perPage, err = strconv.Atoi(v)
		if err != nil || perPage < 1 {
			return 0, 0, errInvalidPaging
		}
	}
	return page, perPage, nil
}
