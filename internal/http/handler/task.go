package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"docflow/internal/model"
	"docflow/internal/service"
)

// ListTasks reloads the collection and returns the filtered, paginated view.
// Query parameters: status, search, assignee, page, per_page.
func ListTasks(store *service.TaskStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filters := service.TaskFilters{
			Status:   model.TaskStatus(c.Query("status")),
			Search:   c.Query("search"),
			Assignee: c.Query("assignee"),
		}
		if filters.Status != "" && !filters.Status.Valid() {
			return writeError(c, fiber.StatusBadRequest, "INVALID_STATUS", "unknown task status")
		}

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

// GetTask returns one task by id.
func GetTask(store *service.TaskStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		task, err := store.FetchByID(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(task)
	}
}

// CreateTask creates a task from the JSON body.
func CreateTask(store *service.TaskStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input service.CreateTaskInput
		if err := c.BodyParser(&input); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		task, err := store.Create(c.UserContext(), input)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(task)
	}
}

// UpdateTask applies a partial update; absent fields stay untouched.
func UpdateTask(store *service.TaskStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var patch service.TaskPatch
		if err := c.BodyParser(&patch); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		task, err := store.Update(c.UserContext(), c.Params("id"), patch)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(task)
	}
}

// DeleteTask removes a task.
func DeleteTask(store *service.TaskStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := store.Remove(c.UserContext(), c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
