package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"docflow/internal/model"
	"docflow/internal/repository"
	"docflow/internal/storage"
)

// DocumentFilters is the transient filter state of a document store. The zero
// value matches everything.
type DocumentFilters struct {
	Status    model.DocumentStatus
	Search    string
	DateRange *DateRange
}

// CreateDocumentInput carries the caller-supplied fields for a new document.
// Status defaults to draft when empty.
type CreateDocumentInput struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Type        string               `json:"type"`
	Status      model.DocumentStatus `json:"status"`
}

// DocumentPatch is a partial update; nil fields stay untouched.
type DocumentPatch struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	Type        *string               `json:"type"`
	Status      *model.DocumentStatus `json:"status"`
}

// DocumentStore owns the document collection: CRUD against the repository,
// plus the transient filter and pagination state of the current session. One
// instance is created per application and injected where needed; there are no
// ambient globals.
//
// Each mutation is an independent read-modify-write against persistence; the
// mutex serializes writers within this process, but nothing coordinates with
// other processes sharing the same backend (last write wins there).
type DocumentStore struct {
	repo  repository.DocumentRepository
	files storage.Storage
	log   *slog.Logger
	now   func() time.Time

	mu        sync.Mutex
	documents []model.Document
	current   *model.Document
	filters   DocumentFilters
	page      int
	perPage   int
}

// NewDocumentStore builds a store. files may be nil when attachment support
// is disabled.
func NewDocumentStore(repo repository.DocumentRepository, files storage.Storage, log *slog.Logger) *DocumentStore {
	return &DocumentStore{
		repo:    repo,
		files:   files,
		log:     log,
		now:     time.Now,
		page:    defaultPage,
		perPage: defaultPerPage,
	}
}

// FetchAll reloads the collection from persistence, replacing the in-memory
// snapshot, sorted newest first. A corrupt payload fails soft: the snapshot
// becomes empty and ErrCorruptData is returned so callers can still render an
// empty list.
func (s *DocumentStore) FetchAll(ctx context.Context) ([]model.Document, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrCorruptData) {
			s.log.Warn("document collection is corrupt, serving empty", "error", err)
			s.mu.Lock()
			s.documents = []model.Document{}
			s.mu.Unlock()
			return []model.Document{}, ErrCorruptData
		}
		return nil, fmt.Errorf("fetch documents: %w", err)
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})

	s.mu.Lock()
	s.documents = docs
	s.mu.Unlock()

	out := make([]model.Document, len(docs))
	copy(out, docs)
	return out, nil
}

// FetchByID loads a single document and marks it current.
func (s *DocumentStore) FetchByID(ctx context.Context, id string) (*model.Document, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch document %s: %w", id, err)
	}
	s.mu.Lock()
	s.current = doc
	s.mu.Unlock()
	return doc, nil
}

// Create assigns a fresh id, defaults the status to draft, and stamps both
// timestamps with the same creation instant.
func (s *DocumentStore) Create(ctx context.Context, input CreateDocumentInput) (*model.Document, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	status := input.Status
	if status == "" {
		status = model.DocumentDraft
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown document status %q", ErrValidation, input.Status)
	}

	now := s.now()
	doc := &model.Document{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	s.mu.Lock()
	s.documents = append(s.documents, *stored)
	s.mu.Unlock()

	return stored, nil
}

// Update merges the patch over the stored record and re-stamps UpdatedAt.
// CreatedAt never changes.
func (s *DocumentStore) Update(ctx context.Context, id string, patch DocumentPatch) (*model.Document, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("update document %s: %w", id, err)
	}

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		doc.Title = *patch.Title
	}
	if patch.Description != nil {
		doc.Description = *patch.Description
	}
	if patch.Type != nil {
		doc.Type = *patch.Type
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown document status %q", ErrValidation, *patch.Status)
		}
		doc.Status = *patch.Status
	}
	doc.UpdatedAt = s.now()

	updated, err := s.repo.Update(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("update document %s: %w", id, err)
	}

	s.mu.Lock()
	for i := range s.documents {
		if s.documents[i].ID == id {
			s.documents[i] = *updated
			break
		}
	}
	if s.current != nil && s.current.ID == id {
		s.current = updated
	}
	s.mu.Unlock()

	return updated, nil
}

// Remove deletes the record and its attachment, clearing the current pointer
// when it matches.
func (s *DocumentStore) Remove(ctx context.Context, id string) error {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("document %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("remove document %s: %w", id, err)
	}

	if doc.AttachmentPath != "" && s.files != nil {
		if err := s.files.Delete(ctx, doc.AttachmentPath); err != nil {
			return fmt.Errorf("delete attachment of %s: %w", id, err)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("document %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("remove document %s: %w", id, err)
	}

	s.mu.Lock()
	for i := range s.documents {
		if s.documents[i].ID == id {
			s.documents = append(s.documents[:i], s.documents[i+1:]...)
			break
		}
	}
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	s.mu.Unlock()

	return nil
}

// Attach streams a file to object storage and records its metadata on the
// document. A failed metadata write rolls the uploaded object back.
func (s *DocumentStore) Attach(ctx context.Context, id string, r io.Reader, filename, contentType string, size int64) (*model.Document, error) {
	if s.files == nil {
		return nil, fmt.Errorf("%w: attachments are disabled", ErrValidation)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: file is required", ErrValidation)
	}

	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("attach to document %s: %w", id, err)
	}

	key := "attachments/" + uuid.NewString() + filepath.Ext(filename)
	info, err := s.files.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata:    map[string]string{"original-filename": filename},
	})
	if err != nil {
		return nil, fmt.Errorf("upload attachment: %w", err)
	}

	previous := doc.AttachmentPath
	doc.AttachmentName = filename
	doc.AttachmentPath = info.Key
	doc.AttachmentSize = info.Size
	doc.AttachmentType = contentType
	doc.UpdatedAt = s.now()

	updated, err := s.repo.Update(ctx, doc)
	if err != nil {
		if delErr := s.files.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("record attachment failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("record attachment: %w", err)
	}

	// Replacing an attachment orphans the old object otherwise.
	if previous != "" && previous != key {
		if err := s.files.Delete(ctx, previous); err != nil {
			s.log.Warn("failed to delete replaced attachment", "key", previous, "error", err)
		}
	}

	s.mu.Lock()
	for i := range s.documents {
		if s.documents[i].ID == id {
			s.documents[i] = *updated
			break
		}
	}
	if s.current != nil && s.current.ID == id {
		s.current = updated
	}
	s.mu.Unlock()

	return updated, nil
}

// AttachmentURL returns a time-limited download URL for the attachment.
func (s *DocumentStore) AttachmentURL(ctx context.Context, id string, expiry time.Duration) (string, error) {
	if s.files == nil {
		return "", fmt.Errorf("%w: attachments are disabled", ErrValidation)
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", fmt.Errorf("document %s: %w", id, ErrNotFound)
		}
		return "", fmt.Errorf("resolve attachment of %s: %w", id, err)
	}
	if doc.AttachmentPath == "" {
		return "", fmt.Errorf("document %s has no attachment: %w", id, ErrNotFound)
	}
	url, err := s.files.PresignGet(ctx, doc.AttachmentPath, expiry)
	if err != nil {
		return "", fmt.Errorf("presign attachment of %s: %w", id, err)
	}
	return url, nil
}

// Current returns the record selected by the last FetchByID, if any.
func (s *DocumentStore) Current() *model.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	doc := *s.current
	return &doc
}

// Snapshot returns a copy of the in-memory collection as of the last FetchAll.
func (s *DocumentStore) Snapshot() []model.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Document, len(s.documents))
	copy(out, s.documents)
	return out
}

// SetFilters replaces the filter state and resets to the first page.
func (s *DocumentStore) SetFilters(f DocumentFilters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = f
	s.page = defaultPage
}

// ClearFilters drops all filters and resets to the first page.
func (s *DocumentStore) ClearFilters() {
	s.SetFilters(DocumentFilters{})
}

// SetPage moves the pagination window.
func (s *DocumentStore) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if page < 1 {
		page = defaultPage
	}
	s.page = page
}

// SetPerPage changes the window size and resets to the first page.
func (s *DocumentStore) SetPerPage(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 1 {
		n = defaultPerPage
	}
	s.perPage = n
	s.page = defaultPage
}

// FilteredView applies status, search, and date-range filters over the
// snapshot, in that order, then slices to the current page. Total reflects
// all filters together, before pagination.
func (s *DocumentStore) FilteredView() Page[model.Document] {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := make([]model.Document, 0, len(s.documents))
	for _, doc := range s.documents {
		if s.filters.Status != "" && doc.Status != s.filters.Status {
			continue
		}
		if s.filters.Search != "" && !matchesSearch(s.filters.Search, doc.Title, doc.Description) {
			continue
		}
		if s.filters.DateRange != nil && !s.filters.DateRange.Contains(doc.CreatedAt) {
			continue
		}
		filtered = append(filtered, doc)
	}

	return pageWindow(filtered, s.page, s.perPage)
}

// StatusCounts tallies the snapshot per status, keyed by the enum values.
func (s *DocumentStore) StatusCounts() map[model.DocumentStatus]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[model.DocumentStatus]int, len(model.DocumentStatuses))
	for _, status := range model.DocumentStatuses {
		counts[status] = 0
	}
	for _, doc := range s.documents {
		if _, ok := counts[doc.Status]; ok {
			counts[doc.Status]++
		}
	}
	return counts
}

// matchesSearch does a case-insensitive substring match over title and
// description.
func matchesSearch(query string, title, description string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(title), q) ||
		strings.Contains(strings.ToLower(description), q)
}
