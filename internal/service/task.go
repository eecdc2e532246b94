package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"docflow/internal/model"
	"docflow/internal/repository"
)

// TaskFilters is the transient filter state of a task store. The zero value
// matches everything.
type TaskFilters struct {
	Status   model.TaskStatus
	Search   string
	Assignee string
}

// CreateTaskInput carries the caller-supplied fields for a new task. Status
// defaults to todo when empty.
type CreateTaskInput struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Status      model.TaskStatus `json:"status"`
	Deadline    time.Time        `json:"deadline"`
	AssigneeID  string           `json:"assigneeId"`
}

// TaskPatch is a partial update; nil fields stay untouched.
type TaskPatch struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Status      *model.TaskStatus `json:"status"`
	Deadline    *time.Time        `json:"deadline"`
	AssigneeID  *string           `json:"assigneeId"`
}

// TaskStore owns the task collection with the same contract as DocumentStore:
// whole-collection read-modify-write against the repository, transient filter
// and pagination state, a mutex for in-process writers only.
type TaskStore struct {
	repo repository.TaskRepository
	log  *slog.Logger
	now  func() time.Time

	mu      sync.Mutex
	tasks   []model.Task
	current *model.Task
	filters TaskFilters
	page    int
	perPage int
}

// NewTaskStore builds a store.
func NewTaskStore(repo repository.TaskRepository, log *slog.Logger) *TaskStore {
	return &TaskStore{
		repo:    repo,
		log:     log,
		now:     time.Now,
		page:    defaultPage,
		perPage: defaultPerPage,
	}
}

// FetchAll reloads the collection, sorted by deadline ascending (closest
// first). Corrupt payloads fail soft the same way documents do.
func (s *TaskStore) FetchAll(ctx context.Context) ([]model.Task, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrCorruptData) {
			s.log.Warn("task collection is corrupt, serving empty", "error", err)
			s.mu.Lock()
			s.tasks = []model.Task{}
			s.mu.Unlock()
			return []model.Task{}, ErrCorruptData
		}
		return nil, fmt.Errorf("fetch tasks: %w", err)
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Deadline.Before(tasks[j].Deadline)
	})

	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()

	out := make([]model.Task, len(tasks))
	copy(out, tasks)
	return out, nil
}

// FetchByID loads a single task and marks it current.
func (s *TaskStore) FetchByID(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("fetch task %s: %w", id, err)
	}
	s.mu.Lock()
	s.current = task
	s.mu.Unlock()
	return task, nil
}

// Create assigns a fresh id, defaults the status to todo, and stamps both
// timestamps with the same creation instant.
func (s *TaskStore) Create(ctx context.Context, input CreateTaskInput) (*model.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	status := input.Status
	if status == "" {
		status = model.TaskTodo
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown task status %q", ErrValidation, input.Status)
	}

	now := s.now()
	task := &model.Task{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		Deadline:    input.Deadline,
		AssigneeID:  input.AssigneeID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	stored, err := s.repo.Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, *stored)
	s.mu.Unlock()

	return stored, nil
}

// Update merges the patch over the stored record and re-stamps UpdatedAt.
func (s *TaskStore) Update(ctx context.Context, id string, patch TaskPatch) (*model.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("update task %s: %w", id, err)
	}

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrValidation)
		}
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown task status %q", ErrValidation, *patch.Status)
		}
		task.Status = *patch.Status
	}
	if patch.Deadline != nil {
		task.Deadline = *patch.Deadline
	}
	if patch.AssigneeID != nil {
		task.AssigneeID = *patch.AssigneeID
	}
	task.UpdatedAt = s.now()

	updated, err := s.repo.Update(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("update task %s: %w", id, err)
	}

	s.mu.Lock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i] = *updated
			break
		}
	}
	if s.current != nil && s.current.ID == id {
		s.current = updated
	}
	s.mu.Unlock()

	return updated, nil
}

// Remove deletes the record, clearing the current pointer when it matches.
func (s *TaskStore) Remove(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("task %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("remove task %s: %w", id, err)
	}

	s.mu.Lock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			break
		}
	}
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	s.mu.Unlock()

	return nil
}

// Current returns the record selected by the last FetchByID, if any.
func (s *TaskStore) Current() *model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	task := *s.current
	return &task
}

// Snapshot returns a copy of the in-memory collection as of the last FetchAll.
func (s *TaskStore) Snapshot() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// SetFilters replaces the filter state and resets to the first page.
func (s *TaskStore) SetFilters(f TaskFilters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = f
	s.page = defaultPage
}

// ClearFilters drops all filters and resets to the first page.
func (s *TaskStore) ClearFilters() {
	s.SetFilters(TaskFilters{})
}

// SetPage moves the pagination window.
func (s *TaskStore) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if page < 1 {
		page = defaultPage
	}
	s.page = page
}

// SetPerPage changes the window size and resets to the first page.
func (s *TaskStore) SetPerPage(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 1 {
		n = defaultPerPage
	}
	s.perPage = n
	s.page = defaultPage
}

// FilteredView applies status, search, and assignee filters over the
// snapshot, then slices to the current page. The status filter matches the
// stored status, not the derived overdue state.
func (s *TaskStore) FilteredView() Page[model.Task] {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := make([]model.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if s.filters.Status != "" && task.Status != s.filters.Status {
			continue
		}
		if s.filters.Search != "" && !matchesSearch(s.filters.Search, task.Title, task.Description) {
			continue
		}
		if s.filters.Assignee != "" && task.AssigneeID != s.filters.Assignee {
			continue
		}
		filtered = append(filtered, task)
	}

	return pageWindow(filtered, s.page, s.perPage)
}

// StatusCounts tallies the snapshot per effective status as of now: a task
// past its deadline and not completed counts as overdue instead of its stored
// status.
func (s *TaskStore) StatusCounts(now time.Time) map[model.TaskStatus]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[model.TaskStatus]int, len(model.TaskStatuses))
	for _, status := range model.TaskStatuses {
		counts[status] = 0
	}
	for _, task := range s.tasks {
		status := task.EffectiveStatus(now)
		if _, ok := counts[status]; ok {
			counts[status]++
		}
	}
	return counts
}
