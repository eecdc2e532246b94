package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"docflow/internal/blob"
	"docflow/internal/model"
	"docflow/internal/repository/blobstore"
	repoMocks "docflow/internal/repository/mocks"
	"docflow/internal/storage"
	storageMocks "docflow/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newDocumentStore(t *testing.T) *DocumentStore {
	t.Helper()
	store := NewDocumentStore(blobstore.NewDocuments(blob.NewMemory()), nil, slog.Default())
	store.now = func() time.Time { return testTime }
	return store
}

func TestDocumentStore_CreateStampsBothTimestamps(t *testing.T) {
	ctx := context.Background()
	store := newDocumentStore(t)

	doc, err := store.Create(ctx, CreateDocumentInput{Title: "Contract", Type: "contract"})
	require.NoError(t, err)

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, model.DocumentDraft, doc.Status)
	assert.True(t, doc.CreatedAt.Equal(doc.UpdatedAt))

	// Retrievable immediately after creation.
	found, err := store.FetchByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Contract", found.Title)
}

func TestDocumentStore_CreateValidation(t *testing.T) {
	ctx := context.Background()
	store := newDocumentStore(t)

	_, err := store.Create(ctx, CreateDocumentInput{Title: "   "})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = store.Create(ctx, CreateDocumentInput{Title: "X", Status: "published"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDocumentStore_UpdateMergesPartial(t *testing.T) {
	ctx := context.Background()
	store := newDocumentStore(t)

	doc, err := store.Create(ctx, CreateDocumentInput{Title: "Contract", Description: "initial", Type: "contract"})
	require.NoError(t, err)

	later := testTime.Add(2 * time.Hour)
	store.now = func() time.Time { return later }

	status := model.DocumentApproved
	updated, err := store.Update(ctx, doc.ID, DocumentPatch{Status: &status})
	require.NoError(t, err)

	// Untouched fields survive; CreatedAt is immutable; UpdatedAt advances.
	assert.Equal(t, "Contract", updated.Title)
	assert.Equal(t, "initial", updated.Description)
	assert.Equal(t, model.DocumentApproved, updated.Status)
	assert.True(t, updated.CreatedAt.Equal(doc.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(doc.UpdatedAt))
}

func TestDocumentStore_UpdateRefreshesCurrent(t *testing.T) {
	ctx := context.Background()
	store := newDocumentStore(t)

	doc, err := store.Create(ctx, CreateDocumentInput{Title: "Contract"})
	require.NoError(t, err)
	_, err = store.FetchByID(ctx, doc.ID)
	require.NoError(t, err)

	title := "Contract v2"
	_, err = store.Update(ctx, doc.ID, DocumentPatch{Title: &title})
	require.NoError(t, err)

	current := store.Current()
	require.NotNil(t, current)
	assert.Equal(t, "Contract v2", current.Title)
}

func TestDocumentStore_UpdateNotFound(t *testing.T) {
	ctx := context.Background()
	store := newDocumentStore(t)

	title := "X"
	_, err := store.Update(ctx, "missing", DocumentPatch{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentStore_RemoveThenFetch(t *testing.T) {
	ctx := context.Background()
	store := newDocumentStore(t)

	doc, err := store.Create(ctx, CreateDocumentInput{Title: "Contract"})
	require.NoError(t, err)
	_, err = store.FetchByID(ctx, doc.ID)
	require.NoError(t, err)

	require.NoError(t, store.Remove(ctx, doc.ID))

	_, err = store.FetchByID(ctx, doc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, store.Current())

	assert.ErrorIs(t, store.Remove(ctx, doc.ID), ErrNotFound)
}

func TestDocumentStore_FetchAllSortsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := newDocumentStore(t)

	for i, title := range []string{"old", "mid", "new"} {
		created := testTime.Add(time.Duration(i) * time.Hour)
		store.now = func() time.Time { return created }
		_, err := store.Create(ctx, CreateDocumentInput{Title: title})
		require.NoError(t, err)
	}

	docs, err := store.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "new", docs[0].Title)
	assert.Equal(t, "old", docs[2].Title)
}

func TestDocumentStore_FetchAllFailsSoftOnCorruptData(t *testing.T) {
	ctx := context.Background()
	mem := blob.NewMemory()
	require.NoError(t, mem.Put(ctx, blob.CollectionDocuments, []byte(`{broken`)))

	store := NewDocumentStore(blobstore.NewDocuments(mem), nil, slog.Default())
	docs, err := store.FetchAll(ctx)

	assert.ErrorIs(t, err, ErrCorruptData)
	assert.Empty(t, docs)
	assert.Empty(t, store.Snapshot())
}

func seedFilterFixture(t *testing.T, store *DocumentStore) {
	t.Helper()
	ctx := context.Background()
	fixtures := []struct {
		title, description string
		status             model.DocumentStatus
		offset             time.Duration
	}{
		{"Invoice March", "utility bill", model.DocumentApproved, 0},
		{"Invoice April", "office rent", model.DocumentPending, 24 * time.Hour},
		{"Report Q1", "quarterly invoice summary", model.DocumentApproved, 48 * time.Hour},
		{"Memo", "internal note", model.DocumentDraft, 72 * time.Hour},
	}
	for _, f := range fixtures {
		created := testTime.Add(f.offset)
		store.now = func() time.Time { return created }
		_, err := store.Create(ctx, CreateDocumentInput{Title: f.title, Description: f.description, Status: f.status})
		require.NoError(t, err)
	}
	_, err := store.FetchAll(ctx)
	require.NoError(t, err)
}

func viewIDs(p Page[model.Document]) map[string]bool {
	ids := make(map[string]bool, len(p.Items))
	for _, d := range p.Items {
		ids[d.Title] = true
	}
	return ids
}

func TestDocumentStore_FilteredViewAppliesAllFilters(t *testing.T) {
	store := newDocumentStore(t)
	seedFilterFixture(t, store)

	dateRange := &DateRange{Start: testTime, End: testTime.Add(49 * time.Hour)}
	store.SetFilters(DocumentFilters{
		Status:    model.DocumentApproved,
		Search:    "invoice",
		DateRange: dateRange,
	})

	view := store.FilteredView()
	assert.Equal(t, 2, view.Total)
	assert.Equal(t, map[string]bool{"Invoice March": true, "Report Q1": true}, viewIDs(view))
}

func TestDocumentStore_FilterCompositionIsOrderIndependent(t *testing.T) {
	store := newDocumentStore(t)
	seedFilterFixture(t, store)
	store.SetPerPage(100)

	dateRange := &DateRange{Start: testTime, End: testTime.Add(49 * time.Hour)}

	// Combined result.
	store.SetFilters(DocumentFilters{Status: model.DocumentApproved, Search: "invoice", DateRange: dateRange})
	combined := viewIDs(store.FilteredView())

	// Intersection of each filter applied alone.
	store.SetFilters(DocumentFilters{Status: model.DocumentApproved})
	byStatus := viewIDs(store.FilteredView())
	store.SetFilters(DocumentFilters{Search: "invoice"})
	bySearch := viewIDs(store.FilteredView())
	store.SetFilters(DocumentFilters{DateRange: dateRange})
	byDate := viewIDs(store.FilteredView())

	intersection := map[string]bool{}
	for id := range byStatus {
		if bySearch[id] && byDate[id] {
			intersection[id] = true
		}
	}
	assert.Equal(t, combined, intersection)
}

func TestDocumentStore_PaginationWindow(t *testing.T) {
	ctx := context.Background()
	store := newDocumentStore(t)

	for i := 0; i < 25; i++ {
		created := testTime.Add(time.Duration(i) * time.Minute)
		store.now = func() time.Time { return created }
		_, err := store.Create(ctx, CreateDocumentInput{Title: "doc"})
		require.NoError(t, err)
	}
	_, err := store.FetchAll(ctx)
	require.NoError(t, err)

	view := store.FilteredView()
	assert.Equal(t, 25, view.Total)
	assert.Equal(t, 3, view.TotalPages)
	assert.Len(t, view.Items, 10)

	store.SetPage(3)
	view = store.FilteredView()
	assert.Len(t, view.Items, 5)
	assert.Equal(t, 25, view.Total)

	// Changing a filter resets to the first page.
	store.SetFilters(DocumentFilters{Search: "doc"})
	view = store.FilteredView()
	assert.Equal(t, 1, view.Page)

	// Page far past the end yields an empty window, not an error.
	store.SetPage(99)
	view = store.FilteredView()
	assert.Empty(t, view.Items)
	assert.Equal(t, 25, view.Total)
}

func TestDocumentStore_RepositoryErrorPropagates(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockDocumentRepository)
	store := NewDocumentStore(mRepo, nil, slog.Default())

	mRepo.On("List", ctx).Return(nil, errors.New("backend down"))

	_, err := store.FetchAll(ctx)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCorruptData)
	mRepo.AssertExpectations(t)
}

func TestDocumentStore_StatusCounts(t *testing.T) {
	store := newDocumentStore(t)
	seedFilterFixture(t, store)

	counts := store.StatusCounts()
	assert.Equal(t, 2, counts[model.DocumentApproved])
	assert.Equal(t, 1, counts[model.DocumentPending])
	assert.Equal(t, 1, counts[model.DocumentDraft])
	assert.Equal(t, 0, counts[model.DocumentRejected])
}

func TestDocumentStore_Attach(t *testing.T) {
	ctx := context.Background()
	files := new(storageMocks.MockStorage)
	store := NewDocumentStore(blobstore.NewDocuments(blob.NewMemory()), files, slog.Default())
	store.now = func() time.Time { return testTime }

	doc, err := store.Create(ctx, CreateDocumentInput{Title: "Report"})
	require.NoError(t, err)

	files.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(storage.ObjectInfo{Key: "attachments/k1.pdf", Size: 42}, nil).Once()

	later := testTime.Add(time.Hour)
	store.now = func() time.Time { return later }

	updated, err := store.Attach(ctx, doc.ID, strings.NewReader("content"), "report.pdf", "application/pdf", 42)
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", updated.AttachmentName)
	assert.Equal(t, "attachments/k1.pdf", updated.AttachmentPath)
	assert.Equal(t, int64(42), updated.AttachmentSize)
	assert.Equal(t, "application/pdf", updated.AttachmentType)
	assert.True(t, updated.UpdatedAt.After(doc.UpdatedAt))

	// Replacing the attachment deletes the old object.
	files.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(storage.ObjectInfo{Key: "attachments/k2.pdf", Size: 7}, nil).Once()
	files.On("Delete", ctx, "attachments/k1.pdf").Return(nil).Once()

	updated, err = store.Attach(ctx, doc.ID, strings.NewReader("newer"), "v2.pdf", "application/pdf", 7)
	require.NoError(t, err)
	assert.Equal(t, "attachments/k2.pdf", updated.AttachmentPath)
	files.AssertExpectations(t)
}

func TestDocumentStore_AttachRollsBackOnRecordFailure(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockDocumentRepository)
	files := new(storageMocks.MockStorage)
	store := NewDocumentStore(mRepo, files, slog.Default())

	doc := &model.Document{ID: "d1", Title: "Report"}
	mRepo.On("FindByID", ctx, "d1").Return(doc, nil)
	mRepo.On("Update", ctx, mock.Anything).Return(nil, errors.New("write failed"))

	var uploadedKey string
	files.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { uploadedKey = args.String(1) }).
		Return(storage.ObjectInfo{Key: "attachments/orphan.pdf", Size: 3}, nil).Once()
	files.On("Delete", ctx, mock.Anything).Return(nil).Once()

	_, err := store.Attach(ctx, "d1", strings.NewReader("abc"), "a.pdf", "application/pdf", 3)
	assert.Error(t, err)
	assert.NotEmpty(t, uploadedKey)
	files.AssertExpectations(t)
	mRepo.AssertExpectations(t)
}

func TestDocumentStore_UpdateRepositoryFailure(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockDocumentRepository)
	store := NewDocumentStore(mRepo, nil, slog.Default())

	doc := &model.Document{ID: "d1", Title: "Contract", Status: model.DocumentDraft}
	mRepo.On("FindByID", ctx, "d1").Return(doc, nil)
	mRepo.On("Update", ctx, mock.Anything).Return(nil, errors.New("write failed"))

	title := "Contract v2"
	_, err := store.Update(ctx, "d1", DocumentPatch{Title: &title})
	assert.Error(t, err)
	mRepo.AssertExpectations(t)
}
