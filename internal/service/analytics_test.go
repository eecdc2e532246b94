package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"docflow/internal/blob"
	"docflow/internal/model"
	"docflow/internal/repository/blobstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnalytics(t *testing.T) (*Analytics, *DocumentStore, *TaskStore) {
	t.Helper()
	mem := blob.NewMemory()
	docs := NewDocumentStore(blobstore.NewDocuments(mem), nil, slog.Default())
	docs.now = func() time.Time { return testTime }
	tasks := NewTaskStore(blobstore.NewTasks(mem), slog.Default())
	tasks.now = func() time.Time { return testTime }

	a := NewAnalytics(docs, tasks, slog.Default())
	a.now = func() time.Time { return testTime }
	return a, docs, tasks
}

func TestAnalytics_TrendBucketCountMatchesDaySpan(t *testing.T) {
	ctx := context.Background()
	a, _, _ := newAnalytics(t)

	start := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	end := time.Date(2026, 3, 7, 18, 0, 0, 0, time.UTC)
	a.SetDateRange(start, end)

	// Seven days inclusive, zero documents: the series is dense anyway.
	chart, err := a.DocumentTrendData(ctx)
	require.NoError(t, err)
	require.Len(t, chart.Labels, 7)
	assert.Equal(t, "2026-03-01", chart.Labels[0])
	assert.Equal(t, "2026-03-07", chart.Labels[6])
	require.Len(t, chart.Datasets, 3)
	for _, ds := range chart.Datasets {
		assert.Len(t, ds.Data, 7)
		for _, v := range ds.Data {
			assert.Zero(t, v)
		}
	}
}

func TestAnalytics_TrendCountsByDay(t *testing.T) {
	ctx := context.Background()
	a, docs, _ := newAnalytics(t)

	day1 := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	day3 := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

	// Created on day 1, approved on day 3.
	docs.now = func() time.Time { return day1 }
	doc, err := docs.Create(ctx, CreateDocumentInput{Title: "Contract", Type: "contract"})
	require.NoError(t, err)
	docs.now = func() time.Time { return day3 }
	status := model.DocumentApproved
	_, err = docs.Update(ctx, doc.ID, DocumentPatch{Status: &status})
	require.NoError(t, err)

	a.SetDateRange(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC))
	chart, err := a.DocumentTrendData(ctx)
	require.NoError(t, err)

	require.Equal(t, []string{"2026-03-01", "2026-03-02", "2026-03-03", "2026-03-04", "2026-03-05"}, chart.Labels)
	created := chart.Datasets[0]
	approved := chart.Datasets[1]
	rejected := chart.Datasets[2]

	assert.Equal(t, []float64{0, 1, 0, 0, 0}, created.Data)
	assert.Equal(t, []float64{0, 0, 0, 1, 0}, approved.Data)
	assert.Equal(t, []float64{0, 0, 0, 0, 0}, rejected.Data)
}

func TestAnalytics_ProcessingTimeSingleInvoice(t *testing.T) {
	ctx := context.Background()
	a, docs, _ := newAnalytics(t)

	docs.now = func() time.Time { return testTime }
	doc, err := docs.Create(ctx, CreateDocumentInput{Title: "Bill", Type: "invoice"})
	require.NoError(t, err)

	docs.now = func() time.Time { return testTime.Add(5 * time.Hour) }
	status := model.DocumentApproved
	_, err = docs.Update(ctx, doc.ID, DocumentPatch{Status: &status})
	require.NoError(t, err)

	chart, err := a.ProcessingTimeData(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"invoice"}, chart.Labels)
	require.Len(t, chart.Datasets, 1)
	assert.Equal(t, []float64{5.0}, chart.Datasets[0].Data)
}

func TestAnalytics_ProcessingTimeAveragesPerType(t *testing.T) {
	ctx := context.Background()
	a, docs, _ := newAnalytics(t)

	closeDoc := func(typ string, after time.Duration, status model.DocumentStatus) {
		docs.now = func() time.Time { return testTime }
		doc, err := docs.Create(ctx, CreateDocumentInput{Title: typ, Type: typ})
		require.NoError(t, err)
		docs.now = func() time.Time { return testTime.Add(after) }
		_, err = docs.Update(ctx, doc.ID, DocumentPatch{Status: &status})
		require.NoError(t, err)
	}

	closeDoc("invoice", 2*time.Hour, model.DocumentApproved)
	closeDoc("invoice", 3*time.Hour, model.DocumentRejected)
	closeDoc("contract", 10*time.Hour, model.DocumentApproved)

	// Still-open documents never count.
	docs.now = func() time.Time { return testTime }
	_, err := docs.Create(ctx, CreateDocumentInput{Title: "open", Type: "invoice"})
	require.NoError(t, err)

	chart, err := a.ProcessingTimeData(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"contract", "invoice"}, chart.Labels)
	assert.Equal(t, []float64{10.0, 2.5}, chart.Datasets[0].Data)
}

func TestAnalytics_DocumentStatusHistogramOrder(t *testing.T) {
	ctx := context.Background()
	a, docs, _ := newAnalytics(t)

	_, err := docs.Create(ctx, CreateDocumentInput{Title: "a", Status: model.DocumentPending})
	require.NoError(t, err)
	_, err = docs.Create(ctx, CreateDocumentInput{Title: "b", Status: model.DocumentPending})
	require.NoError(t, err)
	_, err = docs.Create(ctx, CreateDocumentInput{Title: "c", Status: model.DocumentRejected})
	require.NoError(t, err)

	chart, err := a.DocumentStatusData(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Draft", "Pending", "Approved", "Rejected"}, chart.Labels)
	assert.Equal(t, []float64{0, 2, 0, 1}, chart.Datasets[0].Data)
}

func TestAnalytics_TaskStatusIncludesOverdue(t *testing.T) {
	ctx := context.Background()
	a, _, tasks := newAnalytics(t)

	_, err := tasks.Create(ctx, CreateTaskInput{Title: "late", Status: model.TaskTodo, Deadline: testTime.Add(-time.Hour)})
	require.NoError(t, err)
	_, err = tasks.Create(ctx, CreateTaskInput{Title: "ok", Status: model.TaskInProgress, Deadline: testTime.Add(time.Hour)})
	require.NoError(t, err)

	chart, err := a.TaskStatusData(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Todo", "In Progress", "Completed", "Overdue"}, chart.Labels)
	assert.Equal(t, []float64{0, 1, 0, 1}, chart.Datasets[0].Data)
}

func TestAnalytics_CacheMemoizesUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	a, docs, _ := newAnalytics(t)

	first, err := a.DocumentStatusData(ctx)
	require.NoError(t, err)

	// New data does not show up while the view is cached.
	_, err = docs.Create(ctx, CreateDocumentInput{Title: "new"})
	require.NoError(t, err)
	cached, err := a.DocumentStatusData(ctx)
	require.NoError(t, err)
	assert.Same(t, first, cached)

	a.ClearCache()
	fresh, err := a.DocumentStatusData(ctx)
	require.NoError(t, err)
	assert.NotSame(t, first, fresh)
	assert.Equal(t, float64(1), fresh.Datasets[0].Data[0])
}

func TestAnalytics_SetDateRangeInvalidatesOnlyTrend(t *testing.T) {
	ctx := context.Background()
	a, _, _ := newAnalytics(t)

	status, err := a.DocumentStatusData(ctx)
	require.NoError(t, err)
	trend, err := a.DocumentTrendData(ctx)
	require.NoError(t, err)

	a.SetDateRange(testTime.AddDate(0, 0, -3), testTime)

	statusAgain, err := a.DocumentStatusData(ctx)
	require.NoError(t, err)
	trendAgain, err := a.DocumentTrendData(ctx)
	require.NoError(t, err)

	assert.Same(t, status, statusAgain)
	assert.NotSame(t, trend, trendAgain)
	assert.Len(t, trendAgain.Labels, 4)
}

func TestAnalytics_GenerateFillsEveryView(t *testing.T) {
	ctx := context.Background()
	a, _, _ := newAnalytics(t)

	require.NoError(t, a.Generate(ctx))

	a.mu.Lock()
	defer a.mu.Unlock()
	assert.NotNil(t, a.docStatus)
	assert.NotNil(t, a.docTrend)
	assert.NotNil(t, a.taskStatus)
	assert.NotNil(t, a.processing)
}
