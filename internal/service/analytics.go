package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"docflow/internal/model"
)

const dayFormat = "2006-01-02"

// Dataset is one labeled series of a chart.
type Dataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// ChartData is a chart-ready aggregation: one label per x-axis position and
// one or more datasets aligned with those labels.
type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Analytics derives read-side views from the record stores. Every view is
// memoized after its first computation; SetDateRange drops only the
// date-dependent views, ClearCache drops everything.
type Analytics struct {
	docs  *DocumentStore
	tasks *TaskStore
	log   *slog.Logger
	now   func() time.Time

	mu        sync.Mutex
	dateRange DateRange

	docStatus  *ChartData
	docTrend   *ChartData
	taskStatus *ChartData
	processing *ChartData
}

// NewAnalytics builds the aggregator. The initial date range covers the last
// month up to now.
func NewAnalytics(docs *DocumentStore, tasks *TaskStore, log *slog.Logger) *Analytics {
	now := time.Now()
	return &Analytics{
		docs:  docs,
		tasks: tasks,
		log:   log,
		now:   time.Now,
		dateRange: DateRange{
			Start: now.AddDate(0, -1, 0),
			End:   now,
		},
	}
}

// DateRange returns the current trend window.
func (a *Analytics) DateRange() DateRange {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dateRange
}

// SetDateRange replaces the trend window and invalidates only the views that
// depend on it.
func (a *Analytics) SetDateRange(start, end time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.dateRange = DateRange{Start: start, End: end}
	a.docTrend = nil
}

// ClearCache drops every memoized view.
func (a *Analytics) ClearCache() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.docStatus = nil
	a.docTrend = nil
	a.taskStatus = nil
	a.processing = nil
}

// Generate recomputes every view from fresh store data and re-fills the
// cache.
func (a *Analytics) Generate(ctx context.Context) error {
	a.ClearCache()
	if _, err := a.DocumentStatusData(ctx); err != nil {
		return err
	}
	if _, err := a.DocumentTrendData(ctx); err != nil {
		return err
	}
	if _, err := a.TaskStatusData(ctx); err != nil {
		return err
	}
	if _, err := a.ProcessingTimeData(ctx); err != nil {
		return err
	}
	return nil
}

// refreshDocuments reloads the document snapshot, tolerating corrupt payloads
// the same way the store does.
func (a *Analytics) refreshDocuments(ctx context.Context) error {
	if _, err := a.docs.FetchAll(ctx); err != nil && !errors.Is(err, ErrCorruptData) {
		return err
	}
	return nil
}

func (a *Analytics) refreshTasks(ctx context.Context) error {
	if _, err := a.tasks.FetchAll(ctx); err != nil && !errors.Is(err, ErrCorruptData) {
		return err
	}
	return nil
}

// DocumentStatusData counts documents per status, labels ordered like the
// status enum.
func (a *Analytics) DocumentStatusData(ctx context.Context) (*ChartData, error) {
	a.mu.Lock()
	if a.docStatus != nil {
		cached := a.docStatus
		a.mu.Unlock()
		return cached, nil
	}
	a.mu.Unlock()

	if err := a.refreshDocuments(ctx); err != nil {
		return nil, err
	}
	counts := a.docs.StatusCounts()

	labels := make([]string, len(model.DocumentStatuses))
	data := make([]float64, len(model.DocumentStatuses))
	for i, status := range model.DocumentStatuses {
		labels[i] = titleCase(string(status))
		data[i] = float64(counts[status])
	}
	chart := &ChartData{
		Labels:   labels,
		Datasets: []Dataset{{Label: "Documents", Data: data}},
	}

	a.mu.Lock()
	a.docStatus = chart
	a.mu.Unlock()
	return chart, nil
}

// DocumentTrendData buckets every calendar day inside the date range into
// created/approved/rejected counts. Days without activity stay in the series
// with zero counts. Created activity is keyed by the creation day; approval
// and rejection by the day of the last update, since a terminal status change
// is what stamped it.
func (a *Analytics) DocumentTrendData(ctx context.Context) (*ChartData, error) {
	a.mu.Lock()
	if a.docTrend != nil {
		cached := a.docTrend
		a.mu.Unlock()
		return cached, nil
	}
	dateRange := a.dateRange
	a.mu.Unlock()

	if err := a.refreshDocuments(ctx); err != nil {
		return nil, err
	}
	docs := a.docs.Snapshot()

	type bucket struct{ created, approved, rejected int }

	start := dateRange.Start.UTC().Truncate(24 * time.Hour)
	end := dateRange.End.UTC().Truncate(24 * time.Hour)

	buckets := make(map[string]*bucket)
	days := []string{}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(dayFormat)
		buckets[key] = &bucket{}
		days = append(days, key)
	}

	for _, doc := range docs {
		createdDay := doc.CreatedAt.UTC().Format(dayFormat)
		if b, ok := buckets[createdDay]; ok {
			b.created++
		}
		if doc.Status == model.DocumentApproved || doc.Status == model.DocumentRejected {
			updatedDay := doc.UpdatedAt.UTC().Format(dayFormat)
			if b, ok := buckets[updatedDay]; ok {
				if doc.Status == model.DocumentApproved {
					b.approved++
				} else {
					b.rejected++
				}
			}
		}
	}

	created := make([]float64, len(days))
	approved := make([]float64, len(days))
	rejected := make([]float64, len(days))
	for i, day := range days {
		created[i] = float64(buckets[day].created)
		approved[i] = float64(buckets[day].approved)
		rejected[i] = float64(buckets[day].rejected)
	}

	chart := &ChartData{
		Labels: days,
		Datasets: []Dataset{
			{Label: "Created", Data: created},
			{Label: "Approved", Data: approved},
			{Label: "Rejected", Data: rejected},
		},
	}

	a.mu.Lock()
	a.docTrend = chart
	a.mu.Unlock()
	return chart, nil
}

// TaskStatusData counts tasks per effective status, including the derived
// overdue bucket.
func (a *Analytics) TaskStatusData(ctx context.Context) (*ChartData, error) {
	a.mu.Lock()
	if a.taskStatus != nil {
		cached := a.taskStatus
		a.mu.Unlock()
		return cached, nil
	}
	a.mu.Unlock()

	if err := a.refreshTasks(ctx); err != nil {
		return nil, err
	}
	counts := a.tasks.StatusCounts(a.now())

	labels := make([]string, len(model.TaskStatuses))
	data := make([]float64, len(model.TaskStatuses))
	for i, status := range model.TaskStatuses {
		labels[i] = titleCase(string(status))
		data[i] = float64(counts[status])
	}
	chart := &ChartData{
		Labels:   labels,
		Datasets: []Dataset{{Label: "Tasks", Data: data}},
	}

	a.mu.Lock()
	a.taskStatus = chart
	a.mu.Unlock()
	return chart, nil
}

// ProcessingTimeData averages, per document type, the hours between creation
// and the terminal update of approved or rejected documents, rounded to one
// decimal. Documents without a type are skipped.
func (a *Analytics) ProcessingTimeData(ctx context.Context) (*ChartData, error) {
	a.mu.Lock()
	if a.processing != nil {
		cached := a.processing
		a.mu.Unlock()
		return cached, nil
	}
	a.mu.Unlock()

	if err := a.refreshDocuments(ctx); err != nil {
		return nil, err
	}
	docs := a.docs.Snapshot()

	hoursByType := make(map[string][]float64)
	for _, doc := range docs {
		if !doc.Status.Terminal() || doc.Type == "" {
			continue
		}
		hours := doc.UpdatedAt.Sub(doc.CreatedAt).Hours()
		hoursByType[doc.Type] = append(hoursByType[doc.Type], hours)
	}

	types := make([]string, 0, len(hoursByType))
	for t := range hoursByType {
		types = append(types, t)
	}
	sort.Strings(types)

	averages := make([]float64, len(types))
	for i, t := range types {
		var sum float64
		for _, h := range hoursByType[t] {
			sum += h
		}
		avg := sum / float64(len(hoursByType[t]))
		averages[i] = math.Round(avg*10) / 10
	}

	chart := &ChartData{
		Labels:   types,
		Datasets: []Dataset{{Label: "Average Processing Time (hours)", Data: averages}},
	}

	a.mu.Lock()
	a.processing = chart
	a.mu.Unlock()
	return chart, nil
}

// titleCase turns a kebab-case status into a display label: "in-progress"
// becomes "In Progress".
func titleCase(s string) string {
	words := strings.Split(s, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
