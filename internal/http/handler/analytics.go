package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"docflow/internal/service"
)

// DocumentStatusChart returns the per-status document histogram.
func DocumentStatusChart(analytics *service.Analytics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		chart, err := analytics.DocumentStatusData(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(chart)
	}
}

// DocumentTrendChart returns the daily created/approved/rejected series.
// Optional start/end query params (YYYY-MM-DD) move the window first.
func DocumentTrendChart(analytics *service.Analytics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		startStr, endStr := c.Query("start"), c.Query("end")
		if startStr != "" && endStr != "" {
			start, err := time.Parse("2006-01-02", startStr)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_DATE", "dates must be YYYY-MM-DD")
			}
			end, err := time.Parse("2006-01-02", endStr)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_DATE", "dates must be YYYY-MM-DD")
			}
			if end.Before(start) {
				return writeError(c, fiber.StatusBadRequest, "INVALID_DATE", "end must not precede start")
			}
			analytics.SetDateRange(start, end)
		}

		chart, err := analytics.DocumentTrendData(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(chart)
	}
}

// TaskStatusChart returns the per-status task histogram, overdue included.
func TaskStatusChart(analytics *service.Analytics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		chart, err := analytics.TaskStatusData(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(chart)
	}
}

// ProcessingTimeChart returns the average hours-to-close per document type.
func ProcessingTimeChart(analytics *service.Analytics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		chart, err := analytics.ProcessingTimeData(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(chart)
	}
}

// RefreshAnalytics recomputes every cached view from fresh store data.
func RefreshAnalytics(analytics *service.Analytics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := analytics.Generate(c.UserContext()); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
