package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/reviewlens/backend/internal/storage/sqlite"
	"github.com/reviewlens/backend/pkg/logger"
)

type RunsHandler struct {
	db *sqlite.Client
}

func NewRunsHandler(db *sqlite.Client) *RunsHandler {
	return &RunsHandler{db: db}
}

func (h *RunsHandler) ListRuns(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	runs, err := h.db.ListRuns(limit)
	if err != nil {
		logger.Error("Failed to list runs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list runs",
		})
	}

	return c.JSON(fiber.Map{
		"runs":  runs,
		"count": len(runs),
	})
}

func (h *RunsHandler) GetRun(c *fiber.Ctx) error {
	id := c.Params("id")

	run, err := h.db.GetRun(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Run not found",
		})
	}

	records, err := h.db.GetFeatureRecords(id)
	if err != nil {
		logger.Error("Failed to get feature records", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load feature records",
		})
	}

	return c.JSON(fiber.Map{
		"run":      run,
		"features": records,
	})
}

func (h *RunsHandler) GetReport(c *fiber.Ctx) error {
	id := c.Params("id")

	reportText, err := h.db.GetReport(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Report not found",
		})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(reportText)
}
