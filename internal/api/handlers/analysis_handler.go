package handlers

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reviewlens/backend/internal/loader"
	"github.com/reviewlens/backend/internal/pipeline"
	"github.com/reviewlens/backend/pkg/logger"
)

type AnalysisHandler struct {
	pipeline  *pipeline.Pipeline
	uploadDir string
}

func NewAnalysisHandler(p *pipeline.Pipeline, uploadDir string) *AnalysisHandler {
	return &AnalysisHandler{
		pipeline:  p,
		uploadDir: uploadDir,
	}
}

// HandleAnalyze accepts either a JSON body naming a CSV path on disk or a
// multipart upload under the "file" field.
func (h *AnalysisHandler) HandleAnalyze(c *fiber.Ctx) error {
	csvPath, err := h.resolveInput(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	result, err := h.pipeline.Run(c.Context(), csvPath)
	if err != nil {
		if errors.Is(err, loader.ErrNoTextColumn) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": loader.ErrNoTextColumn.Error(),
			})
		}
		logger.Error("Analysis failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to analyze reviews",
		})
	}

	return c.JSON(result)
}

func (h *AnalysisHandler) resolveInput(c *fiber.Ctx) (string, error) {
	if file, err := c.FormFile("file"); err == nil {
		if err := os.MkdirAll(h.uploadDir, 0755); err != nil {
			return "", errors.New("failed to prepare upload directory")
		}
		// Unique destination so concurrent uploads of the same filename
		// cannot clobber each other mid-run.
		dest := filepath.Join(h.uploadDir, uuid.New().String()+"_"+filepath.Base(file.Filename))
		if err := c.SaveFile(file, dest); err != nil {
			logger.Error("Failed to save upload", zap.Error(err))
			return "", errors.New("failed to save uploaded file")
		}
		return dest, nil
	}

	var req struct {
		Path string `json:"path"`
	}
	if err := c.BodyParser(&req); err != nil || req.Path == "" {
		return "", errors.New("provide a CSV file upload or a 'path' field")
	}
	return req.Path, nil
}
