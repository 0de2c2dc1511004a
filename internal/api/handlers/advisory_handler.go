package handlers

import (
	"jisang-advisory/internal/dto"
	"jisang-advisory/internal/errs"
	"jisang-advisory/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AdvisoryHandler struct {
	advisoryService *service.AdvisoryService
	logger          *zap.Logger
}

func NewAdvisoryHandler(advisoryService *service.AdvisoryService, logger *zap.Logger) *AdvisoryHandler {
	return &AdvisoryHandler{
		advisoryService: advisoryService,
		logger:          logger,
	}
}

// Analyze godoc
// @Summary Produce an advisory report for one asset
// @Description Computes financial facts and generates a narrative report with valuation scores
// @Tags advisory
// @Accept json
// @Produce json
// @Param request body dto.AdvisoryRequest true "Asset, loans and restrictions"
// @Success 200 {object} dto.AdvisoryResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/advisory [post]
func (h *AdvisoryHandler) Analyze(c *fiber.Ctx) error {
	var req dto.AdvisoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	facts, advisory, err := h.advisoryService.Analyze(c.Context(), req.Asset(), req.LoanModels(), req.Restrictions, req.Mode)
	if err != nil {
		if errs.IsInvalidInput(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		h.logger.Error("advisory analysis failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to produce advisory report",
		})
	}

	return c.JSON(dto.AdvisoryResponse{
		Facts:     facts,
		Narrative: advisory.Narrative,
		Scores:    advisory.Scores,
		Engine:    advisory.Engine,
	})
}

// Facts godoc
// @Summary Compute the fact record for one asset
// @Description Deterministic financial facts only, no narrative generation
// @Tags advisory
// @Accept json
// @Produce json
// @Param request body dto.AdvisoryRequest true "Asset, loans and restrictions"
// @Success 200 {object} dto.FactsResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/advisory/facts [post]
func (h *AdvisoryHandler) Facts(c *fiber.Ctx) error {
	var req dto.AdvisoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	facts, err := h.advisoryService.Facts(req.Asset(), req.LoanModels(), req.Restrictions)
	if err != nil {
		if errs.IsInvalidInput(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		h.logger.Error("fact computation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute facts",
		})
	}

	return c.JSON(dto.FactsResponse{Facts: facts})
}
