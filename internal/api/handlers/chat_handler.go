package handlers

import (
	"jisang-advisory/internal/dto"
	"jisang-advisory/internal/errs"
	"jisang-advisory/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ChatHandler struct {
	advisoryService *service.AdvisoryService
	chatService     *service.ChatService
	sessions        *service.SessionService
	logger          *zap.Logger
}

func NewChatHandler(
	advisoryService *service.AdvisoryService,
	chatService *service.ChatService,
	sessions *service.SessionService,
	logger *zap.Logger,
) *ChatHandler {
	return &ChatHandler{
		advisoryService: advisoryService,
		chatService:     chatService,
		sessions:        sessions,
		logger:          logger,
	}
}

// Converse godoc
// @Summary Answer one chat utterance about an asset
// @Description Routes the message through intent rules first, AI delegation second
// @Tags chat
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "Session, message and asset data"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/chat [post]
func (h *ChatHandler) Converse(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is required",
		})
	}

	// Facts are recomputed for every turn, so replies never rely on stale
	// derived state.
	adv := req.Advisory()
	facts, err := h.advisoryService.Facts(adv.Asset(), adv.LoanModels(), adv.Restrictions)
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

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = h.sessions.Open(req.Address)
	}

	reply, intent := h.chatService.Converse(c.Context(), sessionID, req.Message, facts)

	return c.JSON(dto.ChatResponse{
		SessionID: sessionID,
		Reply:     reply,
		Intent:    string(intent),
	})
}
