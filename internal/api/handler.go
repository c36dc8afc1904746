package api

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	"github.com/witcher-command-center/backend/internal/metrics"
	"github.com/witcher-command-center/backend/internal/steam"
)

// AchievementsService defines the relay operations used by the handler.
type AchievementsService interface {
	FetchAchievements(ctx context.Context, playerID string) (json.RawMessage, error)
	Configured() bool
}

// AchievementsHandler handles HTTP requests for the achievements relay.
type AchievementsHandler struct {
	logger      *zap.Logger
	service     AchievementsService
	serviceName string
}

// NewAchievementsHandler creates a new AchievementsHandler. serviceName is reported
// by the root and health endpoints.
func NewAchievementsHandler(logger *zap.Logger, service AchievementsService, serviceName string) *AchievementsHandler {
	return &AchievementsHandler{
		logger:      logger,
		service:     service,
		serviceName: serviceName,
	}
}

// Root reports that the process is up.
func (h *AchievementsHandler) Root(c *fiber.Ctx) error {
	return c.JSON(StatusResponse{Status: "ok", Service: h.serviceName})
}

// Health is Root plus whether the Steam key is configured. It is a liveness probe
// and always returns 200.
func (h *AchievementsHandler) Health(c *fiber.Ctx) error {
	credential := "configured"
	if !h.service.Configured() {
		credential = "missing"
	}
	return c.JSON(StatusResponse{Status: "ok", Service: h.serviceName, Credential: credential})
}

// GetAchievements relays the player's "playerstats" record.
func (h *AchievementsHandler) GetAchievements(c *fiber.Ctx) error {
	// Params are backed by the request buffer.
	playerID := fiberutils.CopyString(c.Params("playerId"))
	if unescaped, err := url.PathUnescape(playerID); err == nil {
		playerID = unescaped
	}

	stats, err := h.service.FetchAchievements(c.UserContext(), playerID)
	if err != nil {
		return h.writeFault(c, playerID, steam.AsFault(err))
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(fiber.StatusOK).Send(stats)
}

func (h *AchievementsHandler) writeFault(c *fiber.Ctx, playerID string, f *steam.Fault) error {
	metrics.IncFault(string(f.Kind))

	fields := []zap.Field{
		zap.String("kind", string(f.Kind)),
		zap.Int("status", f.Status),
		zap.String("steam_id", playerID),
		zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
	}
	switch f.Kind {
	case steam.KindInternal, steam.KindConfiguration:
		h.logger.Error("relay.fault", append(fields, zap.String("detail", f.Message))...)
	default:
		h.logger.Warn("relay.fault", fields...)
	}

	return c.Status(f.Status).JSON(ErrorResponse{Detail: f.Message})
}
