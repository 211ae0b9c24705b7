package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/eco-route-service/internal/pkg/utils"
	"github.com/eco-route-service/internal/usecase"
)

// StatsHandler обрабатывает запросы для статистики
type StatsHandler struct {
	statsUC *usecase.StatsUseCase
	logger  *zap.Logger
}

// NewStatsHandler создает новый экземпляр StatsHandler
func NewStatsHandler(statsUC *usecase.StatsUseCase, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		statsUC: statsUC,
		logger:  logger,
	}
}

// GetStatistics godoc
// @Summary Статистика сервиса
// @Description Агрегаты сравнений маршрутов (если доступен Redis) и сведения о загруженном справочнике
// @Tags Statistics
// @Produce json
// @Success 200 {object} utils.Response{data=dto.StatsResponse}
// @Router /api/v1/stats [get]
func (h *StatsHandler) GetStatistics(c *fiber.Ctx) error {
	h.logger.Debug("Handling get statistics request")

	return utils.SendSuccess(c, h.statsUC.Overview(c.UserContext()), nil)
}
