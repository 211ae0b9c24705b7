package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/eco-route-service/internal/pkg/errors"
	"github.com/eco-route-service/internal/pkg/utils"
	"github.com/eco-route-service/internal/pkg/validator"
	"github.com/eco-route-service/internal/usecase"
	"github.com/eco-route-service/internal/usecase/dto"
)

// LocationHandler - подсказки по названиям мест
type LocationHandler struct {
	locationUC *usecase.LocationUseCase
	logger     *zap.Logger
}

// NewLocationHandler - создание нового LocationHandler
func NewLocationHandler(locationUC *usecase.LocationUseCase, logger *zap.Logger) *LocationHandler {
	return &LocationHandler{
		locationUC: locationUC,
		logger:     logger,
	}
}

// Search godoc
// @Summary Поиск мест по названию
// @Description Возвращает лучшие совпадения из справочника: полное совпадение 100, префикс 90, вхождение 70
// @Tags Locations
// @Produce json
// @Param q query string true "Поисковый запрос (минимум 2 символа)"
// @Param limit query int false "Максимальное количество результатов" default(10)
// @Success 200 {object} utils.Response{data=dto.SuggestResponse}
// @Failure 400 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /api/v1/locations/search [get]
func (h *LocationHandler) Search(c *fiber.Ctx) error {
	start := time.Now()

	req := dto.SuggestRequest{
		Query: c.Query("q"),
		Limit: c.QueryInt("limit", 10),
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.Validation(validator.Message(err)))
	}

	result, err := h.locationUC.Suggest(c.UserContext(), req)
	if err != nil {
		h.logger.Error("Failed to search locations", zap.String("query", req.Query), zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    result.Total,
		Limit:    req.Limit,
		TimeMSec: float64(time.Since(start).Nanoseconds()) / 1e6,
	})
}
