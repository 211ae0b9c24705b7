package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/eco-route-service/internal/pkg/errors"
	"github.com/eco-route-service/internal/pkg/utils"
	"github.com/eco-route-service/internal/pkg/validator"
	"github.com/eco-route-service/internal/usecase"
	"github.com/eco-route-service/internal/usecase/dto"
)

// RouteHandler - обработчик сравнения маршрутов
type RouteHandler struct {
	routeUC *usecase.RouteUseCase
	logger  *zap.Logger
}

// NewRouteHandler - создание нового RouteHandler
func NewRouteHandler(routeUC *usecase.RouteUseCase, logger *zap.Logger) *RouteHandler {
	return &RouteHandler{
		routeUC: routeUC,
		logger:  logger,
	}
}

// CompareRoutes godoc
// @Summary Сравнение вариантов поездки
// @Description Находит обе точки в справочнике, считает расстояние по дуге большого круга и возвращает все подходящие виды транспорта с длительностью, стоимостью, CO₂, эко-рейтингом и бонусными баллами. Варианты отсортированы по эко-рейтингу.
// @Tags Routes
// @Accept json
// @Produce json
// @Param request body dto.RouteRequest true "Откуда, куда и сколько путешественников"
// @Success 200 {object} utils.Response{data=dto.RouteComparisonResponse}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /routes [post]
// @Router /api/v1/routes [post]
func (h *RouteHandler) CompareRoutes(c *fiber.Ctx) error {
	var req dto.RouteRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.Validation("invalid request body"))
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.Validation(validator.Message(err)))
	}

	result, err := h.routeUC.Compare(c.UserContext(), req.ToQuery())
	if err != nil {
		h.logger.Debug("Route comparison rejected",
			zap.String("from", req.From),
			zap.String("to", req.To),
			zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.NewRouteComparisonResponse(result), nil)
}

// GetModes godoc
// @Summary Каталог видов транспорта
// @Description Возвращает все виды транспорта с диапазоном расстояний, скоростью, тарифами, выбросами и эко-рейтингом
// @Tags Routes
// @Produce json
// @Success 200 {object} utils.Response{data=dto.ModesResponse}
// @Router /api/v1/modes [get]
func (h *RouteHandler) GetModes(c *fiber.Ctx) error {
	modes := h.routeUC.Catalog().Modes()

	return utils.SendSuccess(c, dto.ModesResponse{
		Modes: modes,
		Total: len(modes),
	}, nil)
}
