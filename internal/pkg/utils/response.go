package utils

import (
	stderrors "errors"

	"github.com/gofiber/fiber/v2"

	"github.com/eco-route-service/internal/pkg/errors"
)

// Response is the envelope every JSON endpoint answers with.
type Response struct {
	Success bool                   `json:"success"`
	Data    interface{}            `json:"data,omitempty"`
	Error   string                 `json:"error,omitempty"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
	Meta    *Meta                  `json:"meta,omitempty"`
}

type Meta struct {
	Total    int     `json:"total,omitempty"`
	Limit    int     `json:"limit,omitempty"`
	TimeMSec float64 `json:"time_ms,omitempty"`
}

func SendSuccess(c *fiber.Ctx, data interface{}, meta *Meta) error {
	return c.JSON(Response{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func SendError(c *fiber.Ctx, err error) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		// internal failures keep their code but not their message
		if appErr.StatusCode >= fiber.StatusInternalServerError {
			return c.Status(appErr.StatusCode).JSON(Response{
				Success: false,
				Error:   errors.ErrInternalServer.Message,
				Code:    appErr.Code,
			})
		}
		return c.Status(appErr.StatusCode).JSON(Response{
			Success: false,
			Error:   appErr.Message,
			Code:    appErr.Code,
			Details: appErr.Details,
		})
	}

	// Unknown error - return 500
	return c.Status(fiber.StatusInternalServerError).JSON(Response{
		Success: false,
		Error:   errors.ErrInternalServer.Message,
		Code:    errors.ErrInternalServer.Code,
	})
}
