package handlers

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nstepanov/eshop/internal/mykafka"
)

type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func errorResponse(c echo.Context, code int, message string) error {
	return c.JSON(code, StatusResponse{
		Success: false,
		Message: message,
	})
}

func publishEvent(c echo.Context, p *mykafka.Producer, topic, key string, event map[string]any) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}
