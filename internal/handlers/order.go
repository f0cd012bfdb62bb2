package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nstepanov/eshop/internal/mykafka"
	"github.com/nstepanov/eshop/internal/service"
)

type OrderHandler struct {
	Svc      *service.OrderService
	Producer *mykafka.Producer
}

func orderError(err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrProductNotFound):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *OrderHandler) GetOrders(c echo.Context) error {
	orders, err := h.Svc.GetOrders(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list orders")
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	order, err := h.Svc.GetOrder(c.Request().Context(), uint(id))
	if err != nil {
		return orderError(err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var req struct {
		OrderItems []service.RawItem `json:"orderItems"`
		service.ShippingInfo
		Status string `json:"status"`
		User   uint   `json:"user"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.CreateOrder(c.Request().Context(), req.User, req.OrderItems, req.ShippingInfo, req.Status)
	if err != nil {
		return orderError(err)
	}

	publishEvent(c, h.Producer, "order_events", fmt.Sprint(order.ID), map[string]any{
		"type":        "order_created",
		"order_id":    order.ID,
		"user_id":     order.UserID,
		"total_price": order.TotalPrice,
		"items":       len(order.Items),
	})

	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) UpdateOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Status == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "status required")
	}

	order, err := h.Svc.UpdateStatus(c.Request().Context(), uint(id), req.Status)
	if err != nil {
		return orderError(err)
	}

	publishEvent(c, h.Producer, "order_events", fmt.Sprint(order.ID), map[string]any{
		"type":     "order_status_updated",
		"order_id": order.ID,
		"status":   order.Status,
	})

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	res, err := h.Svc.DeleteOrder(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return errorResponse(c, http.StatusNotFound, "order not found")
		}
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}

	publishEvent(c, h.Producer, "order_events", fmt.Sprint(id), map[string]any{
		"type":          "order_deleted",
		"order_id":      id,
		"items_deleted": res.Deleted,
		"items_failed":  res.Failed,
	})

	return c.JSON(http.StatusOK, StatusResponse{Success: true, Message: "deleted successfully"})
}

func (h *OrderHandler) TotalSales(c echo.Context) error {
	total, err := h.Svc.TotalSales(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "the order sales can't be generated")
	}
	return c.JSON(http.StatusOK, echo.Map{"totalSales": total})
}

func (h *OrderHandler) CountOrders(c echo.Context) error {
	count, err := h.Svc.CountOrders(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot count orders")
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

func (h *OrderHandler) UserOrders(c echo.Context) error {
	userID, err := strconv.Atoi(c.Param("userid"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	orders, err := h.Svc.UserOrders(c.Request().Context(), uint(userID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list user orders")
	}
	return c.JSON(http.StatusOK, orders)
}
