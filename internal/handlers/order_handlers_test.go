package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/nstepanov/eshop/internal/models"
	"github.com/nstepanov/eshop/internal/service"
)

func seedOrderEnv(t *testing.T) (*OrderHandler, *models.Product, *models.Product) {
	t.Helper()

	db := InitTestDB(t)
	h := &OrderHandler{Svc: &service.OrderService{DB: db}}

	category := models.Category{Name: "test_category"}
	require.NoError(t, db.Create(&category).Error)

	p1 := models.Product{Name: "first", Description: "d", Price: 1000, CategoryID: category.ID}
	p2 := models.Product{Name: "second", Description: "d", Price: 500, CategoryID: category.ID}
	require.NoError(t, db.Create(&p1).Error)
	require.NoError(t, db.Create(&p2).Error)

	return h, &p1, &p2
}

func TestCreateOrderHandler(t *testing.T) {
	h, p1, p2 := seedOrderEnv(t)

	payload := map[string]any{
		"orderItems": []map[string]any{
			{"product": p1.ID, "quantity": 2},
			{"product": p2.ID, "quantity": 1},
		},
		"shippingAddress1": "Main st 1",
		"city":             "Springfield",
		"zip":              "12345",
		"country":          "US",
		"phone":            "555-0101",
		"user":             1,
	}

	rec, c := doJSONRequest(t, http.MethodPost, "/api/v1/orders", payload)
	require.NoError(t, h.CreateOrder(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var order models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	require.Equal(t, int64(2500), order.TotalPrice)
	require.Len(t, order.Items, 2)
	require.Equal(t, p1.ID, order.Items[0].ProductID)
	require.Equal(t, p2.ID, order.Items[1].ProductID)
	require.Equal(t, "Main st 1", order.ShippingAddress1)
}

func TestCreateOrderHandlerUnknownProduct(t *testing.T) {
	h, p1, _ := seedOrderEnv(t)

	payload := map[string]any{
		"orderItems": []map[string]any{
			{"product": p1.ID, "quantity": 1},
			{"product": 9999, "quantity": 1},
		},
		"user": 1,
	}

	_, c := doJSONRequest(t, http.MethodPost, "/api/v1/orders", payload)
	err := h.CreateOrder(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusBadRequest, he.Code)
}

func TestDeleteOrderHandler(t *testing.T) {
	h, p1, _ := seedOrderEnv(t)

	payload := map[string]any{
		"orderItems": []map[string]any{{"product": p1.ID, "quantity": 1}},
		"user":       1,
	}
	rec, c := doJSONRequest(t, http.MethodPost, "/api/v1/orders", payload)
	require.NoError(t, h.CreateOrder(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var order models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))

	rec, c = doJSONRequest(t, http.MethodDelete, "/api/v1/orders/1", nil)
	c.SetParamNames("id")
	c.SetParamValues(itoa(order.ID))
	require.NoError(t, h.DeleteOrder(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)

	// missing order
	rec, c = doJSONRequest(t, http.MethodDelete, "/api/v1/orders/999", nil)
	c.SetParamNames("id")
	c.SetParamValues("999")
	require.NoError(t, h.DeleteOrder(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderAggregatesHandler(t *testing.T) {
	h, p1, _ := seedOrderEnv(t)

	payload := map[string]any{
		"orderItems": []map[string]any{{"product": p1.ID, "quantity": 3}},
		"user":       7,
	}
	rec, c := doJSONRequest(t, http.MethodPost, "/api/v1/orders", payload)
	require.NoError(t, h.CreateOrder(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, c = doJSONRequest(t, http.MethodGet, "/api/v1/orders/get/totalsales", nil)
	require.NoError(t, h.TotalSales(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var sales map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sales))
	require.Equal(t, int64(3000), sales["totalSales"])

	rec, c = doJSONRequest(t, http.MethodGet, "/api/v1/orders/get/count", nil)
	require.NoError(t, h.CountOrders(c))
	var count map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &count))
	require.Equal(t, int64(1), count["count"])

	rec, c = doJSONRequest(t, http.MethodGet, "/api/v1/orders/get/userorders/7", nil)
	c.SetParamNames("userid")
	c.SetParamValues("7")
	require.NoError(t, h.UserOrders(c))
	var orders []models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
}
