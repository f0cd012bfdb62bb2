package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/nstepanov/eshop/internal/models"
	"github.com/nstepanov/eshop/internal/mykafka"
)

type CategoryHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func (h *CategoryHandler) GetCategories(c echo.Context) error {
	var categories []models.Category
	if err := h.DB.Find(&categories).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list categories")
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) GetCategory(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid category id")
	}

	var category models.Category
	if err := h.DB.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "category not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get category")
	}
	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req struct {
		Name  string `json:"name"`
		Icon  string `json:"icon"`
		Color string `json:"color"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name required")
	}

	category := models.Category{Name: req.Name, Icon: req.Icon, Color: req.Color}
	if err := h.DB.Create(&category).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "the category can't be created")
	}

	publishEvent(c, h.Producer, "category_events", fmt.Sprint(category.ID), map[string]any{
		"type":        "category_created",
		"category_id": category.ID,
		"name":        category.Name,
	})

	return c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid category id")
	}

	var req struct {
		Name  string `json:"name"`
		Icon  string `json:"icon"`
		Color string `json:"color"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var category models.Category
	if err := h.DB.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "category not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get category")
	}

	category.Name = req.Name
	category.Icon = req.Icon
	category.Color = req.Color

	if err := h.DB.Save(&category).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "the category can't be updated")
	}

	publishEvent(c, h.Producer, "category_events", fmt.Sprint(category.ID), map[string]any{
		"type":        "category_updated",
		"category_id": category.ID,
	})

	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid category id")
	}

	res := h.DB.Delete(&models.Category{}, id)
	if res.Error != nil {
		return errorResponse(c, http.StatusBadRequest, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return errorResponse(c, http.StatusNotFound, "category not found")
	}

	publishEvent(c, h.Producer, "category_events", fmt.Sprint(id), map[string]any{
		"type":        "category_deleted",
		"category_id": id,
	})

	return c.JSON(http.StatusOK, StatusResponse{Success: true, Message: "deleted successfully"})
}
