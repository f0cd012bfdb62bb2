package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/nstepanov/eshop/internal/models"
	"github.com/nstepanov/eshop/internal/mykafka"
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

type productRequest struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	RichDescription string   `json:"richDescription"`
	Image           string   `json:"image"`
	Brand           string   `json:"brand"`
	Price           int64    `json:"price"`
	CategoryID      uint     `json:"category"`
	CountInStock    uint     `json:"countInStock"`
	Rating          float64  `json:"rating"`
	NumReviews      uint     `json:"numReviews"`
	IsFeatured      bool     `json:"isFeatured"`
	Images          []string `json:"images"`
}

func (h *ProductHandler) categoryExists(id uint) (bool, error) {
	var category models.Category
	if err := h.DB.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	q := h.DB.Preload("Category")

	// ?categories=1,3 narrows the listing
	if raw := c.QueryParam("categories"); raw != "" {
		var ids []uint
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.Atoi(part)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid category filter")
			}
			ids = append(ids, uint(id))
		}
		q = q.Where("category_id IN ?", ids)
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list products")
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var product models.Product
	if err := h.DB.Preload("Category").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get product")
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Name == "" || req.CategoryID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "name and category required")
	}

	ok, err := h.categoryExists(req.CategoryID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot check category")
	}
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid category")
	}

	product := models.Product{
		Name:            req.Name,
		Description:     req.Description,
		RichDescription: req.RichDescription,
		Image:           req.Image,
		Images:          req.Images,
		Brand:           req.Brand,
		Price:           req.Price,
		CategoryID:      req.CategoryID,
		CountInStock:    req.CountInStock,
		Rating:          req.Rating,
		NumReviews:      req.NumReviews,
		IsFeatured:      req.IsFeatured,
	}
	if err := h.DB.Create(&product).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "the product can't be created")
	}

	publishEvent(c, h.Producer, "product_events", fmt.Sprint(product.ID), map[string]any{
		"type":       "product_created",
		"product_id": product.ID,
		"name":       product.Name,
	})

	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	ok, err := h.categoryExists(req.CategoryID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot check category")
	}
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid category")
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get product")
	}

	product.Name = req.Name
	product.Description = req.Description
	product.RichDescription = req.RichDescription
	if req.Image != "" {
		product.Image = req.Image
	}
	product.Brand = req.Brand
	product.Price = req.Price
	product.CategoryID = req.CategoryID
	product.CountInStock = req.CountInStock
	product.Rating = req.Rating
	product.NumReviews = req.NumReviews
	product.IsFeatured = req.IsFeatured

	if err := h.DB.Save(&product).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "the product can't be updated")
	}

	publishEvent(c, h.Producer, "product_events", fmt.Sprint(product.ID), map[string]any{
		"type":       "product_updated",
		"product_id": product.ID,
		"name":       product.Name,
	})

	return c.JSON(http.StatusOK, product)
}

// UpdateGallery replaces the product's image gallery with the submitted
// list of previously uploaded file URLs.
func (h *ProductHandler) UpdateGallery(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var req struct {
		Images []string `json:"images"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get product")
	}

	product.Images = req.Images
	if err := h.DB.Save(&product).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "the product can't be updated")
	}

	publishEvent(c, h.Producer, "product_events", fmt.Sprint(product.ID), map[string]any{
		"type":       "product_gallery_updated",
		"product_id": product.ID,
	})

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	res := h.DB.Delete(&models.Product{}, id)
	if res.Error != nil {
		return errorResponse(c, http.StatusBadRequest, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return errorResponse(c, http.StatusNotFound, "product not found")
	}

	publishEvent(c, h.Producer, "product_events", fmt.Sprint(id), map[string]any{
		"type":       "product_deleted",
		"product_id": id,
	})

	return c.JSON(http.StatusOK, StatusResponse{Success: true, Message: "deleted successfully"})
}

func (h *ProductHandler) CountProducts(c echo.Context) error {
	var count int64
	if err := h.DB.Model(&models.Product{}).Count(&count).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot count products")
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

func (h *ProductHandler) FeaturedProducts(c echo.Context) error {
	count, err := strconv.Atoi(c.Param("count"))
	if err != nil || count < 0 {
		count = 0
	}

	q := h.DB.Preload("Category").Where("is_featured = ?", true)
	if count > 0 {
		q = q.Limit(count)
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list featured products")
	}
	return c.JSON(http.StatusOK, products)
}
