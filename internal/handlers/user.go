package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/nstepanov/eshop/internal/hash"
	"github.com/nstepanov/eshop/internal/models"
	"github.com/nstepanov/eshop/internal/mykafka"
)

type UserHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func (h *UserHandler) GetUsers(c echo.Context) error {
	var users []models.User
	if err := h.DB.Find(&users).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list users")
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get user")
	}
	return c.JSON(http.StatusOK, user)
}

// CreateUser is the admin-facing counterpart of registration.
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req struct {
		Name      string `json:"name"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		Phone     string `json:"phone"`
		IsAdmin   bool   `json:"isAdmin"`
		Street    string `json:"street"`
		Apartment string `json:"apartment"`
		Zip       string `json:"zip"`
		City      string `json:"city"`
		Country   string `json:"country"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password required")
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot hash password")
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Phone:        req.Phone,
		IsAdmin:      req.IsAdmin,
		Street:       req.Street,
		Apartment:    req.Apartment,
		Zip:          req.Zip,
		City:         req.City,
		Country:      req.Country,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "the user can't be created")
	}

	publishEvent(c, h.Producer, "user_events", fmt.Sprint(user.ID), map[string]any{
		"type":    "user_created",
		"user_id": user.ID,
		"email":   user.Email,
	})

	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	var req struct {
		Name      string `json:"name"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		Phone     string `json:"phone"`
		IsAdmin   bool   `json:"isAdmin"`
		Street    string `json:"street"`
		Apartment string `json:"apartment"`
		Zip       string `json:"zip"`
		City      string `json:"city"`
		Country   string `json:"country"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get user")
	}

	// the stored hash survives unless a new password is supplied
	if req.Password != "" {
		passwordHash, err := hash.HashPassword(req.Password)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot hash password")
		}
		user.PasswordHash = passwordHash
	}

	user.Name = req.Name
	user.Email = req.Email
	user.Phone = req.Phone
	user.IsAdmin = req.IsAdmin
	user.Street = req.Street
	user.Apartment = req.Apartment
	user.Zip = req.Zip
	user.City = req.City
	user.Country = req.Country

	if err := h.DB.Save(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "the user can't be updated")
	}

	publishEvent(c, h.Producer, "user_events", fmt.Sprint(user.ID), map[string]any{
		"type":    "user_updated",
		"user_id": user.ID,
	})

	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	res := h.DB.Delete(&models.User{}, id)
	if res.Error != nil {
		return errorResponse(c, http.StatusBadRequest, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return errorResponse(c, http.StatusNotFound, "user not found")
	}

	publishEvent(c, h.Producer, "user_events", fmt.Sprint(id), map[string]any{
		"type":    "user_deleted",
		"user_id": id,
	})

	return c.JSON(http.StatusOK, StatusResponse{Success: true, Message: "deleted successfully"})
}

func (h *UserHandler) CountUsers(c echo.Context) error {
	var count int64
	if err := h.DB.Model(&models.User{}).Count(&count).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot count users")
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count})
}
