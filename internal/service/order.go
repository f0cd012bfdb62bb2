package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/nstepanov/eshop/internal/logging"
	"github.com/nstepanov/eshop/internal/models"
)

var (
	ErrValidation      = errors.New("validation")            // 400
	ErrNotFound        = errors.New("not found")             // 404
	ErrProductNotFound = errors.New("product not found")     // 400
	ErrItemCreation    = errors.New("item creation failed")  // 500
	ErrOrderCreation   = errors.New("order creation failed") // 500
)

type RawItem struct {
	ProductID uint `json:"product"`
	Quantity  uint `json:"quantity"`
}

type ShippingInfo struct {
	ShippingAddress1 string `json:"shippingAddress1"`
	ShippingAddress2 string `json:"shippingAddress2"`
	City             string `json:"city"`
	Zip              string `json:"zip"`
	Country          string `json:"country"`
	Phone            string `json:"phone"`
}

type CascadeResult struct {
	Deleted int
	Failed  int
}

type OrderService struct {
	DB *gorm.DB

	// CompensateOnFailure deletes already-created order items when a later
	// assembly step fails. Off by default: a failed assembly leaves the
	// created items orphaned, matching the documented behavior.
	CompensateOnFailure bool
}

// buildItems persists one OrderItem per raw input concurrently and returns
// the generated ids in input order. Any single failure fails the whole
// build; rows created by the other goroutines are not rolled back here.
func (s *OrderService) buildItems(ctx context.Context, raw []RawItem) ([]uint, error) {
	ids := make([]uint, len(raw))
	errs := make([]error, len(raw))

	var wg sync.WaitGroup
	for i := range raw {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			item := models.OrderItem{
				ProductID: raw[i].ProductID,
				Quantity:  raw[i].Quantity,
				Position:  i,
			}
			if err := s.DB.WithContext(ctx).Create(&item).Error; err != nil {
				errs[i] = fmt.Errorf("%w: item %d: %w", ErrItemCreation, i, err)
				return
			}
			ids[i] = item.ID
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return ids, err
		}
	}
	return ids, nil
}

// lineTotal resolves one created item back to its product's current price.
// A missing product surfaces here, not during buildItems.
func (s *OrderService) lineTotal(ctx context.Context, itemID uint) (int64, error) {
	var item models.OrderItem
	if err := s.DB.WithContext(ctx).First(&item, itemID).Error; err != nil {
		return 0, fmt.Errorf("%w: order item %d: %w", ErrItemCreation, itemID, err)
	}

	var prod models.Product
	if err := s.DB.WithContext(ctx).First(&prod, item.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: product %d", ErrProductNotFound, item.ProductID)
		}
		return 0, err
	}

	return prod.Price * int64(item.Quantity), nil
}

// CreateOrder assembles an order: persist the line items, resolve their
// prices concurrently, sum the total in minor units and persist the parent
// order claiming the items in input order.
func (s *OrderService) CreateOrder(ctx context.Context, userID uint, raw []RawItem, shipping ShippingInfo, status string) (*models.Order, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: order items required", ErrValidation)
	}
	// product references are deliberately not checked here; a dangling
	// one surfaces as ErrProductNotFound during price resolution
	for i := range raw {
		if raw[i].Quantity == 0 {
			return nil, fmt.Errorf("%w: item %d: quantity must be > 0", ErrValidation, i)
		}
	}

	ids, err := s.buildItems(ctx, raw)
	if err != nil {
		s.compensateItems(ctx, ids)
		return nil, err
	}

	totals := make([]int64, len(ids))
	errs := make([]error, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id uint) {
			defer wg.Done()
			totals[i], errs[i] = s.lineTotal(ctx, id)
		}(i, id)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			s.compensateItems(ctx, ids)
			return nil, err
		}
	}

	var totalPrice int64
	for _, t := range totals {
		totalPrice += t
	}

	if status == "" {
		status = "Pending"
	}

	order := models.Order{
		ShippingAddress1: shipping.ShippingAddress1,
		ShippingAddress2: shipping.ShippingAddress2,
		City:             shipping.City,
		Zip:              shipping.Zip,
		Country:          shipping.Country,
		Phone:            shipping.Phone,
		Status:           status,
		TotalPrice:       totalPrice,
		UserID:           userID,
	}
	if err := s.DB.WithContext(ctx).Create(&order).Error; err != nil {
		s.compensateItems(ctx, ids)
		return nil, fmt.Errorf("%w: %w", ErrOrderCreation, err)
	}

	if err := s.DB.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("id IN ?", ids).
		Update("order_id", order.ID).Error; err != nil {
		return nil, fmt.Errorf("%w: attach items: %w", ErrOrderCreation, err)
	}

	return s.GetOrder(ctx, order.ID)
}

// compensateItems is the rollback seam for failed assemblies. It only runs
// when CompensateOnFailure is set; the default keeps the observed
// leave-orphans behavior.
func (s *OrderService) compensateItems(ctx context.Context, ids []uint) {
	if !s.CompensateOnFailure {
		return
	}
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if err := s.DB.WithContext(ctx).Delete(&models.OrderItem{}, id).Error; err != nil {
			logging.FromContext(ctx).Error("compensate_item_failed", "item_id", id, "error", err)
		}
	}
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := s.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Items.Product.Category").
		Preload("User").
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) GetOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.WithContext(ctx).
		Preload("User").
		Order("date_ordered DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *OrderService) UserOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Items.Product.Category").
		Where("user_id = ?", userID).
		Order("date_ordered DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	var order models.Order
	if err := s.DB.WithContext(ctx).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}

	order.Status = status
	if err := s.DB.WithContext(ctx).Save(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// DeleteOrder removes the order and then fans out best-effort deletes for
// its items. Item failures are counted and logged but never fail the call.
func (s *OrderService) DeleteOrder(ctx context.Context, id uint) (CascadeResult, error) {
	var order models.Order
	if err := s.DB.WithContext(ctx).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CascadeResult{}, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return CascadeResult{}, err
	}

	var itemIDs []uint
	if err := s.DB.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("order_id = ?", id).
		Pluck("id", &itemIDs).Error; err != nil {
		return CascadeResult{}, err
	}

	if err := s.DB.WithContext(ctx).Delete(&models.Order{}, id).Error; err != nil {
		return CascadeResult{}, err
	}

	outcomes := make([]error, len(itemIDs))
	var wg sync.WaitGroup
	for i, itemID := range itemIDs {
		wg.Add(1)
		go func(i int, itemID uint) {
			defer wg.Done()
			outcomes[i] = s.DB.WithContext(ctx).Delete(&models.OrderItem{}, itemID).Error
		}(i, itemID)
	}
	wg.Wait()

	res := CascadeResult{}
	for i, err := range outcomes {
		if err != nil {
			res.Failed++
			logging.FromContext(ctx).Error("cascade_delete_failed",
				"order_id", id, "item_id", itemIDs[i], "error", err)
			continue
		}
		res.Deleted++
	}
	return res, nil
}

func (s *OrderService) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Order{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *OrderService) TotalSales(ctx context.Context) (int64, error) {
	var total int64
	err := s.DB.WithContext(ctx).
		Model(&models.Order{}).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
