package mysql

import (
	"context"
	"errors"
	"log"

	"storefront-orders/internal/domain"
	"storefront-orders/internal/repository"

	"gorm.io/gorm"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Save(ctx context.Context, order *domain.Order) error {
	if order.ID == "" {
		return errors.New("order id must be assigned before save")
	}
	result := r.db.WithContext(ctx).Create(order)
	if result.Error != nil {
		log.Printf("Database save error: %v", result.Error)
		return result.Error
	}
	return nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	result := r.db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		log.Printf("UpdateStatus error: %v", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("FindByID error: %v", err)
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindAll(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	if err := r.db.WithContext(ctx).Order("date ASC").Find(&out).Error; err != nil {
		log.Printf("FindAll error: %v", err)
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) FindByStore(ctx context.Context, storeID string) ([]domain.Order, error) {
	var out []domain.Order
	if err := r.db.WithContext(ctx).Where("store_id = ?", storeID).Order("date ASC").Find(&out).Error; err != nil {
		log.Printf("FindByStore error: %v", err)
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) StoreIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&domain.Order{}).Distinct().Order("store_id").Pluck("store_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
