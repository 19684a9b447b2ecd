package repository

import (
	"time"

	"github.com/ikkim/weddingfilm-backend/internal/app/model"
	"github.com/ikkim/weddingfilm-backend/pkg/logger"
	"gorm.io/gorm"
)

type DiscountEventRepository interface {
	Create(event *model.DiscountEvent) error
	FindByID(id uint) (*model.DiscountEvent, error)
	List(activeOnly bool) ([]model.DiscountEvent, error)
	DeactivateExpired(now time.Time) (int64, error)
}

type discountEventRepository struct {
	db *gorm.DB
}

func NewDiscountEventRepository(db *gorm.DB) DiscountEventRepository {
	return &discountEventRepository{db: db}
}

func (r *discountEventRepository) Create(event *model.DiscountEvent) error {
	logger.Debug("Creating discount event in database", map[string]interface{}{
		"name": event.Name,
	})

	if err := r.db.Create(event).Error; err != nil {
		logger.Error("Failed to create discount event in database", err, map[string]interface{}{
			"name": event.Name,
		})
		return err
	}

	logger.Debug("Discount event created in database", map[string]interface{}{
		"event_id": event.ID,
	})
	return nil
}

func (r *discountEventRepository) FindByID(id uint) (*model.DiscountEvent, error) {
	var event model.DiscountEvent
	if err := r.db.First(&event, id).Error; err != nil {
		logger.Error("Failed to find discount event in database", err, map[string]interface{}{
			"event_id": id,
		})
		return nil, err
	}
	return &event, nil
}

func (r *discountEventRepository) List(activeOnly bool) ([]model.DiscountEvent, error) {
	query := r.db.Order("starts_at DESC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var events []model.DiscountEvent
	if err := query.Find(&events).Error; err != nil {
		logger.Error("Failed to list discount events in database", err)
		return nil, err
	}
	return events, nil
}

// DeactivateExpired 종료 시각이 지난 활성 이벤트를 비활성화
func (r *discountEventRepository) DeactivateExpired(now time.Time) (int64, error) {
	logger.Debug("Deactivating expired discount events", map[string]interface{}{
		"now": now,
	})

	result := r.db.Model(&model.DiscountEvent{}).
		Where("active = ? AND ends_at <= ?", true, now).
		Update("active", false)
	if result.Error != nil {
		logger.Error("Failed to deactivate expired discount events", result.Error)
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
