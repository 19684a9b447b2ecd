package repository

import (
	"github.com/ikkim/weddingfilm-backend/internal/app/model"
	"github.com/ikkim/weddingfilm-backend/pkg/logger"
	"gorm.io/gorm"
)

type AddOnRepository interface {
	FindAll() ([]model.AddOn, error)
	FindByKeys(keys []model.AddOnKey) ([]model.AddOn, error)
	UpdatePrice(key model.AddOnKey, name string, price int64) (*model.AddOn, error)
}

type addOnRepository struct {
	db *gorm.DB
}

func NewAddOnRepository(db *gorm.DB) AddOnRepository {
	return &addOnRepository{db: db}
}

func (r *addOnRepository) FindAll() ([]model.AddOn, error) {
	logger.Debug("Finding all add-ons in database")

	var addOns []model.AddOn
	if err := r.db.Order("id ASC").Find(&addOns).Error; err != nil {
		logger.Error("Failed to find add-ons in database", err)
		return nil, err
	}
	return addOns, nil
}

func (r *addOnRepository) FindByKeys(keys []model.AddOnKey) ([]model.AddOn, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	logger.Debug("Finding add-ons by keys in database", map[string]interface{}{
		"keys": keys,
	})

	var addOns []model.AddOn
	if err := r.db.Where("addon_key IN ?", keys).Find(&addOns).Error; err != nil {
		logger.Error("Failed to find add-ons by keys in database", err, map[string]interface{}{
			"keys": keys,
		})
		return nil, err
	}
	return addOns, nil
}

func (r *addOnRepository) UpdatePrice(key model.AddOnKey, name string, price int64) (*model.AddOn, error) {
	logger.Debug("Updating add-on price in database", map[string]interface{}{
		"key":   key,
		"price": price,
	})

	var addOn model.AddOn
	if err := r.db.Where("addon_key = ?", key).First(&addOn).Error; err != nil {
		logger.Error("Failed to find add-on in database", err, map[string]interface{}{
			"key": key,
		})
		return nil, err
	}

	addOn.Price = price
	if name != "" {
		addOn.Name = name
	}
	if err := r.db.Save(&addOn).Error; err != nil {
		logger.Error("Failed to update add-on in database", err, map[string]interface{}{
			"key": key,
		})
		return nil, err
	}
	return &addOn, nil
}
