package repository

import (
	"github.com/ikkim/weddingfilm-backend/internal/app/model"
	"github.com/ikkim/weddingfilm-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByType(productType model.ProductType) (*model.Product, error)
	UpdatePrice(productType model.ProductType, name string, price int64) (*model.Product, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"type":  product.Type,
		"price": product.Price,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"type": product.Type,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"type":       product.Type,
	})
	return nil
}

func (r *productRepository) FindAll() ([]model.Product, error) {
	logger.Debug("Finding all products in database")

	var products []model.Product
	if err := r.db.Order("id ASC").Find(&products).Error; err != nil {
		logger.Error("Failed to find products in database", err)
		return nil, err
	}

	logger.Debug("Products found in database", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (r *productRepository) FindByType(productType model.ProductType) (*model.Product, error) {
	logger.Debug("Finding product by type in database", map[string]interface{}{
		"type": productType,
	})

	var product model.Product
	if err := r.db.Where("type = ?", productType).First(&product).Error; err != nil {
		logger.Error("Failed to find product by type in database", err, map[string]interface{}{
			"type": productType,
		})
		return nil, err
	}

	return &product, nil
}

func (r *productRepository) UpdatePrice(productType model.ProductType, name string, price int64) (*model.Product, error) {
	logger.Debug("Updating product price in database", map[string]interface{}{
		"type":  productType,
		"price": price,
	})

	product, err := r.FindByType(productType)
	if err != nil {
		return nil, err
	}

	product.Price = price
	if name != "" {
		product.Name = name
	}
	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product price in database", err, map[string]interface{}{
			"type": productType,
		})
		return nil, err
	}

	logger.Debug("Product price updated in database", map[string]interface{}{
		"product_id": product.ID,
		"price":      product.Price,
	})
	return product, nil
}
