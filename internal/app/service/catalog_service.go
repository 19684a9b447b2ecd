package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ikkim/weddingfilm-backend/internal/app/model"
	"github.com/ikkim/weddingfilm-backend/internal/app/repository"
	"github.com/ikkim/weddingfilm-backend/pkg/logger"
	"gorm.io/gorm"
)

// CatalogService 상품/추가 옵션 가격표. 미확정 예약은 다음 계산부터 새 가격 적용
type CatalogService interface {
	ListProducts() ([]model.Product, error)
	ListAddOns() ([]model.AddOn, error)
	UpdateProduct(productType model.ProductType, name string, price int64) (*model.Product, error)
	UpdateAddOn(key model.AddOnKey, name string, price int64) (*model.AddOn, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
	addOnRepo   repository.AddOnRepository
}

func NewCatalogService(productRepo repository.ProductRepository, addOnRepo repository.AddOnRepository) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		addOnRepo:   addOnRepo,
	}
}

func (s *catalogService) ListProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *catalogService) ListAddOns() ([]model.AddOn, error) {
	return s.addOnRepo.FindAll()
}

func (s *catalogService) UpdateProduct(productType model.ProductType, name string, price int64) (*model.Product, error) {
	if price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	product, err := s.productRepo.UpdatePrice(productType, strings.TrimSpace(name), price)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	logger.Info("Product price updated", map[string]interface{}{
		"product_type": productType,
		"price":        price,
	})
	return product, nil
}

func (s *catalogService) UpdateAddOn(key model.AddOnKey, name string, price int64) (*model.AddOn, error) {
	if price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	addOn, err := s.addOnRepo.UpdatePrice(key, strings.TrimSpace(name), price)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddOnNotFound
		}
		return nil, err
	}

	logger.Info("Add-on price updated", map[string]interface{}{
		"addon": key,
		"price": price,
	})
	return addOn, nil
}
