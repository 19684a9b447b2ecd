package db

import (
	"errors"

	"github.com/ikkim/weddingfilm-backend/config"
	"github.com/ikkim/weddingfilm-backend/internal/app/model"
	"github.com/ikkim/weddingfilm-backend/pkg/logger"
	"github.com/ikkim/weddingfilm-backend/pkg/util"
	"gorm.io/gorm"
)

// Models AutoMigrate 대상 (운영/테스트 공통)
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Product{},
		&model.AddOn{},
		&model.DiscountEvent{},
		&model.Reservation{},
		&model.CustomShootRequest{},
		&model.Booking{},
		&model.ReferralCode{},
		&model.ReferralRedemption{},
	}
}

// DefaultProducts 최초 상품 카탈로그
var DefaultProducts = []model.Product{
	{Type: model.ProductBudget, Name: "실속형", Price: 340000},
	{Type: model.ProductStandard, Name: "기본형", Price: 600000},
	{Type: model.ProductCinematic, Name: "시네마틱", Price: 900000},
	{Type: model.ProductOutdoorSnap, Name: "야외 스냅", Price: 300000},
	{Type: model.ProductPreWedding, Name: "웨딩 전 촬영", Price: 400000},
}

// DefaultAddOns 최초 추가 옵션 카탈로그
var DefaultAddOns = []model.AddOn{
	{Key: model.AddOnMakeup, Name: "메이크업 촬영", Price: 100000},
	{Key: model.AddOnPaebaek, Name: "폐백 촬영", Price: 100000},
	{Key: model.AddOnReception, Name: "피로연 촬영", Price: 100000},
	{Key: model.AddOnUSB, Name: "USB 배송", Price: 20000},
	{Key: model.AddOnGimbal, Name: "짐벌 촬영", Price: 50000},
	{Key: model.AddOnSeonwonpan, Name: "선원판", Price: 50000},
}

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := SeedCatalog(DB); err != nil {
		logger.Error("Failed to seed catalog during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed 최초 관리자 계정 생성 (설정된 경우에만)
func Seed(admin config.AdminConfig) error {
	return SeedAdmin(DB, admin)
}

// SeedCatalog 상품/추가 옵션 카탈로그가 비어 있으면 기본값을 채움
func SeedCatalog(conn *gorm.DB) error {
	var count int64
	if err := conn.Model(&model.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		products := make([]model.Product, len(DefaultProducts))
		copy(products, DefaultProducts)
		if err := conn.Create(&products).Error; err != nil {
			logger.Error("Failed to seed products", err)
			return err
		}
		logger.Info("Products seeded", map[string]interface{}{
			"count": len(products),
		})
	}

	if err := conn.Model(&model.AddOn{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		addOns := make([]model.AddOn, len(DefaultAddOns))
		copy(addOns, DefaultAddOns)
		if err := conn.Create(&addOns).Error; err != nil {
			logger.Error("Failed to seed add-ons", err)
			return err
		}
		logger.Info("Add-ons seeded", map[string]interface{}{
			"count": len(addOns),
		})
	}

	return nil
}

// SeedAdmin 관리자 계정이 없을 때만 생성
func SeedAdmin(conn *gorm.DB, admin config.AdminConfig) error {
	if admin.Email == "" || admin.Password == "" {
		logger.Info("Admin account not configured, skipping...")
		return nil
	}

	var existing model.User
	err := conn.Where("email = ?", admin.Email).First(&existing).Error
	if err == nil {
		logger.Info("Admin account already exists, skipping...", map[string]interface{}{
			"email": admin.Email,
		})
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := util.HashPassword(admin.Password)
	if err != nil {
		return err
	}

	user := &model.User{
		Email:        admin.Email,
		PasswordHash: hash,
		Name:         admin.Name,
		Role:         model.RoleAdmin,
	}
	if err := conn.Create(user).Error; err != nil {
		logger.Error("Failed to create admin account", err, map[string]interface{}{
			"email": admin.Email,
		})
		return err
	}

	logger.Info("Admin account created", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return nil
}
