package repository

import (
	"strings"

	"github.com/ikkim/weddingfilm-backend/internal/app/model"
	"github.com/ikkim/weddingfilm-backend/pkg/logger"
	"gorm.io/gorm"
)

// UserRepository 관리자/스태프 계정 조회
type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create staff account", err, map[string]interface{}{
			"email": user.Email,
			"role":  user.Role,
		})
		return err
	}
	return nil
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail 대소문자 구분 없이 조회 (환경변수로 시드된 관리자 이메일 포함)
func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user model.User
	if err := r.db.Where("LOWER(email) = ?", email).First(&user).Error; err != nil {
		return nil, err
	}

	logger.Debug("Staff account found", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return &user, nil
}
