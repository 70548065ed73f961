package repositories

import (
	"fmt"

	"event-ticketing-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepo struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetUserByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetUserWithProfile(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("OrganizerProfile").Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) CreateUser(user *models.User) error {
	return r.db.Omit(clause.Associations).Create(user).Error
}

func (r *userRepo) UpdateUser(user *models.User) error {
	return r.db.Omit(clause.Associations).Save(user).Error
}

func (r *userRepo) CreateOrganizerProfile(profile *models.OrganizerProfile) error {
	return r.db.Create(profile).Error
}

func (r *userRepo) UpdateRefreshTokenHash(id uuid.UUID, hash *string) error {
	result := r.db.Model(&models.User{}).Where("id = ?", id).Update("refresh_token_hash", hash)
	if result.Error != nil {
		return fmt.Errorf("failed to update refresh token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}
