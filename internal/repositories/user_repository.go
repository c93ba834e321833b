package repositories

import (
	"errors"
	"strings"
	"time"

	"permiso_backend/internal/dto"
	"permiso_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

type UserRepository interface {
	Create(user *models.User) error
	FindByID(id string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	List(criteria dto.UserListCriteria) ([]models.User, int64, error)
	UpdateRole(id string, role models.UserRole) (*models.User, error)
	UpdateStripeCustomerID(id, customerID string) error
	UpdateLastLogin(id string) error
	CountAdmins() (int64, error)
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) Create(user *models.User) error {
	err := r.db.Create(user).Error
	if err != nil && strings.Contains(err.Error(), "duplicate") {
		return ErrDuplicateEmail
	}
	return err
}

func (r *UserRepositoryImpl) FindByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) List(criteria dto.UserListCriteria) ([]models.User, int64, error) {
	var users []models.User
	query := r.db.Model(&models.User{})

	if criteria.Role != "" {
		query = query.Where("role = ?", criteria.Role)
	}
	if criteria.Search != "" {
		like := "%" + criteria.Search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (criteria.Page - 1) * criteria.Limit
	err := query.Order("created_at DESC").
		Limit(criteria.Limit).Offset(offset).
		Find(&users).Error

	return users, total, err
}

func (r *UserRepositoryImpl) UpdateRole(id string, role models.UserRole) (*models.User, error) {
	result := r.db.Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	return r.FindByID(id)
}

func (r *UserRepositoryImpl) UpdateStripeCustomerID(id, customerID string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).
		Update("stripe_customer_id", customerID).Error
}

func (r *UserRepositoryImpl) UpdateLastLogin(id string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).
		Update("last_login", time.Now()).Error
}

func (r *UserRepositoryImpl) CountAdmins() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("role = ?", models.UserRoleAdmin).Count(&count).Error
	return count, err
}
