package services

import (
	"errors"

	"campusgate/internal/config"
	"campusgate/internal/models"

	"gorm.io/gorm"
)

var (
	ErrSelfDelete = errors.New("cannot delete your own account")
	ErrLastAdmin  = errors.New("cannot delete the last admin user")
)

type UserService struct {
	authService *AuthService
}

func NewUserService(cfg *config.Config) *UserService {
	return &UserService{
		authService: NewAuthService(cfg),
	}
}

// GetUsers returns all users
func (s *UserService) GetUsers() ([]models.User, error) {
	var users []models.User
	if err := models.DB.Order("username").Find(&users).Error; err != nil {
		return nil, err
	}

	// Clear password hashes
	for i := range users {
		users[i].PasswordHash = ""
	}

	return users, nil
}

// GetUser returns a specific user by ID
func (s *UserService) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := models.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.PasswordHash = ""
	return &user, nil
}

// CreateUser creates a new user
func (s *UserService) CreateUser(username, password, role string) (*models.User, error) {
	user, err := s.authService.CreateUser(username, password, role)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

// ResetPassword replaces a user's password in place.
func (s *UserService) ResetPassword(id uint, newPassword string) (*models.User, error) {
	var user models.User
	if err := models.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	hashedPassword, err := s.authService.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = hashedPassword
	if err := models.DB.Save(&user).Error; err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &user, nil
}

// DeleteUser deletes a user. Self-deletion is rejected so an admin cannot
// lock themselves out mid-session; the last admin account is protected too.
func (s *UserService) DeleteUser(id, actorID uint) error {
	if id == actorID {
		return ErrSelfDelete
	}

	var user models.User
	if err := models.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if user.Role == models.RoleAdmin {
		var adminCount int64
		models.DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&adminCount)
		if adminCount <= 1 {
			return ErrLastAdmin
		}
	}

	// Drop the user's sessions along with the account.
	return models.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Session{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
}
