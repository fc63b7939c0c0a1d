package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/nventon/user-backend/internal/models"
)

func (r *GormRepo) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *GormRepo) usernameTaken(ctx context.Context, username string, exceptID uint) (bool, error) {
	var count int64
	q := r.DB.WithContext(ctx).Model(&models.User{}).Where("username = ?", username)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) CreateUser(ctx context.Context, user *models.User) error {
	taken, err := r.usernameTaken(ctx, user.Username, 0)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateUsername
	}

	if err := r.DB.WithContext(ctx).Create(user).Error; err != nil {
		// The pre-check races with concurrent creates; the unique index
		// is the real gate.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateUsername
		}
		return err
	}
	return nil
}

func (r *GormRepo) UpdateUser(ctx context.Context, user *models.User) error {
	taken, err := r.usernameTaken(ctx, user.Username, user.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateUsername
	}

	if err := r.DB.WithContext(ctx).Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateUsername
		}
		return err
	}
	return nil
}

// DeleteUser removes the user and every token it owns. Token rows go first
// so a half-failed delete never leaves orphaned credentials behind.
func (r *GormRepo) DeleteUser(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Token{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
