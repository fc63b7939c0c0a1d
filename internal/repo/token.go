package repo

import (
	"context"
	"time"

	"github.com/nventon/user-backend/internal/models"
)

func (r *GormRepo) CreateToken(ctx context.Context, token *models.Token) error {
	return r.DB.WithContext(ctx).Create(token).Error
}

func (r *GormRepo) FindTokensForUser(ctx context.Context, userID uint, value string) ([]models.Token, error) {
	var tokens []models.Token
	q := r.DB.WithContext(ctx).Where("user_id = ?", userID)
	if value != "" {
		q = q.Where("token = ?", value)
	}
	if err := q.Find(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *GormRepo) DeleteToken(ctx context.Context, token *models.Token) error {
	return r.DB.WithContext(ctx).Delete(token).Error
}

// DeleteExpiredTokens drops rows whose embedded expiry has passed. The codec
// already rejects such tokens; this keeps long-dead sessions from piling up.
func (r *GormRepo) DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).Where("expires_at < ?", now.Unix()).Delete(&models.Token{})
	return res.RowsAffected, res.Error
}
