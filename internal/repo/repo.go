package repo

import (
	"errors"

	"gorm.io/gorm"
)

var ErrDuplicateUsername = errors.New("username already exists")

type GormRepo struct {
	DB *gorm.DB
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
