package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// Finders return (nil, nil) when nothing matches. Writes report the
// conditions below so services can translate them.
var (
	ErrDuplicate    = errors.New("duplicate record")
	ErrNotFound     = errors.New("record not found")
	ErrProfileLimit = errors.New("profile limit reached")
	ErrLastProfile  = errors.New("owner has a single profile")
)

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	default:
		return err
	}
}
