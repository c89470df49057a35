package repositories

import (
	stderrors "errors"

	"gorm.io/gorm"
)

// isDuplicateKey reports whether err is a unique-constraint violation.
// Relies on gorm's error translation being enabled on the connection.
func isDuplicateKey(err error) bool {
	return stderrors.Is(err, gorm.ErrDuplicatedKey)
}
