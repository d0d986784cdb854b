package models

import (
	"errors"
	"fmt"
)

// Store sentinels shared by every repository backend.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

// DuplicateKeyError reports a uniqueness violation on a business field, named by its JSON key.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate value for %s", e.Field)
}

// Is lets errors.Is(err, ErrDuplicate) match.
func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicate
}
