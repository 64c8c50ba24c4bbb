package sqlitedb

import (
	"errors"
	"fmt"
)

// StorageError wraps an underlying storage failure that aborted a unit of
// work. The rollback has already happened by the time one is returned;
// the failure is fatal to the single operation, not to the process.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsStorage reports whether err is (or wraps) a StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
