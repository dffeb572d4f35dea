package postgres

import (
	"errors"

	"github.com/lib/pq"
)

const (
	pqUniqueViolation     = "23505"
	pqInvalidTextFormat   = "22P02"
	pqForeignKeyViolation = "23503"
)

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// isMalformedID reports whether postgres rejected an id that is not a valid uuid.
func isMalformedID(err error) bool {
	return pqCode(err) == pqInvalidTextFormat
}
