package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique constraint violation,
// regardless of which postgres driver surfaced it. When constraints are
// provided only a violation of one of those constraints matches. The sqlite
// fallback keeps in-memory tests honest about duplicate keys.
func IsUniqueViolation(err error, constraints ...string) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return len(constraints) == 0
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation && constraintMatches(pgErr.ConstraintName, constraints)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation && constraintMatches(pqErr.Constraint, constraints)
	}

	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		if len(constraints) == 0 {
			return true
		}
		for _, c := range constraints {
			if strings.Contains(err.Error(), c) {
				return true
			}
		}
	}
	return false
}

func constraintMatches(name string, constraints []string) bool {
	if len(constraints) == 0 {
		return true
	}
	for _, c := range constraints {
		if name == c {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err is GORM's missing-record sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
