// Package repository holds the MySQL access code. Errors that callers need
// to tell apart are surfaced as the sentinels below, wrapped with context.
package repository

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

var (
	// ErrNotFound is returned when the addressed row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate signals a unique-key violation (MySQL 1062), such as two
	// intakes racing for the same queue number on the same day.
	ErrDuplicate = errors.New("duplicate key")

	// ErrInUse signals a delete blocked by a foreign key (MySQL 1451).
	ErrInUse = errors.New("row is referenced")

	// ErrInvalidReference signals an insert or update pointing at a missing
	// parent row (MySQL 1452).
	ErrInvalidReference = errors.New("invalid reference")

	// ErrLinkUnavailable is returned when a temp visitor link could not be
	// consumed because it is used, expired or unknown.
	ErrLinkUnavailable = errors.New("temp link unavailable")
)

const (
	mysqlErrDuplicateEntry  = 1062
	mysqlErrRowIsReferenced = 1451
	mysqlErrNoReferencedRow = 1452
)

func classify(err error) error {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return err
	}
	switch me.Number {
	case mysqlErrDuplicateEntry:
		return fmt.Errorf("%w: %s", ErrDuplicate, me.Message)
	case mysqlErrRowIsReferenced:
		return fmt.Errorf("%w: %s", ErrInUse, me.Message)
	case mysqlErrNoReferencedRow:
		return fmt.Errorf("%w: %s", ErrInvalidReference, me.Message)
	}
	return err
}
