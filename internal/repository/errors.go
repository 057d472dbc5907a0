// Package repository implements the MySQL storage for users, sessions, the
// vehicle catalog, reservations and notifications. Each repository returns
// the sentinel errors below so that services never inspect driver errors.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a lookup or targeted update matches no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail and ErrDuplicatePhone are returned when an insert or
// update violates the matching unique key on users.
var (
	ErrDuplicateEmail = errors.New("email already exists")
	ErrDuplicatePhone = errors.New("phone already exists")
)

// ErrConflict is returned for any other unique-key violation.
var ErrConflict = errors.New("conflict")

const mysqlDuplicateEntry = 1062

// mapDuplicate translates a MySQL duplicate-key error into a sentinel,
// using the key name reported by the server. Other errors pass through.
func mapDuplicate(err error) error {
	var me *mysql.MySQLError
	if !errors.As(err, &me) || me.Number != mysqlDuplicateEntry {
		return err
	}
	msg := strings.ToLower(me.Message)
	switch {
	case strings.Contains(msg, "uq_users_email"):
		return ErrDuplicateEmail
	case strings.Contains(msg, "uq_users_phone"):
		return ErrDuplicatePhone
	}
	return ErrConflict
}
