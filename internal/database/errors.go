package database

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// IsUniqueViolation reports whether err comes from a UNIQUE or PRIMARY KEY
// constraint on either supported driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3lib.SQLITE_CONSTRAINT:
			// primary code only when extended result codes are off
			return strings.Contains(liteErr.Error(), "UNIQUE constraint failed")
		}
	}
	return false
}

const mysqlNoReferencedRow = 1452

// IsForeignKeyViolation reports whether err is a failed FOREIGN KEY check,
// i.e. an insert or update referencing a parent row that does not exist.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlNoReferencedRow
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY:
			return true
		case sqlite3lib.SQLITE_CONSTRAINT:
			return strings.Contains(liteErr.Error(), "FOREIGN KEY constraint failed")
		}
	}
	return false
}

const (
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
)

// IsLockConflict reports whether the database aborted a statement because
// of a competing transaction: an InnoDB deadlock or lock wait timeout, or
// SQLITE_BUSY and its extended codes.  The transaction is rolled back and
// may be retried as a whole.
func IsLockConflict(err error) bool {
	if err == nil {
		return false
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDeadlock || myErr.Number == mysqlLockWaitTimeout
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code()&0xff == sqlite3lib.SQLITE_BUSY
	}
	return false
}
