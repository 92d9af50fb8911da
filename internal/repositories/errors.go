package repositories

import (
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/courseenroll/backend/libs/apperrors"
	"github.com/go-sql-driver/mysql"
)

// MySQL server error numbers the repositories react to
const (
	errDuplicateEntry     = 1062
	errNoSuchTable        = 1146
	errUnknownDatabase    = 1049
	errRowIsReferenced    = 1451
	errNoReferencedRow    = 1452
	errDeadlock           = 1213
	errLockWaitTimeout    = 1205
	errAccessDenied       = 1045
	errServerShutdown     = 1053
	errTooManyConnections = 1040
)

// isDuplicateEntry reports whether err is a unique key violation
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == errDuplicateEntry
}

// isRowReferenced reports whether err is a foreign key violation on delete
func isRowReferenced(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == errRowIsReferenced
}

// isMissingReference reports whether err is a foreign key violation on insert or update
func isMissingReference(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == errNoReferencedRow
}

// violatesConstraint reports whether err names the given constraint
func violatesConstraint(err error, name string) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && strings.Contains(mysqlErr.Message, name)
}

// isTransactionAborted reports whether the server rolled the transaction back to resolve lock contention
func isTransactionAborted(err error) bool {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return false
	}
	return mysqlErr.Number == errDeadlock || mysqlErr.Number == errLockWaitTimeout
}

// isInfrastructure reports whether err means the store is unreachable or the schema is missing
func isInfrastructure(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case errNoSuchTable, errUnknownDatabase, errAccessDenied, errServerShutdown, errTooManyConnections:
			return true
		}
		return false
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// classify converts driver errors into the application taxonomy.
// Errors that are already classified and unknown errors are returned unchanged.
func classify(err error) error {
	if err == nil || apperrors.KindOf(err) != apperrors.KindInternal {
		return err
	}
	if isTransactionAborted(err) {
		return apperrors.Retryable(err)
	}
	if isInfrastructure(err) {
		return apperrors.Infrastructure(err)
	}
	return err
}
