package db

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

var (
	ErrDuplicateEntryCode = 1062

	// ErrDuplicateHash reports that a verification already exists for the
	// content hash. Callers resolve it by returning the existing record.
	ErrDuplicateHash = errors.New("verification already exists for image hash")
)

func MysqlErrCode(err error) int {
	mysqlErr, ok := err.(*mysql.MySQLError)
	if !ok {
		return 0
	}
	return int(mysqlErr.Number)
}

// IsDuplicateEntryErr detects the unique-constraint violation on image_hash
// for both supported dialects.
func IsDuplicateEntryErr(err error) bool {
	if err == nil {
		return false
	}
	if MysqlErrCode(err) == ErrDuplicateEntryCode {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "Duplicate entry")
}
