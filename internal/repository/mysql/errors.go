package mysql

import (
	"errors"

	driver "github.com/go-sql-driver/mysql"
)

// MySQL 服务端错误号
const (
	erDupEntry                = 1062
	erNoReferencedRow         = 1216
	erNoReferencedRow2        = 1452
	erCheckConstraintViolated = 3819
)

func mysqlErrorNumber(err error) uint16 {
	var myErr *driver.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number
	}
	return 0
}

func isDuplicateEntry(err error) bool {
	return mysqlErrorNumber(err) == erDupEntry
}

func isMissingParent(err error) bool {
	n := mysqlErrorNumber(err)
	return n == erNoReferencedRow || n == erNoReferencedRow2
}

func isCheckViolation(err error) bool {
	return mysqlErrorNumber(err) == erCheckConstraintViolated
}
