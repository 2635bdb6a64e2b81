package database

import "errors"

var (
	ErrDatabaseNotFound = errors.New("database not found")
	ErrDatabaseClosed   = errors.New("database is closing")
	ErrUnknownOperation = errors.New("unknown operation")
	ErrInvalidTableName = errors.New("invalid table name")
)
