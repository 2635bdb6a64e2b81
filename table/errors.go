package table

import "errors"

var (
	ErrTableNotFound     = errors.New("table not found")
	ErrTableCreateFailed = errors.New("table could not be created")
	ErrTableCorrupt      = errors.New("table content is not a json array of objects")
	ErrLockFailed        = errors.New("can't set file lock")
	ErrSaveFailed        = errors.New("can't write data")
	ErrDropFailed        = errors.New("table could not be dropped")
	ErrTableClosed       = errors.New("table is closed")
	ErrTableDropped      = errors.New("table has been dropped")
)
