package etf

import "errors"

var (
	ErrUnknownSortKey = errors.New("etf: unknown sort key")
	ErrUnknownStatus  = errors.New("etf: unknown canary status")
	ErrMissingColumn  = errors.New("etf: required column missing from import")
	ErrEmptyImport    = errors.New("etf: import contains no rows with a ticker")
	ErrStoreFailure   = errors.New("etf: store operation failed")
)
