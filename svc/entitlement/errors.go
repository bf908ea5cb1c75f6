package entitlement

import "errors"

var (
	ErrNotFound                = errors.New("entitlement: not found")
	ErrInvalidEmail            = errors.New("entitlement: invalid email")
	ErrInvalidTier             = errors.New("entitlement: invalid tier")
	ErrInconsistentEntitlement = errors.New("entitlement: paid flag and tier disagree")
	ErrStoreFailure            = errors.New("entitlement: store failure")
)
