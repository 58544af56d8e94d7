package goSign

import "errors"

var (
	// ErrInvalidKeyset is an exported constant or variable used by the signing adapter.
	ErrInvalidKeyset = errors.New("invalid keyset")
	// ErrAdapterConfiguration is an exported constant or variable used by the signing adapter.
	ErrAdapterConfiguration = errors.New("adapter configuration invalid")
	// ErrTokenInvalid is an exported constant or variable used by the signing adapter.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenNotYetValid is an exported constant or variable used by the signing adapter.
	ErrTokenNotYetValid = errors.New("token not yet valid")
	// ErrTokenExpired is an exported constant or variable used by the signing adapter.
	ErrTokenExpired = errors.New("token expired")
)
