package ecckd

import (
	"errors"
)

var (
	ErrInvalidKey                 = errors.New("key is invalid")
	ErrInvalidSeed                = errors.New("seed is invalid")
	ErrDerivingHardenedFromPublic = errors.New("cannot derive a hardened key from public key")
	ErrBadChecksum                = errors.New("bad extended key checksum")
	ErrInvalidKeyLen              = errors.New("serialized extended key length is invalid")
	ErrDerivingChild              = errors.New("error deriving child key")
	ErrInvalidMasterKey           = errors.New("invalid master key supplied")
	ErrMaxDepthExceeded           = errors.New("max depth exceeded")
	ErrInvalidPrivateFlag         = errors.New("key private flag does not match version")
	ErrInvalidChainCode           = errors.New("chain code must be 32 bytes")
	ErrInvalidEncoding            = errors.New("extended key is not valid base58")
	ErrUnknownVersion             = errors.New("unknown extended key version")
	ErrNotPrivate                 = errors.New("extended key is not private")
	ErrInvalidPath                = errors.New("derivation path is invalid")
	ErrShaKeyInvalid              = errors.New("generated key zero or overflow, try next one")
)
