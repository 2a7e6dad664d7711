package ecckd

import (
	"crypto/hmac"
	"crypto/sha512"

	secp256k1 "github.com/ModChain/secp256k1-ecdh"
)

// hmacCKD returns key and chainCode for a given seed and salt.
//
// See: https://github.com/bitcoin/bips/blob/master/bip-0032.mediawiki
func hmacCKD(seed, salt []byte) (key secp256k1.ModNScalar, chainCode []byte, err error) {
	data := hmac.New(sha512.New, salt)
	if _, err = data.Write(seed); err != nil {
		return
	}
	I := data.Sum(nil)
	defer zeroBytes(I[:32])

	// In case parse256(IL) ≥ n or ki = 0, the resulting key is invalid, and one should proceed with the next value for i. (Note: this has probability lower than 1 in 2127.)
	var il [32]byte
	copy(il[:], I[:32])
	key, ok := secp256k1.ParsePrivateScalar(&il)
	zeroBytes(il[:])
	if !ok {
		err = ErrShaKeyInvalid
	}

	chainCode = append([]byte(nil), I[32:]...) // IR
	return
}
