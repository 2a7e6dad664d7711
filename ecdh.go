// Copyright (c) 2015 The btcsuite developers
// Copyright (c) 2015-2023 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package secp256k1

// SharedSecret computes an elliptic curve Diffie-Hellman secret from the
// passed public key and 32-byte big-endian private scalar and writes it to
// result using the passed hash step.  When hash is nil the context default
// (SHA256Hash unless configured otherwise) is used, which requires a 32-byte
// result.
//
// The steps are:
//
//  1. reject a private scalar that is zero or not below the group order
//  2. compute R = d*P with the constant-time multiplier
//  3. reject R if it is the point at infinity
//  4. convert R to affine with a single inversion and serialize x and y
//  5. hand x, y and data to the hash step and fail if it reports failure
//
// Errors are of type Error with the kinds ErrInvalidOutputLen,
// ErrInvalidPubKey, ErrInvalidScalar, ErrPointAtInfinityResult, and
// ErrHashCallbackFailed.  When the scalar is rejected the result is zeroed,
// so it never holds anything derived from the rejected value.
//
// The public key is re-checked to be on the curve even though ParsePubKey
// already guarantees it, since a PublicKey can also be built with
// NewPublicKey from arbitrary coordinates.
func (ctx *Context) SharedSecret(result []byte, pubKey *PublicKey, privKey *[32]byte, hash HashFunc, data any) error {
	if len(result) == 0 {
		return makeError(ErrInvalidOutputLen, "ecdh: empty output buffer")
	}
	if pubKey == nil || !pubKey.IsOnCurve() {
		return makeError(ErrInvalidPubKey, "ecdh: public key is not a "+
			"point on the secp256k1 curve")
	}
	if hash == nil {
		hash = ctx.defaultHash
	}

	scalar, valid := ParsePrivateScalar(privKey)
	if !valid {
		for i := range result {
			result[i] = 0
		}
		return makeError(ErrInvalidScalar, "ecdh: private scalar is zero or "+
			"not less than the group order")
	}

	var point, r JacobianPoint
	pubKey.AsJacobian(&point)
	ScalarMultConst(&scalar, &point, &r)
	scalar.Zero()
	defer r.Zero()

	if r.IsInfinity() {
		return makeError(ErrPointAtInfinityResult, "ecdh: result is the "+
			"point at infinity")
	}

	r.ToAffine()
	var x, y [32]byte
	r.X.PutBytes(&x)
	r.Y.PutBytes(&y)
	ok := invokeHash(hash, result, x[:], y[:], data)
	zeroArray32(&x)
	zeroArray32(&y)
	if !ok {
		return makeError(ErrHashCallbackFailed, "ecdh: hash step failed")
	}
	return nil
}

// ECDH is SharedSecret reduced to a single success flag, for callers that
// only need to know whether the secret was produced.
func (ctx *Context) ECDH(result []byte, pubKey *PublicKey, privKey *[32]byte, hash HashFunc, data any) bool {
	return ctx.SharedSecret(result, pubKey, privKey, hash, data) == nil
}

// ECDH computes a shared secret with the default context.  See
// Context.SharedSecret.
func ECDH(result []byte, pubKey *PublicKey, privKey *[32]byte, hash HashFunc, data any) bool {
	return DefaultContext().ECDH(result, pubKey, privKey, hash, data)
}

// GenerateSharedSecret generates a shared secret based on a private key and a
// public key using Diffie-Hellman key exchange (ECDH) (RFC 5903).
// RFC5903 Section 9 states we should only return x.
//
// It is recommended to securely hash the result before using as a cryptographic
// key.
//
// A nil is returned when the private key is zero or the public key is not on
// the curve.
func GenerateSharedSecret(privkey *PrivateKey, pubkey *PublicKey) []byte {
	privBytes := privkey.Key.Bytes()
	defer zeroArray32(&privBytes)

	var secret [32]byte
	if err := DefaultContext().SharedSecret(secret[:], pubkey, &privBytes,
		XOnlyHash, nil); err != nil {

		return nil
	}
	return secret[:]
}

// ECDH generates a shared secret and is an alias to GenerateSharedSecret, however
// by being part of the private key it is closer to go's own ecdh api.
func (privkey *PrivateKey) ECDH(remote *PublicKey) ([]byte, error) {
	privBytes := privkey.Key.Bytes()
	defer zeroArray32(&privBytes)

	var secret [32]byte
	if err := DefaultContext().SharedSecret(secret[:], remote, &privBytes,
		XOnlyHash, nil); err != nil {

		return nil, err
	}
	return secret[:], nil
}
