// Copyright (c) 2015-2023 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package secp256k1

import (
	"crypto/sha256"
	"io"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"golang.org/x/crypto/hkdf"
)

// HashFunc turns the coordinates of an agreed ECDH point into the final
// shared secret.
//
// Hash must fill output completely and return true, or return false to make
// the whole ECDH computation fail.  x32 and y32 are the 32-byte big-endian
// affine coordinates of the point and are only valid for the duration of the
// call.  data is passed through unchanged from the ECDH caller.
//
// A HashFunc that panics is treated as having returned false.
type HashFunc interface {
	Hash(output, x32, y32 []byte, data any) bool
}

// HashFuncAdapter allows an ordinary function to be used as a HashFunc.
type HashFuncAdapter func(output, x32, y32 []byte, data any) bool

// Hash calls f(output, x32, y32, data).
func (f HashFuncAdapter) Hash(output, x32, y32 []byte, data any) bool {
	return f(output, x32, y32, data)
}

var (
	// SHA256Hash is the default hash step.  It writes the SHA-256 digest of
	// the compressed serialization of the point, 0x02|(y&1) || x, to a
	// 32-byte output.
	SHA256Hash HashFunc = HashFuncAdapter(sha256Hash)

	// XOnlyHash writes the raw x coordinate to a 32-byte output, which is the
	// shared secret defined by RFC 5903 section 9.  It is recommended to hash
	// the result before using it as a key.
	XOnlyHash HashFunc = HashFuncAdapter(xOnlyHash)

	// Blake256Hash writes the BLAKE-256 digest of the compressed serialization
	// of the point to a 32-byte output.
	Blake256Hash HashFunc = HashFuncAdapter(blake256Hash)
)

// compressedPoint returns the 33-byte compressed serialization of the point
// with the passed coordinates without branching on the parity of y.
func compressedPoint(x32, y32 []byte) [PubKeyBytesLenCompressed]byte {
	var b [PubKeyBytesLenCompressed]byte
	b[0] = PubKeyFormatCompressedEven | (y32[31] & 0x01)
	copy(b[1:], x32)
	return b
}

// validHashArgs reports whether the hash step arguments have the sizes every
// built-in hash step requires.
func validHashArgs(output, x32, y32 []byte, outLen int) bool {
	return len(output) == outLen && len(x32) == 32 && len(y32) == 32
}

func sha256Hash(output, x32, y32 []byte, _ any) bool {
	if !validHashArgs(output, x32, y32, sha256.Size) {
		return false
	}
	point := compressedPoint(x32, y32)
	digest := sha256.Sum256(point[:])
	copy(output, digest[:])
	point = [PubKeyBytesLenCompressed]byte{}
	return true
}

func xOnlyHash(output, x32, y32 []byte, _ any) bool {
	if !validHashArgs(output, x32, y32, 32) {
		return false
	}
	copy(output, x32)
	return true
}

func blake256Hash(output, x32, y32 []byte, _ any) bool {
	if !validHashArgs(output, x32, y32, chainhash.HashSize) {
		return false
	}
	point := compressedPoint(x32, y32)
	copy(output, chainhash.HashB(point[:]))
	point = [PubKeyBytesLenCompressed]byte{}
	return true
}

// HKDFHash derives an output of any length from the compressed serialization
// of the point with HKDF-SHA256 (RFC 5869).  Salt and Info are the optional
// HKDF parameters.  When the data passed to the hash step is a []byte, it is
// appended to Info so callers can bind per-session context.
type HKDFHash struct {
	Salt []byte
	Info []byte
}

// Hash implements HashFunc.
func (h *HKDFHash) Hash(output, x32, y32 []byte, data any) bool {
	// RFC 5869 limits the output to 255 blocks of the hash size.
	if len(output) == 0 || len(output) > 255*sha256.Size ||
		len(x32) != 32 || len(y32) != 32 {

		return false
	}

	info := h.Info
	if extra, ok := data.([]byte); ok {
		info = append(append(make([]byte, 0, len(h.Info)+len(extra)),
			h.Info...), extra...)
	}

	point := compressedPoint(x32, y32)
	defer func() { point = [PubKeyBytesLenCompressed]byte{} }()
	r := hkdf.New(sha256.New, point[:], h.Salt, info)
	_, err := io.ReadFull(r, output)
	return err == nil
}

// invokeHash runs the hash step and converts a panic, which is a violation of
// the HashFunc contract, into a failure.
func invokeHash(hash HashFunc, output, x32, y32 []byte, data any) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	return hash.Hash(output, x32, y32, data)
}
