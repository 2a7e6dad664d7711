// Copyright (c) 2020-2023 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package secp256k1

import (
	"encoding/binary"
	"encoding/hex"
	"math/bits"
)

// References:
//   [SECG]: Recommended Elliptic Curve Domain Parameters
//     https://www.secg.org/sec2-v2.pdf

// Scalars are integers modulo the order of the group generated by the
// secp256k1 base point.  They use the same 4x64-bit word layout as FieldVal,
// but unlike field values they are always kept fully reduced.
//
// Reduction relies on the order being close to 2^256:
//
//   N = 2^256 - C  =>  2^256 ≡ C (mod N)
//
// where C is a 129-bit constant, so the high part of a wide product can be
// folded into the low part a few times until the value fits in 257 bits.

const (
	// These fields provide convenient access to each of the words of the
	// secp256k1 curve group order N to improve code readability.
	//
	// The group order of the curve per [SECG] is:
	// 0xffffffff ffffffff ffffffff fffffffe baaedce6 af48a03b bfd25e8c d0364141
	orderWordZero  uint64 = 0xbfd25e8cd0364141
	orderWordOne   uint64 = 0xbaaedce6af48a03b
	orderWordTwo   uint64 = 0xfffffffffffffffe
	orderWordThree uint64 = 0xffffffffffffffff

	// These fields provide convenient access to each of the words of the two's
	// complement of the secp256k1 curve group order N (2^256 - N) to improve
	// code readability.
	orderComplementWordZero  uint64 = 0x402da1732fc9bebf
	orderComplementWordOne   uint64 = 0x4551231950b75fc4
	orderComplementWordTwo   uint64 = 0x1
	orderComplementWordThree uint64 = 0x0
)

// orderComplement is 2^256 - N as words, least significant first.  Only the
// three low words are nonzero.
var orderComplement = [3]uint64{
	orderComplementWordZero,
	orderComplementWordOne,
	orderComplementWordTwo,
}

// ModNScalar implements optimized 256-bit constant-time fixed-precision
// arithmetic over the secp256k1 group order.  This means all arithmetic is
// performed modulo:
//
//	0xfffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141
//
// It only implements the arithmetic needed by the elliptic curve operations
// in this package and the key derivation built on top of it.
//
// The zero value is the scalar zero and is ready to use.
type ModNScalar struct {
	// The scalar is represented as 4 64-bit words in base 2^64, least
	// significant word first.  The value is always < N.
	n [4]uint64
}

// constantTimeEq returns 1 if a == b or 0 otherwise in constant time.
func constantTimeEq(a, b uint32) uint32 {
	return uint32((uint64(a^b) - 1) >> 63)
}

// constantTimeIsZero64 returns 1 if v == 0 or 0 otherwise in constant time.
func constantTimeIsZero64(v uint64) uint32 {
	// (v | -v) has the top bit set for every nonzero v.
	return uint32(((v | -v) >> 63) ^ 1)
}

// String returns the scalar as a human-readable hex string.
//
// This is NOT constant time.
func (s ModNScalar) String() string {
	b := s.Bytes()
	return hex.EncodeToString(b[:])
}

// Set sets the scalar equal to a copy of the passed one in constant time.
func (s *ModNScalar) Set(val *ModNScalar) *ModNScalar {
	*s = *val
	return s
}

// Zero sets the scalar to zero in constant time.  A newly created scalar is
// already set to zero.  This function can be useful to clear an existing
// scalar for reuse, and is used to wipe secrets.
func (s *ModNScalar) Zero() {
	s.n = [4]uint64{}
}

// IsZeroBit returns 1 when the scalar is equal to zero or 0 otherwise in
// constant time.
func (s *ModNScalar) IsZeroBit() uint32 {
	return constantTimeIsZero64(s.n[0] | s.n[1] | s.n[2] | s.n[3])
}

// IsZero returns whether or not the scalar is equal to zero in constant time.
func (s *ModNScalar) IsZero() bool {
	return s.IsZeroBit() == 1
}

// SetInt sets the scalar to the passed integer in constant time.
func (s *ModNScalar) SetInt(ui uint32) *ModNScalar {
	s.n = [4]uint64{uint64(ui), 0, 0, 0}
	return s
}

// addOrderComplement returns s + (2^256 - N) truncated to 256 bits along with
// the carry out of the top word.  The carry is 1 exactly when s >= N.
func addOrderComplement(w *[4]uint64) (r [4]uint64, carry uint64) {
	var c uint64
	r[0], c = bits.Add64(w[0], orderComplementWordZero, 0)
	r[1], c = bits.Add64(w[1], orderComplementWordOne, c)
	r[2], c = bits.Add64(w[2], orderComplementWordTwo, c)
	r[3], c = bits.Add64(w[3], orderComplementWordThree, c)
	return r, c
}

// overflows determines if the current scalar is greater than or equal to the
// group order in constant time and returns 1 if it is or 0 otherwise.
//
// The comparison is a single carry chain over every word, so nothing about
// which word decided the outcome is observable.
func (s *ModNScalar) overflows() uint32 {
	_, c := addOrderComplement(&s.n)
	return uint32(c)
}

// reduce257 reduces the 257-bit value top*2^256 + s modulo the group order in
// constant time.  The value MUST be less than 2N.
func (s *ModNScalar) reduce257(top uint64) {
	t, c := addOrderComplement(&s.n)
	mask := -(top | c)
	s.n[0] = (t[0] & mask) | (s.n[0] &^ mask)
	s.n[1] = (t[1] & mask) | (s.n[1] &^ mask)
	s.n[2] = (t[2] & mask) | (s.n[2] &^ mask)
	s.n[3] = (t[3] & mask) | (s.n[3] &^ mask)
}

// SetBytes interprets the provided array as a 256-bit big-endian unsigned
// integer, reduces it modulo the group order, sets the scalar to the result,
// and returns either 1 if it was reduced (aka it overflowed) or 0 otherwise in
// constant time.
//
// Note that a bool is not used here because it is not possible in Go to
// convert from a bool to numeric value in constant time and many constant-time
// operations require a numeric value.
func (s *ModNScalar) SetBytes(b *[32]byte) uint32 {
	s.n[0] = binary.BigEndian.Uint64(b[24:32])
	s.n[1] = binary.BigEndian.Uint64(b[16:24])
	s.n[2] = binary.BigEndian.Uint64(b[8:16])
	s.n[3] = binary.BigEndian.Uint64(b[0:8])

	// Since 2^256 < 2N, a single conditional subtraction is enough.
	needsReduce := s.overflows()
	s.reduce257(0)
	return needsReduce
}

// zeroArray32 zeroes the provided 32-byte buffer.
func zeroArray32(b *[32]byte) {
	*b = [32]byte{}
}

// SetByteSlice interprets the provided slice as a 256-bit big-endian unsigned
// integer (meaning it is truncated to the first 32 bytes), reduces it modulo
// the group order, sets the scalar to the result, and returns whether or not
// the resulting truncated 256-bit integer overflowed.
//
// This is only constant time with respect to the contents, not the length, of
// the slice.
func (s *ModNScalar) SetByteSlice(b []byte) bool {
	var b32 [32]byte
	if len(b) > 32 {
		b = b[:32]
	}
	copy(b32[32-len(b):], b)
	result := s.SetBytes(&b32)
	zeroArray32(&b32)
	return result != 0
}

// PutBytes unpacks the scalar to a 32-byte big-endian value in constant time.
func (s *ModNScalar) PutBytes(b *[32]byte) {
	binary.BigEndian.PutUint64(b[0:8], s.n[3])
	binary.BigEndian.PutUint64(b[8:16], s.n[2])
	binary.BigEndian.PutUint64(b[16:24], s.n[1])
	binary.BigEndian.PutUint64(b[24:32], s.n[0])
}

// Bytes unpacks the scalar to a 32-byte big-endian value in constant time.
func (s *ModNScalar) Bytes() [32]byte {
	var b [32]byte
	s.PutBytes(&b)
	return b
}

// IsOdd returns whether or not the scalar is an odd number in constant time.
func (s *ModNScalar) IsOdd() bool {
	return s.n[0]&1 == 1
}

// Equals returns whether or not the two scalars are the same in constant time.
func (s *ModNScalar) Equals(val *ModNScalar) bool {
	word := (s.n[0] ^ val.n[0]) | (s.n[1] ^ val.n[1]) | (s.n[2] ^ val.n[2]) |
		(s.n[3] ^ val.n[3])
	return constantTimeIsZero64(word) == 1
}

// Add2 adds the passed two scalars together modulo the group order in constant
// time and stores the result in s.
func (s *ModNScalar) Add2(val1, val2 *ModNScalar) *ModNScalar {
	var c uint64
	s.n[0], c = bits.Add64(val1.n[0], val2.n[0], 0)
	s.n[1], c = bits.Add64(val1.n[1], val2.n[1], c)
	s.n[2], c = bits.Add64(val1.n[2], val2.n[2], c)
	s.n[3], c = bits.Add64(val1.n[3], val2.n[3], c)
	s.reduce257(c)
	return s
}

// Add adds the passed scalar to the existing one modulo the group order in
// constant time and stores the result in s.
func (s *ModNScalar) Add(val *ModNScalar) *ModNScalar {
	return s.Add2(s, val)
}

// NegateVal negates the passed scalar modulo the group order and stores the
// result in s in constant time.
func (s *ModNScalar) NegateVal(val *ModNScalar) *ModNScalar {
	// N - val is in [1, N] for val in [0, N), so the only case that needs
	// fixing is val == 0 which must map to 0 rather than N.
	var b uint64
	var r [4]uint64
	r[0], b = bits.Sub64(orderWordZero, val.n[0], 0)
	r[1], b = bits.Sub64(orderWordOne, val.n[1], b)
	r[2], b = bits.Sub64(orderWordTwo, val.n[2], b)
	r[3], _ = bits.Sub64(orderWordThree, val.n[3], b)

	mask := uint64(val.IsZeroBit()) - 1
	s.n[0] = r[0] & mask
	s.n[1] = r[1] & mask
	s.n[2] = r[2] & mask
	s.n[3] = r[3] & mask
	return s
}

// Negate negates the scalar modulo the group order in constant time.
func (s *ModNScalar) Negate() *ModNScalar {
	return s.NegateVal(s)
}

// Sub subtracts the passed scalar from the existing one modulo the group order
// in constant time.
func (s *ModNScalar) Sub(val *ModNScalar) *ModNScalar {
	var neg ModNScalar
	neg.NegateVal(val)
	return s.Add2(s, &neg)
}

// foldOrder returns lo + hi*(2^256 - N) where hi holds hiLen words.  hiLen is
// always a constant at the call sites, so the loop structure does not depend
// on the data.
func foldOrder(lo *[4]uint64, hi *[4]uint64, hiLen int) (r [8]uint64) {
	copy(r[:4], lo[:])
	for i := 0; i < hiLen; i++ {
		var carry uint64
		for j := 0; j < len(orderComplement); j++ {
			h, l := bits.Mul64(hi[i], orderComplement[j])
			var c uint64
			l, c = bits.Add64(l, r[i+j], 0)
			h += c
			l, c = bits.Add64(l, carry, 0)
			h += c
			r[i+j] = l
			carry = h
		}
		for k := i + len(orderComplement); k < len(r); k++ {
			r[k], carry = bits.Add64(r[k], carry, 0)
		}
	}
	return r
}

// reduce512 reduces the passed 512-bit value modulo the group order and stores
// the result in s in constant time.
//
// Each fold replaces hi*2^256 with hi*C where C = 2^256 - N < 2^129:
//
//	t < 2^512          -> lo + hi*C < 2^386
//	   < 2^386          -> lo + hi*C < 2^260
//	   < 2^260          -> lo + hi*C < 2^256 + 2^133 < 2N
//
// followed by a final conditional subtraction.
func (s *ModNScalar) reduce512(t *[8]uint64) {
	lo := [4]uint64{t[0], t[1], t[2], t[3]}
	hi := [4]uint64{t[4], t[5], t[6], t[7]}
	r := foldOrder(&lo, &hi, 4)

	lo = [4]uint64{r[0], r[1], r[2], r[3]}
	hi = [4]uint64{r[4], r[5], r[6], 0}
	r = foldOrder(&lo, &hi, 3)

	lo = [4]uint64{r[0], r[1], r[2], r[3]}
	hi = [4]uint64{r[4], 0, 0, 0}
	r = foldOrder(&lo, &hi, 1)

	s.n = [4]uint64{r[0], r[1], r[2], r[3]}
	s.reduce257(r[4])
}

// Mul2 multiplies the passed two scalars together modulo the group order in
// constant time and stores the result in s.
func (s *ModNScalar) Mul2(val, val2 *ModNScalar) *ModNScalar {
	t := mul256(&val.n, &val2.n)
	s.reduce512(&t)
	return s
}

// Mul multiplies the passed scalar with the existing one modulo the group
// order in constant time and stores the result in s.
func (s *ModNScalar) Mul(val *ModNScalar) *ModNScalar {
	return s.Mul2(s, val)
}

// SquareVal squares the passed scalar modulo the group order in constant time
// and stores the result in s.
func (s *ModNScalar) SquareVal(val *ModNScalar) *ModNScalar {
	return s.Mul2(val, val)
}

// ParsePrivateScalar interprets the passed 32 bytes as a big-endian private
// scalar and reports whether it is usable as a private key, that is whether
// 0 < s < N.
//
// The validity result is public, but the comparison that produces it is a
// fixed sequence of word operations, so which bits of the input caused a
// rejection is not observable.  The returned scalar is zero when the input is
// not valid.
func ParsePrivateScalar(b *[32]byte) (ModNScalar, bool) {
	var s ModNScalar
	overflow := s.SetBytes(b)
	invalid := overflow | s.IsZeroBit()

	// Clear the scalar without branching when it is rejected.
	mask := uint64(invalid) - 1
	s.n[0] &= mask
	s.n[1] &= mask
	s.n[2] &= mask
	s.n[3] &= mask
	return s, invalid == 0
}
