// Copyright (c) 2015-2023 The Decred developers
// Copyright 2013-2014 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package secp256k1

import (
	"encoding/hex"
	"math/bits"
)

// References:
//   [SECG]: Recommended Elliptic Curve Domain Parameters
//     https://www.secg.org/sec2-v2.pdf
//
//   [EFD]: Explicit-Formulas Database, short Weierstrass a=0, Jacobian
//     https://hyperelliptic.org/EFD/g1p/auto-shortw-jacobian-0.html
//
//   [JT]: Joye, Tunstall - Exponent Recoding and Regular Exponentiation
//     Algorithms (AFRICACRYPT 2009)

// hexToFieldVal converts the passed hex string into a FieldVal and will panic
// if there is an error.  This is only provided for the hard-coded constants so
// errors in the source code can be detected. It will only (and must only) be
// called with hard-coded values.
func hexToFieldVal(s string) *FieldVal {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("invalid hex in source file: " + s)
	}
	var f FieldVal
	if overflow := f.SetByteSlice(b); overflow {
		panic("hex in source file overflows mod P: " + s)
	}
	return &f
}

var (
	// The coordinates of the secp256k1 base point G per [SECG].
	generatorX = hexToFieldVal("79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")
	generatorY = hexToFieldVal("483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8")
)

const (
	// windowBits is the width of each signed digit used by the constant-time
	// scalar multiplication routines.
	windowBits = 4

	// windowTableSize is the number of odd multiples {1, 3, ..., 2^w - 1} that
	// are needed to cover every digit magnitude.
	windowTableSize = 1 << (windowBits - 1)

	// numWindows is the number of digits a 256-bit scalar is recoded into.
	// An implicit leading digit of 1 sits above them.
	numWindows = 256 / windowBits

	// windowMask extracts windowBits+1 bits, the amount needed to produce
	// one odd signed digit.
	windowMask = 1<<(windowBits+1) - 1
)

// AffinePoint is a point on the secp256k1 curve in affine coordinates.  It is
// used for precomputed table entries so that additions can use the cheaper
// mixed formulas.  It can not represent the point at infinity.
type AffinePoint struct {
	X FieldVal
	Y FieldVal
}

// JacobianPoint is an element of the group formed by the secp256k1 curve in
// Jacobian projective coordinates and thus represents a point on the curve.
type JacobianPoint struct {
	// The X coordinate in Jacobian projective coordinates.  The affine point is
	// X/z^2.
	X FieldVal

	// The Y coordinate in Jacobian projective coordinates.  The affine point is
	// Y/z^3.
	Y FieldVal

	// The Z coordinate in Jacobian projective coordinates.  A Z of zero marks
	// the point at infinity.
	Z FieldVal
}

// MakeJacobianPoint returns a Jacobian point with the provided X, Y, and Z
// coordinates.
func MakeJacobianPoint(x, y, z *FieldVal) JacobianPoint {
	var p JacobianPoint
	p.X.Set(x)
	p.Y.Set(y)
	p.Z.Set(z)
	return p
}

// Set sets the Jacobian point to the provided point.
func (p *JacobianPoint) Set(other *JacobianPoint) {
	p.X.Set(&other.X)
	p.Y.Set(&other.Y)
	p.Z.Set(&other.Z)
}

// setAffine sets the Jacobian point to the provided affine point with Z = 1.
func (p *JacobianPoint) setAffine(a *AffinePoint) {
	p.X.Set(&a.X)
	p.Y.Set(&a.Y)
	p.Z.SetInt(1)
}

// CMov sets the point to other when flag is 1 and leaves it unchanged when
// flag is 0, without branching.
func (p *JacobianPoint) CMov(other *JacobianPoint, flag uint32) {
	p.X.CMov(&other.X, flag)
	p.Y.CMov(&other.Y, flag)
	p.Z.CMov(&other.Z, flag)
}

// IsInfinityBit returns 1 when the point is the point at infinity or 0
// otherwise in constant time.
func (p *JacobianPoint) IsInfinityBit() uint32 {
	return p.Z.IsZeroBit()
}

// IsInfinity returns whether or not the point is the point at infinity.
func (p *JacobianPoint) IsInfinity() bool {
	return p.IsInfinityBit() == 1
}

// Zero wipes the point.  The result is the point at infinity.
func (p *JacobianPoint) Zero() {
	p.X.Zero()
	p.Y.Zero()
	p.Z.Zero()
}

// ToAffine reduces the Z value of the existing point to 1 effectively making
// it an affine coordinate in constant time using exactly one field inversion.
// The point will be normalized.
//
// The point at infinity maps to (0, 0) with Z = 0 left untouched, so callers
// must check IsInfinity first when that matters.
func (p *JacobianPoint) ToAffine() {
	var zInv, tempZ FieldVal
	zInv.Set(&p.Z).Inverse()  // zInv = Z^-1
	tempZ.SquareVal(&zInv)    // tempZ = Z^-2
	p.X.Mul(&tempZ)           // X = X/Z^2
	p.Y.Mul(tempZ.Mul(&zInv)) // Y = Y/Z^3

	// Z = 1 unless the point is at infinity.
	var one FieldVal
	one.SetInt(1)
	p.Z.CMov(&one, p.Z.IsZeroBit()^1)

	p.X.Normalize()
	p.Y.Normalize()
	p.Z.Normalize()
}

// DoubleConst doubles the passed Jacobian point and stores the result in the
// provided result param in constant time, that is to say result = 2*p.
//
// It uses the dbl-2009-l formulas for a = 0 from [EFD], which cost 2M + 5S.
// Doubling the point at infinity yields the point at infinity since
// Z3 = 2*Y1*Z1.  The result may alias p.
func DoubleConst(p, result *JacobianPoint) {
	var a, b, c, d, e, f, t, x3, y3, z3 FieldVal
	a.SquareVal(&p.X)                                  // A = X1^2
	b.SquareVal(&p.Y)                                  // B = Y1^2
	c.SquareVal(&b)                                    // C = B^2
	d.Add2(&p.X, &b).Square().Sub(&a).Sub(&c).MulInt(2) // D = 2*((X1+B)^2-A-C)
	e.Set(&a).MulInt(3)                                // E = 3*A
	f.SquareVal(&e)                                    // F = E^2
	x3.Sub2(&f, t.Set(&d).MulInt(2))                   // X3 = F-2*D
	y3.Sub2(&d, &x3).Mul(&e).Sub(t.Set(&c).MulInt(8))  // Y3 = E*(D-X3)-8*C
	z3.Mul2(&p.Y, &p.Z).MulInt(2)                      // Z3 = 2*Y1*Z1

	result.X.Set(&x3)
	result.Y.Set(&y3)
	result.Z.Set(&z3)
}

// addMixedConst adds the passed Jacobian point and affine point together in
// constant time and stores the result in the provided result param, that is
// to say result = p1 + p2.  The result may alias p1.
//
// The madd-2007-bl formulas from [EFD] are incomplete: they produce garbage
// when p1 == p2 and when p1 is the point at infinity.  Rather than branching
// on those cases, the doubling of p1 is always computed as well and the
// correct answer is chosen with masks.  p1 == -p2 needs no fix up since the
// formulas already give Z3 = 0 there.
func addMixedConst(p1 *JacobianPoint, p2 *AffinePoint, result *JacobianPoint) {
	var z1z1, u2, s2, h, hh, i, j, r, v, t, x3, y3, z3 FieldVal
	z1z1.SquareVal(&p1.Z)                                   // Z1Z1 = Z1^2
	u2.Mul2(&p2.X, &z1z1)                                   // U2 = X2*Z1Z1
	s2.Mul2(&p2.Y, &p1.Z).Mul(&z1z1)                        // S2 = Y2*Z1*Z1Z1
	h.Sub2(&u2, &p1.X)                                      // H = U2-X1
	hh.SquareVal(&h)                                        // HH = H^2
	i.Set(&hh).MulInt(4)                                    // I = 4*HH
	j.Mul2(&h, &i)                                          // J = H*I
	r.Sub2(&s2, &p1.Y).MulInt(2)                            // r = 2*(S2-Y1)
	v.Mul2(&p1.X, &i)                                       // V = X1*I
	x3.SquareVal(&r).Sub(&j).Sub(t.Set(&v).MulInt(2))       // X3 = r^2-J-2*V
	y3.Sub2(&v, &x3).Mul(&r).Sub(t.Mul2(&p1.Y, &j).MulInt(2)) // Y3 = r*(V-X3)-2*Y1*J
	z3.Mul2(&p1.Z, &h).MulInt(2)                            // Z3 = 2*Z1*H

	isDouble := h.IsZeroBit() & r.IsZeroBit()
	p1Infinity := p1.IsInfinityBit()

	var dbl, p2Jacobian JacobianPoint
	DoubleConst(p1, &dbl)
	p2Jacobian.setAffine(p2)

	result.X.Set(&x3)
	result.Y.Set(&y3)
	result.Z.Set(&z3)
	result.CMov(&dbl, isDouble)
	result.CMov(&p2Jacobian, p1Infinity)
}

// AddConst adds the passed Jacobian points together in constant time and
// stores the result in the provided result param, that is to say
// result = p1 + p2.  The result may alias either input.
//
// It uses the add-2007-bl formulas from [EFD] and resolves the exceptional
// cases (either input at infinity, or p1 == p2) with masks the same way
// addMixedConst does.
func AddConst(p1, p2, result *JacobianPoint) {
	var z1z1, z2z2, u1, u2, s1, s2, h, i, j, r, v, t, x3, y3, z3 FieldVal
	z1z1.SquareVal(&p1.Z)                                   // Z1Z1 = Z1^2
	z2z2.SquareVal(&p2.Z)                                   // Z2Z2 = Z2^2
	u1.Mul2(&p1.X, &z2z2)                                   // U1 = X1*Z2Z2
	u2.Mul2(&p2.X, &z1z1)                                   // U2 = X2*Z1Z1
	s1.Mul2(&p1.Y, &p2.Z).Mul(&z2z2)                        // S1 = Y1*Z2*Z2Z2
	s2.Mul2(&p2.Y, &p1.Z).Mul(&z1z1)                        // S2 = Y2*Z1*Z1Z1
	h.Sub2(&u2, &u1)                                        // H = U2-U1
	i.Set(&h).MulInt(2).Square()                            // I = (2*H)^2
	j.Mul2(&h, &i)                                          // J = H*I
	r.Sub2(&s2, &s1).MulInt(2)                              // r = 2*(S2-S1)
	v.Mul2(&u1, &i)                                         // V = U1*I
	x3.SquareVal(&r).Sub(&j).Sub(t.Set(&v).MulInt(2))       // X3 = r^2-J-2*V
	y3.Sub2(&v, &x3).Mul(&r).Sub(t.Mul2(&s1, &j).MulInt(2)) // Y3 = r*(V-X3)-2*S1*J
	z3.Mul2(&p1.Z, &p2.Z).Mul(&h).MulInt(2)                 // Z3 = 2*Z1*Z2*H

	isDouble := h.IsZeroBit() & r.IsZeroBit()
	p1Infinity := p1.IsInfinityBit()
	p2Infinity := p2.IsInfinityBit()

	var dbl, a, b JacobianPoint
	DoubleConst(p1, &dbl)
	a.Set(p1)
	b.Set(p2)

	result.X.Set(&x3)
	result.Y.Set(&y3)
	result.Z.Set(&z3)
	result.CMov(&dbl, isDouble)
	result.CMov(&b, p1Infinity)
	result.CMov(&a, p2Infinity)
}

// batchToAffine converts the passed Jacobian points to affine coordinates
// using a single field inversion (Montgomery's trick).  None of the points may
// be the point at infinity.
//
// This is only used on public points while building lookup tables.
func batchToAffine(points []JacobianPoint, out []AffinePoint) {
	if len(points) == 0 {
		return
	}

	// acc[i] = Z0 * Z1 * ... * Zi
	acc := make([]FieldVal, len(points))
	acc[0].Set(&points[0].Z)
	for i := 1; i < len(points); i++ {
		acc[i].Mul2(&acc[i-1], &points[i].Z)
	}

	var inv, zInv, zInv2, zInv3 FieldVal
	inv.Set(&acc[len(acc)-1]).Inverse()
	for i := len(points) - 1; i >= 0; i-- {
		if i > 0 {
			zInv.Mul2(&inv, &acc[i-1])
			inv.Mul(&points[i].Z)
		} else {
			zInv.Set(&inv)
		}
		zInv2.SquareVal(&zInv)
		zInv3.Mul2(&zInv2, &zInv)
		out[i].X.Mul2(&points[i].X, &zInv2).Normalize()
		out[i].Y.Mul2(&points[i].Y, &zInv3).Normalize()
	}
}

// oddMultiples holds the affine points {1P, 3P, 5P, ..., (2^w-1)P}.
type oddMultiples [windowTableSize]AffinePoint

// buildOddMultiples fills the table with the odd multiples of the passed
// point, which must not be the point at infinity.
func buildOddMultiples(p *JacobianPoint, table *oddMultiples) {
	var jacobian [windowTableSize]JacobianPoint
	var two JacobianPoint
	DoubleConst(p, &two)
	jacobian[0].Set(p)
	for j := 1; j < windowTableSize; j++ {
		AddConst(&jacobian[j-1], &two, &jacobian[j])
	}
	batchToAffine(jacobian[:], table[:])
}

// lookup sets result to digit*P where digit is odd and in [-(2^w-1), 2^w-1].
//
// Every entry of the table is read for every lookup and the wanted one is kept
// with masks, so the memory access pattern does not depend on the digit.  The
// sign is applied by conditionally replacing Y with its negation.
func (t *oddMultiples) lookup(digit int32, result *AffinePoint) {
	signMask := digit >> 31
	abs := (digit ^ signMask) - signMask
	idx := uint32(abs-1) >> 1

	result.X.Zero()
	result.Y.Zero()
	for j := range t {
		flag := constantTimeEq(uint32(j), idx)
		result.X.CMov(&t[j].X, flag)
		result.Y.CMov(&t[j].Y, flag)
	}

	var negY FieldVal
	negY.NegateVal(&result.Y)
	result.Y.CMov(&negY, uint32(signMask)&1)
}

// windowAt returns the windowBits+1 bits of w starting at bit pos.  pos is
// always derived from a loop counter, never from the scalar.
func windowAt(w *[4]uint64, pos int) uint32 {
	word, shift := pos/64, uint(pos%64)
	v := w[word] >> shift
	if shift > 64-(windowBits+1) && word < len(w)-1 {
		v |= w[word+1] << (64 - shift)
	}
	return uint32(v & windowMask)
}

// recodeOdd converts the passed scalar into numWindows signed odd digits in
// [-(2^w-1), 2^w-1] such that
//
//	k + skew = 2^256 + sum(digits[i] * 2^(w*i))
//
// where skew is 1 when k is even and 0 otherwise.  This is the regular
// recoding from [JT]: every digit is nonzero, so every window performs exactly
// the same work.
//
// The recoding of an odd integer m is d_i = (bits[wi, wi+w] of m | 1) - 2^w,
// which needs no carries between windows and therefore no data-dependent
// control flow.  Making k odd is done on the plain integer (not modulo N) and
// cannot overflow because k < N < 2^256 - 1.
func recodeOdd(k *ModNScalar) (digits [numWindows]int32, skew uint32) {
	skew = uint32(k.n[0]&1) ^ 1

	var w [4]uint64
	var c uint64
	w[0], c = bits.Add64(k.n[0], uint64(skew), 0)
	w[1], c = bits.Add64(k.n[1], 0, c)
	w[2], c = bits.Add64(k.n[2], 0, c)
	w[3], _ = bits.Add64(k.n[3], 0, c)

	for i := 0; i < numWindows; i++ {
		digits[i] = int32(windowAt(&w, i*windowBits)|1) - (1 << windowBits)
	}
	w = [4]uint64{}
	return digits, skew
}

// ScalarMultConst multiplies k*P where k is a scalar modulo the curve order
// and P is a point in Jacobian projective coordinates and stores the result in
// the provided Jacobian point.  P must not be the point at infinity.
//
// The sequence of field operations and the memory access pattern depend only
// on the fixed 256-bit length of k and never on its value:
//
//   - k is recoded into 64 signed odd 4-bit digits plus a skew bit
//   - a table of the odd multiples 1P..15P is built from P (public)
//   - the accumulator starts at P for the implicit leading digit and, for
//     each digit from most to least significant, is doubled 4 times and then
//     has the digit's table entry added, selected by a full table scan
//   - the skew is removed by always computing acc - P and keeping it with a
//     mask
//
// The resulting point is NOT normalized to affine coordinates.
func ScalarMultConst(k *ModNScalar, point, result *JacobianPoint) {
	var table oddMultiples
	buildOddMultiples(point, &table)
	digits, skew := recodeOdd(k)

	var acc, adjusted JacobianPoint
	var entry AffinePoint
	acc.setAffine(&table[0])
	for i := numWindows - 1; i >= 0; i-- {
		for b := 0; b < windowBits; b++ {
			DoubleConst(&acc, &acc)
		}
		table.lookup(digits[i], &entry)
		addMixedConst(&acc, &entry, &acc)
	}

	var negP AffinePoint
	negP.X.Set(&table[0].X)
	negP.Y.NegateVal(&table[0].Y)
	addMixedConst(&acc, &negP, &adjusted)
	acc.CMov(&adjusted, skew)
	result.Set(&acc)

	digits = [numWindows]int32{}
	entry = AffinePoint{}
	acc.Zero()
	adjusted.Zero()
}

// AddNonConst adds the passed Jacobian points together and stores the result
// in the provided result param, that is to say result = p1 + p2.
//
// NOTE: This function branches on the values of the points and therefore is
// NOT constant time.  It must only be used with public data.
func AddNonConst(p1, p2, result *JacobianPoint) {
	// The point at infinity is the identity according to the group law for
	// elliptic curve cryptography.  Thus, ∞ + P = P and P + ∞ = P.
	if p1.IsInfinity() {
		result.Set(p2)
		return
	}
	if p2.IsInfinity() {
		result.Set(p1)
		return
	}
	AddConst(p1, p2, result)
}

// ScalarMultNonConst multiplies k*P where k is a scalar modulo the curve order
// and P is a point in Jacobian projective coordinates and stores the result in
// the provided Jacobian point.  It is a plain left-to-right double-and-add.
//
// NOTE: The running time depends on the bits of k.  It must only be used with
// public scalars, such as when checking the constant-time routines.
func ScalarMultNonConst(k *ModNScalar, point, result *JacobianPoint) {
	var acc, p JacobianPoint
	p.Set(point)
	for i := 255; i >= 0; i-- {
		DoubleConst(&acc, &acc)
		if (k.n[i/64]>>(uint(i)%64))&1 == 1 {
			AddNonConst(&acc, &p, &acc)
		}
	}
	result.Set(&acc)
}

// isOnCurve returns whether or not the affine point (x,y) is on the curve.
func isOnCurve(fx, fy *FieldVal) bool {
	// Elliptic curve equation for secp256k1 is: y^2 = x^3 + 7
	y2 := new(FieldVal).SquareVal(fy)
	result := new(FieldVal).SquareVal(fx).Mul(fx).AddInt(7)
	return y2.Equals(result)
}

// DecompressY attempts to calculate the Y coordinate for the given X coordinate
// such that the result pair is a point on the secp256k1 curve.  It adjusts Y
// based on the desired oddness and returns whether or not it was successful
// since not all X coordinates are valid.
//
// The resulting Y field val is normalized.
func DecompressY(x *FieldVal, odd bool, resultY *FieldVal) bool {
	// The curve equation for secp256k1 is: y^2 = x^3 + 7.  Thus
	// y = +-sqrt(x^3 + 7).
	//
	// The x coordinate must be invalid if there is no square root for the
	// calculated rhs because it means the X coordinate is not for a point on
	// the curve.
	x3PlusB := new(FieldVal).SquareVal(x).Mul(x).AddInt(7)
	if hasSqrt := resultY.SquareRootVal(x3PlusB); !hasSqrt {
		return false
	}
	if resultY.Normalize().IsOdd() != odd {
		resultY.Negate().Normalize()
	}
	return true
}
