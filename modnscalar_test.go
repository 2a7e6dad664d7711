// Copyright (c) 2020-2023 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package secp256k1

import (
	"math/big"
	"math/rand"
	"testing"
)

// curveOrder is the secp256k1 group order as a big integer.
var curveOrder = fromHex("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141")

// hexToModNScalar converts the passed hex string into a ModNScalar and will
// panic if there is an error.  This is only provided for the hard-coded
// constants so errors in the source code can be detected. It will only (and
// must only) be called with hard-coded values.
func hexToModNScalar(s string) *ModNScalar {
	var s2 ModNScalar
	if overflow := s2.SetByteSlice(hexToBytes(s)); overflow {
		panic("hex in source file overflows mod N scalar: " + s)
	}
	return &s2
}

// scalarToBig returns the scalar as a big integer.
func scalarToBig(s *ModNScalar) *big.Int {
	b := s.Bytes()
	return new(big.Int).SetBytes(b[:])
}

// bigToScalar returns the passed big integer reduced modulo the group order as
// a scalar.
func bigToScalar(v *big.Int) *ModNScalar {
	var b [32]byte
	new(big.Int).Mod(v, curveOrder).FillBytes(b[:])
	var s ModNScalar
	s.SetBytes(&b)
	return &s
}

// randModNScalar returns a random scalar along with its big integer value.
func randModNScalar(rng *rand.Rand) (*ModNScalar, *big.Int) {
	var b [32]byte
	rng.Read(b[:])
	var s ModNScalar
	s.SetBytes(&b)
	v := new(big.Int).SetBytes(b[:])
	return &s, v.Mod(v, curveOrder)
}

// TestModNScalarSetBytes ensures that setting a scalar to a 256-bit big-endian
// unsigned integer reduces it modulo the group order and reports the overflow.
func TestModNScalarSetBytes(t *testing.T) {
	tests := []struct {
		name     string // test description
		in       string // hex encoded test value
		expected string // expected hex encoded result
		overflow bool   // expected overflow result
	}{{
		name:     "zero",
		in:       "00",
		expected: "0000000000000000000000000000000000000000000000000000000000000000",
		overflow: false,
	}, {
		name:     "group order - 1",
		in:       "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364140",
		expected: "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364140",
		overflow: false,
	}, {
		name:     "group order",
		in:       "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141",
		expected: "0000000000000000000000000000000000000000000000000000000000000000",
		overflow: true,
	}, {
		name:     "group order + 1",
		in:       "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364142",
		expected: "0000000000000000000000000000000000000000000000000000000000000001",
		overflow: true,
	}, {
		name:     "2^256 - 1",
		in:       "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
		expected: "000000000000000000000000000000014551231950b75fc4402da1732fc9bebe",
		overflow: true,
	}, {
		name:     "high word equal, lower word larger",
		in:       "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364240",
		expected: "00000000000000000000000000000000000000000000000000000000000000ff",
		overflow: true,
	}, {
		name:     "high word equal, middle word smaller",
		in:       "fffffffffffffffffffffffffffffffebaaedce6af48a03abfd25e8cd0364241",
		expected: "fffffffffffffffffffffffffffffffebaaedce6af48a03abfd25e8cd0364241",
		overflow: false,
	}}

	for _, test := range tests {
		var s ModNScalar
		overflow := s.SetByteSlice(hexToBytes(test.in))
		if overflow != test.overflow {
			t.Errorf("%s: unexpected overflow -- got %v, want %v", test.name,
				overflow, test.overflow)
			continue
		}
		if got := s.String(); got != test.expected {
			t.Errorf("%s: unexpected result\ngot: %s\nwant: %s", test.name, got,
				test.expected)
		}
	}
}

// TestModNScalarArithmeticRandom ensures the scalar arithmetic matches a big
// integer oracle for random values.
func TestModNScalarArithmeticRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	mod := func(v *big.Int) *big.Int { return v.Mod(v, curveOrder) }
	for i := 0; i < 2000; i++ {
		a, aBig := randModNScalar(rng)
		b, bBig := randModNScalar(rng)

		checks := []struct {
			op   string
			got  *ModNScalar
			want *big.Int
		}{
			{"add", new(ModNScalar).Add2(a, b), mod(new(big.Int).Add(aBig, bBig))},
			{"add in place", new(ModNScalar).Set(a).Add(b), mod(new(big.Int).Add(aBig, bBig))},
			{"sub", new(ModNScalar).Set(a).Sub(b), mod(new(big.Int).Sub(aBig, bBig))},
			{"mul", new(ModNScalar).Mul2(a, b), mod(new(big.Int).Mul(aBig, bBig))},
			{"mul in place", new(ModNScalar).Set(a).Mul(b), mod(new(big.Int).Mul(aBig, bBig))},
			{"square", new(ModNScalar).SquareVal(a), mod(new(big.Int).Mul(aBig, aBig))},
			{"negate", new(ModNScalar).NegateVal(a), mod(new(big.Int).Neg(aBig))},
			{"negate in place", new(ModNScalar).Set(a).Negate(), mod(new(big.Int).Neg(aBig))},
		}
		for _, check := range checks {
			if scalarToBig(check.got).Cmp(check.want) != 0 {
				t.Fatalf("%s mismatch for a=%x b=%x\ngot: %v\nwant: %x",
					check.op, aBig, bBig, check.got, check.want)
			}
		}
	}
}

// TestModNScalarEdgeArithmetic ensures the arithmetic is correct for values
// at the edges of the range, which exercise the maximum carries in the
// reductions.
func TestModNScalarEdgeArithmetic(t *testing.T) {
	edge := []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		big.NewInt(2),
		new(big.Int).Sub(curveOrder, big.NewInt(1)),
		new(big.Int).Sub(curveOrder, big.NewInt(2)),
		new(big.Int).Rsh(curveOrder, 1),
		fromHex("ffffffffffffffffffffffffffffffff"),
		fromHex("100000000000000000000000000000000"),
	}
	mod := func(v *big.Int) *big.Int { return v.Mod(v, curveOrder) }
	for _, aBig := range edge {
		for _, bBig := range edge {
			a, b := bigToScalar(aBig), bigToScalar(bBig)
			if got := scalarToBig(new(ModNScalar).Add2(a, b)); got.Cmp(mod(new(big.Int).Add(aBig, bBig))) != 0 {
				t.Errorf("add(%x, %x) = %x", aBig, bBig, got)
			}
			if got := scalarToBig(new(ModNScalar).Mul2(a, b)); got.Cmp(mod(new(big.Int).Mul(aBig, bBig))) != 0 {
				t.Errorf("mul(%x, %x) = %x", aBig, bBig, got)
			}
			if got := scalarToBig(new(ModNScalar).Set(a).Sub(b)); got.Cmp(mod(new(big.Int).Sub(aBig, bBig))) != 0 {
				t.Errorf("sub(%x, %x) = %x", aBig, bBig, got)
			}
		}
	}
}

// TestModNScalarPredicates ensures the zero, odd, and equality checks report
// the expected results.
func TestModNScalarPredicates(t *testing.T) {
	var zero, one, two ModNScalar
	one.SetInt(1)
	two.SetInt(2)

	if !zero.IsZero() || zero.IsZeroBit() != 1 {
		t.Errorf("zero scalar is not zero")
	}
	if one.IsZero() || one.IsZeroBit() != 0 {
		t.Errorf("one scalar is zero")
	}
	if !one.IsOdd() || two.IsOdd() {
		t.Errorf("unexpected oddness")
	}
	if !one.Equals(new(ModNScalar).SetInt(1)) || one.Equals(&two) {
		t.Errorf("unexpected equality")
	}

	var neg ModNScalar
	neg.NegateVal(&zero)
	if !neg.IsZero() {
		t.Errorf("-0 is %v", neg)
	}

	s := hexToModNScalar("0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20")
	s.Zero()
	if !s.IsZero() {
		t.Errorf("Zero did not clear the scalar")
	}
}

// TestParsePrivateScalar ensures only scalars in [1, N-1] are accepted and the
// returned scalar is cleared for rejected input.
func TestParsePrivateScalar(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		valid bool
	}{{
		name:  "zero",
		in:    "0000000000000000000000000000000000000000000000000000000000000000",
		valid: false,
	}, {
		name:  "one",
		in:    "0000000000000000000000000000000000000000000000000000000000000001",
		valid: true,
	}, {
		name:  "group order - 1",
		in:    "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364140",
		valid: true,
	}, {
		name:  "group order",
		in:    "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141",
		valid: false,
	}, {
		name:  "group order + 1",
		in:    "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364142",
		valid: false,
	}, {
		name:  "2^256 - 1",
		in:    "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
		valid: false,
	}, {
		name:  "typical key",
		in:    "b71f1b8a1f3b1ec1a1e9a3c2bd6dbb0f5e1f6f0e6f8a31b94a2f1c0cdf1a3d58",
		valid: true,
	}}

	for _, test := range tests {
		var b [32]byte
		copy(b[:], hexToBytes(test.in))
		s, valid := ParsePrivateScalar(&b)
		if valid != test.valid {
			t.Errorf("%s: mismatched validity -- got %v, want %v", test.name,
				valid, test.valid)
			continue
		}
		if !valid {
			if !s.IsZero() {
				t.Errorf("%s: rejected scalar not cleared: %v", test.name, s)
			}
			continue
		}
		if got := s.Bytes(); got != b {
			t.Errorf("%s: unexpected scalar %x", test.name, got)
		}
	}
}

// TestConstantTimeHelpers ensures the branch-free comparison helpers return
// the expected flags.
func TestConstantTimeHelpers(t *testing.T) {
	eqTests := []struct {
		a, b uint32
		want uint32
	}{
		{0, 0, 1},
		{1, 0, 0},
		{0, 1, 0},
		{7, 7, 1},
		{0xffffffff, 0xffffffff, 1},
		{0xffffffff, 0, 0},
		{0x80000000, 0, 0},
	}
	for _, test := range eqTests {
		if got := constantTimeEq(test.a, test.b); got != test.want {
			t.Errorf("constantTimeEq(%x, %x) = %d, want %d", test.a, test.b,
				got, test.want)
		}
	}

	zeroTests := []struct {
		v    uint64
		want uint32
	}{
		{0, 1},
		{1, 0},
		{1 << 63, 0},
		{0xffffffffffffffff, 0},
	}
	for _, test := range zeroTests {
		if got := constantTimeIsZero64(test.v); got != test.want {
			t.Errorf("constantTimeIsZero64(%x) = %d, want %d", test.v, got,
				test.want)
		}
	}
}
