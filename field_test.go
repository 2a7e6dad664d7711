// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2023 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package secp256k1

import (
	"encoding/binary"
	"encoding/hex"
	"math/big"
	"math/rand"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

// hexToBytes converts the passed hex string into bytes and will panic if there
// is an error.  This is only provided for the hard-coded constants so errors in
// the source code can be detected. It will only (and must only) be called with
// hard-coded values.
func hexToBytes(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("invalid hex in source file: " + s)
	}
	return b
}

// fromHex converts the passed hex string into a big integer pointer and will
// panic is there is an error.  This is only provided for the hard-coded
// constants so errors in the source code can bet detected. It will only (and
// must only) be called for initialization purposes.
func fromHex(s string) *big.Int {
	if s == "" {
		return big.NewInt(0)
	}
	r, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("invalid hex in source file: " + s)
	}
	return r
}

var (
	// fieldPrime is the secp256k1 field prime as a big integer.
	fieldPrime = fromHex("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f")

	// two256 is 2^256.
	two256 = new(big.Int).Lsh(big.NewInt(1), 256)
)

// rawFieldVal loads the passed big-endian bytes into a field value without
// reducing them, which produces weakly reduced values >= P when the bytes
// encode such a value.
func rawFieldVal(b *[32]byte) FieldVal {
	var f FieldVal
	f.n[0] = binary.BigEndian.Uint64(b[24:32])
	f.n[1] = binary.BigEndian.Uint64(b[16:24])
	f.n[2] = binary.BigEndian.Uint64(b[8:16])
	f.n[3] = binary.BigEndian.Uint64(b[0:8])
	return f
}

// rawFieldValHex is rawFieldVal for a hard-coded hex string.
func rawFieldValHex(s string) FieldVal {
	var b [32]byte
	raw := hexToBytes(s)
	copy(b[32-len(raw):], raw)
	return rawFieldVal(&b)
}

// fieldToBig returns the normalized field value as a big integer.
func fieldToBig(f *FieldVal) *big.Int {
	return new(big.Int).SetBytes(f.Bytes()[:])
}

// bigToField returns the passed big integer, which must be in [0, 2^256), as a
// field value.
func bigToField(v *big.Int) FieldVal {
	var b [32]byte
	v.FillBytes(b[:])
	return rawFieldVal(&b)
}

// randFieldVal returns a random field value along with its big integer
// equivalent modulo P.  Roughly one in eight results is forced into the weakly
// reduced range [P, 2^256) so the arithmetic is exercised with such inputs.
func randFieldVal(rng *rand.Rand) (FieldVal, *big.Int) {
	var b [32]byte
	rng.Read(b[:])
	if rng.Intn(8) == 0 {
		for i := 0; i < 27; i++ {
			b[i] = 0xff
		}
		b[27] = 0xff
	}
	f := rawFieldVal(&b)
	v := new(big.Int).SetBytes(b[:])
	return f, v.Mod(v, fieldPrime)
}

// TestFieldSetBytes ensures that setting a field value to a 256-bit big-endian
// unsigned integer reduces it modulo the prime and reports the overflow.
func TestFieldSetBytes(t *testing.T) {
	tests := []struct {
		name     string // test description
		in       string // hex encoded test value
		expected string // expected normalized hex
		overflow bool   // expected overflow result
	}{{
		name:     "zero",
		in:       "00",
		expected: "0000000000000000000000000000000000000000000000000000000000000000",
		overflow: false,
	}, {
		name:     "one",
		in:       "01",
		expected: "0000000000000000000000000000000000000000000000000000000000000001",
		overflow: false,
	}, {
		name:     "field prime - 1",
		in:       "fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2e",
		expected: "fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2e",
		overflow: false,
	}, {
		name:     "field prime",
		in:       "fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f",
		expected: "0000000000000000000000000000000000000000000000000000000000000000",
		overflow: true,
	}, {
		name:     "field prime + 1",
		in:       "fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc30",
		expected: "0000000000000000000000000000000000000000000000000000000000000001",
		overflow: true,
	}, {
		name:     "2^256 - 1",
		in:       "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
		expected: "00000000000000000000000000000000000000000000000000000001000003d0",
		overflow: true,
	}, {
		name:     "2^255",
		in:       "8000000000000000000000000000000000000000000000000000000000000000",
		expected: "8000000000000000000000000000000000000000000000000000000000000000",
		overflow: false,
	}}

	for _, test := range tests {
		var f FieldVal
		overflow := f.SetByteSlice(hexToBytes(test.in))
		if overflow != test.overflow {
			t.Errorf("%s: unexpected overflow -- got %v, want %v", test.name,
				overflow, test.overflow)
			continue
		}
		if got := f.String(); got != test.expected {
			t.Errorf("%s: unexpected result\ngot: %s\nwant: %s", test.name, got,
				test.expected)
			continue
		}

		// The array variant must agree.
		var b [32]byte
		raw := hexToBytes(test.in)
		copy(b[32-len(raw):], raw)
		var f2 FieldVal
		if got := f2.SetBytes(&b) == 1; got != test.overflow {
			t.Errorf("%s: unexpected array overflow -- got %v, want %v",
				test.name, got, test.overflow)
			continue
		}
		if !f2.Equals(&f) {
			t.Errorf("%s: mismatched array result %v", test.name, f2)
		}
	}
}

// TestFieldSetByteSliceTruncates ensures slices longer than 32 bytes only use
// the first 32 bytes and shorter ones are left padded.
func TestFieldSetByteSliceTruncates(t *testing.T) {
	long := hexToBytes("00000000000000000000000000000000000000000000000000000000000000" +
		"01ffff")
	var f FieldVal
	f.SetByteSlice(long)
	if !f.IsOne() {
		t.Fatalf("unexpected truncated value: %v", f)
	}

	f.SetByteSlice([]byte{0x01, 0x00})
	var want FieldVal
	want.SetInt(256)
	if !f.Equals(&want) {
		t.Fatalf("unexpected padded value: %v", f)
	}
}

// TestFieldNormalize ensures weakly reduced values are brought into the
// canonical range and canonical values are left alone.
func TestFieldNormalize(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		normalized string
	}{{
		name:       "zero",
		raw:        "0000000000000000000000000000000000000000000000000000000000000000",
		normalized: "0000000000000000000000000000000000000000000000000000000000000000",
	}, {
		name:       "prime",
		raw:        "fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f",
		normalized: "0000000000000000000000000000000000000000000000000000000000000000",
	}, {
		name:       "prime + 0x1000003d0",
		raw:        "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
		normalized: "00000000000000000000000000000000000000000000000000000001000003d0",
	}, {
		name:       "prime - 1",
		raw:        "fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2e",
		normalized: "fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2e",
	}, {
		name:       "word boundary",
		raw:        "ffffffffffffffffffffffffffffffffffffffffffffffffffffffff00000000",
		normalized: "00000000000000000000000000000000000000000000000000000000000003d1",
	}}

	for _, test := range tests {
		f := rawFieldValHex(test.raw)
		f.Normalize()
		want := rawFieldValHex(test.normalized)
		if f.n != want.n {
			t.Errorf("%s: wrong result\ngot: %s\nwant: %s", test.name,
				spew.Sdump(f.n), spew.Sdump(want.n))
		}
	}
}

// TestFieldPredicates ensures the zero, one, odd, and equality predicates treat
// weakly reduced values as the value they are congruent to.
func TestFieldPredicates(t *testing.T) {
	prime := rawFieldValHex("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f")
	primePlusOne := rawFieldValHex("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc30")
	primePlusTwo := rawFieldValHex("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc31")

	if !prime.IsZero() || prime.IsZeroBit() != 1 {
		t.Errorf("unweakened prime is not zero")
	}
	if !primePlusOne.IsOne() || primePlusOne.IsOneBit() != 1 {
		t.Errorf("prime + 1 is not one")
	}
	if !primePlusOne.IsOdd() || primePlusOne.IsOddBit() != 1 {
		t.Errorf("prime + 1 is not odd")
	}
	if primePlusTwo.IsOdd() {
		t.Errorf("prime + 2 is odd")
	}

	var two FieldVal
	two.SetInt(2)
	if !two.Equals(&primePlusTwo) || two.EqualsBit(&primePlusTwo) != 1 {
		t.Errorf("2 != prime + 2")
	}
	if two.Equals(&primePlusOne) {
		t.Errorf("2 == prime + 1")
	}

	// The comparisons must not modify the receiver.
	want := rawFieldValHex("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc31")
	if primePlusTwo.n != want.n {
		t.Errorf("predicate modified the receiver: %v", spew.Sdump(primePlusTwo.n))
	}
}

// TestFieldCMov ensures conditional moves select the correct value for both
// flag values.
func TestFieldCMov(t *testing.T) {
	var a, b FieldVal
	a.SetInt(1234)
	b.SetInt(5678)

	var r FieldVal
	r.Set(&a).CMov(&b, 0)
	if !r.Equals(&a) {
		t.Errorf("flag 0 moved the value: %v", r)
	}
	r.Set(&a).CMov(&b, 1)
	if !r.Equals(&b) {
		t.Errorf("flag 1 did not move the value: %v", r)
	}
}

// TestFieldArithmetic ensures the field arithmetic matches a big integer
// oracle for edge values and for weakly reduced inputs.
func TestFieldArithmetic(t *testing.T) {
	edge := []string{
		"0000000000000000000000000000000000000000000000000000000000000000",
		"0000000000000000000000000000000000000000000000000000000000000001",
		"0000000000000000000000000000000000000000000000000000000000000002",
		"fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2e",
		"fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f",
		"fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc30",
		"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
		"00000000000000000000000000000000000000000000000000000001000003d1",
		"8000000000000000000000000000000000000000000000000000000000000000",
		"0000000000000000ffffffffffffffff0000000000000000ffffffffffffffff",
	}
	for _, aHex := range edge {
		for _, bHex := range edge {
			a := rawFieldValHex(aHex)
			b := rawFieldValHex(bHex)
			checkFieldOps(t, &a, &b, fromHex(aHex), fromHex(bHex))
		}
	}
}

// TestFieldArithmeticRandom ensures the field arithmetic matches a big integer
// oracle for random values.
func TestFieldArithmeticRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 2000; i++ {
		a, aBig := randFieldVal(rng)
		b, bBig := randFieldVal(rng)
		if !checkFieldOps(t, &a, &b, aBig, bBig) {
			break
		}
	}
}

// checkFieldOps compares every binary and unary operation on a and b with the
// big integer oracle.  It returns false after the first mismatch.
func checkFieldOps(t *testing.T, a, b *FieldVal, aBig, bBig *big.Int) bool {
	t.Helper()

	mod := func(v *big.Int) *big.Int { return v.Mod(v, fieldPrime) }
	check := func(op string, got *FieldVal, want *big.Int) bool {
		t.Helper()
		if fieldToBig(got).Cmp(want) != 0 {
			t.Errorf("%s mismatch for a=%x b=%x\ngot: %v\nwant: %x", op, aBig,
				bBig, got, want)
			return false
		}
		return true
	}

	var r FieldVal
	ok := check("add", r.Add2(a, b), mod(new(big.Int).Add(aBig, bBig)))
	ok = ok && check("sub", r.Sub2(a, b), mod(new(big.Int).Sub(aBig, bBig)))
	ok = ok && check("mul", r.Mul2(a, b), mod(new(big.Int).Mul(aBig, bBig)))
	ok = ok && check("square", r.SquareVal(a), mod(new(big.Int).Mul(aBig, aBig)))
	ok = ok && check("negate", r.NegateVal(a), mod(new(big.Int).Neg(aBig)))
	ok = ok && check("mulint", r.Set(a).MulInt(8),
		mod(new(big.Int).Lsh(aBig, 3)))
	ok = ok && check("mulint255", r.Set(a).MulInt(255),
		mod(new(big.Int).Mul(aBig, big.NewInt(255))))
	ok = ok && check("addint", r.Set(a).AddInt(7),
		mod(new(big.Int).Add(aBig, big.NewInt(7))))

	// In place variants must agree with the two operand forms.
	ok = ok && check("add in place", r.Set(a).Add(b), mod(new(big.Int).Add(aBig, bBig)))
	ok = ok && check("sub in place", r.Set(a).Sub(b), mod(new(big.Int).Sub(aBig, bBig)))
	ok = ok && check("mul in place", r.Set(a).Mul(b), mod(new(big.Int).Mul(aBig, bBig)))

	wantInv := big.NewInt(0)
	if aBig.Sign() != 0 {
		wantInv.ModInverse(aBig, fieldPrime)
	}
	ok = ok && check("inverse", r.Set(a).Inverse(), wantInv)
	return ok
}

// TestFieldInverse ensures multiplying a value by its inverse yields one and
// the inverse of zero is zero.
func TestFieldInverse(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 200; i++ {
		a, aBig := randFieldVal(rng)
		if aBig.Sign() == 0 {
			continue
		}
		var inv, prod FieldVal
		inv.Set(&a).Inverse()
		prod.Mul2(&a, &inv)
		if !prod.IsOne() {
			t.Fatalf("a * a^-1 != 1 for a=%x: got %v", aBig, prod)
		}
	}

	var zero FieldVal
	zero.Inverse()
	if !zero.IsZero() {
		t.Fatalf("inverse of zero is not zero: %v", zero)
	}
}

// TestFieldSquareRoot ensures square roots are found exactly for quadratic
// residues and the result flag matches the Legendre symbol.
func TestFieldSquareRoot(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		valid bool
	}{{
		name:  "zero",
		in:    "00",
		valid: true,
	}, {
		name:  "one",
		in:    "01",
		valid: true,
	}, {
		name:  "four",
		in:    "04",
		valid: true,
	}, {
		name:  "minus one is not a residue since p = 3 mod 4",
		in:    "fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2e",
		valid: false,
	}, {
		name:  "gx^3 + 7",
		in:    "4866d6a5ab41ab2c6bcc57ccd3735da5f16f80a548e5e20a44e4e9b8118c26f2",
		valid: true,
	}}

	for _, test := range tests {
		var in, root FieldVal
		in.SetByteSlice(hexToBytes(test.in))
		valid := root.SquareRootVal(&in)
		if valid != test.valid {
			t.Errorf("%s: mismatched validity -- got %v, want %v", test.name,
				valid, test.valid)
			continue
		}
		if !valid {
			continue
		}
		var sq FieldVal
		sq.SquareVal(&root)
		if !sq.Equals(&in) {
			t.Errorf("%s: root squared is %v, want %v", test.name, sq, in)
		}
	}

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		a, aBig := randFieldVal(rng)
		var root FieldVal
		valid := root.SquareRootVal(&a)
		wantValid := big.Jacobi(aBig, fieldPrime) >= 0
		if valid != wantValid {
			t.Fatalf("mismatched validity for %x -- got %v, want %v", aBig,
				valid, wantValid)
		}
		if valid {
			var sq FieldVal
			sq.SquareVal(&root)
			if !sq.Equals(&a) {
				t.Fatalf("root of %x squared is %v", aBig, sq)
			}
		}
	}
}

// TestFieldBytesRoundTrip ensures serializing a normalized value and parsing
// it back yields the same value and PutBytes leaves the receiver unchanged.
func TestFieldBytesRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 100; i++ {
		a, aBig := randFieldVal(rng)
		before := a.n

		var b [32]byte
		a.PutBytes(&b)
		if a.n != before {
			t.Fatalf("PutBytes modified the receiver")
		}
		if new(big.Int).SetBytes(b[:]).Cmp(aBig) != 0 {
			t.Fatalf("PutBytes(%x) = %x", aBig, b)
		}

		var back FieldVal
		if back.SetBytes(&b) != 0 {
			t.Fatalf("normalized bytes %x overflow", b)
		}
		if !back.Equals(&a) {
			t.Fatalf("round trip mismatch: %v != %v", back, a)
		}

		slice := make([]byte, 40)
		a.PutBytesUnchecked(slice[4:])
		if string(slice[4:36]) != string(b[:]) {
			t.Fatalf("PutBytesUnchecked mismatch: %x", slice)
		}
	}
}

// TestFieldMulWideCarry exercises products whose high half is all ones so the
// folding steps propagate the maximum carries.
func TestFieldMulWideCarry(t *testing.T) {
	maxVal := rawFieldValHex("ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")
	maxBig := new(big.Int).Sub(two256, big.NewInt(1))

	var r FieldVal
	r.SquareVal(&maxVal)
	want := new(big.Int).Mul(maxBig, maxBig)
	want.Mod(want, fieldPrime)
	if fieldToBig(&r).Cmp(want) != 0 {
		t.Fatalf("(2^256-1)^2 mismatch: got %v, want %x", r, want)
	}

	// Repeated squaring of a weakly reduced value must remain consistent.
	acc := bigToField(maxBig)
	accBig := new(big.Int).Mod(maxBig, fieldPrime)
	for i := 0; i < 64; i++ {
		acc.Square()
		accBig.Mul(accBig, accBig).Mod(accBig, fieldPrime)
	}
	if fieldToBig(&acc).Cmp(accBig) != 0 {
		t.Fatalf("repeated squaring mismatch: got %v, want %x", acc, accBig)
	}
}
