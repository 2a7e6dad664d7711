// Copyright (c) 2015-2023 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package secp256k1

import "sync"

// generatorTable holds the precomputed multiples of the base point used by
// ScalarBaseMultConst.  Window i holds (2j+1) * 16^i * G for j in [0, 8).
type generatorTable struct {
	windows [numWindows]oddMultiples

	// top is 16^64 * G, the contribution of the implicit leading digit.
	top AffinePoint

	// negG is -G, used to remove the skew of even scalars.
	negG AffinePoint
}

// newGeneratorTable computes the generator table.  All of the points involved
// are public, and the whole table is converted to affine with one inversion.
func newGeneratorTable() *generatorTable {
	jacobian := make([]JacobianPoint, numWindows*windowTableSize+1)

	var base, two JacobianPoint
	base.X.Set(generatorX)
	base.Y.Set(generatorY)
	base.Z.SetInt(1)
	for i := 0; i < numWindows; i++ {
		row := jacobian[i*windowTableSize : (i+1)*windowTableSize]
		DoubleConst(&base, &two)
		row[0].Set(&base)
		for j := 1; j < windowTableSize; j++ {
			AddConst(&row[j-1], &two, &row[j])
		}
		for b := 0; b < windowBits; b++ {
			DoubleConst(&base, &base)
		}
	}
	jacobian[len(jacobian)-1].Set(&base)

	affine := make([]AffinePoint, len(jacobian))
	batchToAffine(jacobian, affine)

	table := new(generatorTable)
	for i := 0; i < numWindows; i++ {
		copy(table.windows[i][:], affine[i*windowTableSize:(i+1)*windowTableSize])
	}
	table.top = affine[len(affine)-1]
	table.negG.X.Set(generatorX)
	table.negG.Y.NegateVal(generatorY).Normalize()
	return table
}

// Context bundles the immutable precomputed state needed by the operations in
// this package along with the configured defaults.
//
// A Context is safe for concurrent use by multiple goroutines.  Nothing in it
// is modified after NewContext returns, so no locking is involved.
type Context struct {
	gen         *generatorTable
	defaultHash HashFunc
}

// ContextOption configures a Context created by NewContext.
type ContextOption func(*Context)

// WithDefaultHash sets the hash step used by ECDH and SharedSecret when the
// caller passes a nil HashFunc.  It defaults to SHA256Hash.
func WithDefaultHash(hash HashFunc) ContextOption {
	return func(ctx *Context) {
		if hash != nil {
			ctx.defaultHash = hash
		}
	}
}

// NewContext builds the precomputed generator table and returns a ready to
// use context.  Building the table is comparatively expensive, so a context
// should be created once and shared; DefaultContext provides a process-wide
// one.
func NewContext(opts ...ContextOption) *Context {
	ctx := &Context{
		gen:         newGeneratorTable(),
		defaultHash: SHA256Hash,
	}
	for _, opt := range opts {
		opt(ctx)
	}
	return ctx
}

var (
	defaultCtx     *Context
	defaultCtxOnce sync.Once
)

// DefaultContext returns the process-wide context, building it on first use.
func DefaultContext() *Context {
	defaultCtxOnce.Do(func() {
		defaultCtx = NewContext()
	})
	return defaultCtx
}

// ScalarBaseMultConst multiplies k*G where G is the base point of the group
// and stores the result in the provided Jacobian point in constant time.
//
// The scalar is recoded exactly as in ScalarMultConst, but since every window
// has its own table of generator multiples no doublings are required: the
// result is the sum of one entry per window, each selected with a full table
// scan, plus the implicit leading term 16^64*G.
//
// The resulting point is NOT normalized to affine coordinates.
func (ctx *Context) ScalarBaseMultConst(k *ModNScalar, result *JacobianPoint) {
	digits, skew := recodeOdd(k)

	var acc, adjusted JacobianPoint
	var entry AffinePoint
	acc.setAffine(&ctx.gen.top)
	for i := 0; i < numWindows; i++ {
		ctx.gen.windows[i].lookup(digits[i], &entry)
		addMixedConst(&acc, &entry, &acc)
	}
	addMixedConst(&acc, &ctx.gen.negG, &adjusted)
	acc.CMov(&adjusted, skew)
	result.Set(&acc)

	digits = [numWindows]int32{}
	entry = AffinePoint{}
	acc.Zero()
	adjusted.Zero()
}

// ScalarBaseMultConst multiplies k*G using the default context.  See
// Context.ScalarBaseMultConst.
func ScalarBaseMultConst(k *ModNScalar, result *JacobianPoint) {
	DefaultContext().ScalarBaseMultConst(k, result)
}
