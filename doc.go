// Copyright (c) 2013-2014 The btcsuite developers
// Copyright (c) 2015-2023 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package secp256k1 implements constant-time elliptic curve Diffie-Hellman key
agreement over the secp256k1 curve in pure Go.

Given a peer's public key and a 32-byte private scalar, ECDH computes the shared
point R = d*P and passes its affine coordinates to a hash step that produces
the final secret.  By default the secret is the SHA-256 digest of the 33-byte
compressed serialization of R, which matches the widely deployed libsecp256k1
behavior.  See https://www.secg.org/sec2-v2.pdf for details on the curve.

An overview of the features provided by this package are as follows:

  - FieldVal type for constant time arithmetic modulo the secp256k1 field prime
  - ModNScalar type for constant time arithmetic modulo the group order
  - Elliptic curve operations in Jacobian projective coordinates
  - Point addition and doubling with exceptional cases resolved by masks
  - Constant time scalar multiplication with an arbitrary point using a
    regular signed fixed-window recoding
  - Constant time scalar multiplication with the base point using a
    precomputed table held by an immutable Context
  - Public key parsing per ANSI X9.62-1998 (uncompressed, compressed, and
    hybrid) and serialization (uncompressed and compressed)
  - Pluggable hash steps: SHA-256 (default), raw x coordinate, BLAKE-256, and
    HKDF-SHA256 with caller supplied salt and info

Constant Time

Every operation that touches the private scalar executes the same sequence of
field operations and the same memory access pattern regardless of the scalar's
value.  Table entries are selected by scanning the whole table with masks and
conditional moves replace branches on secret bits.  The only data-dependent
branches are on public values such as the validity of a public key and on the
final rejection of the point at infinity.

Errors

Failures are reported as values of type Error which wrap an ErrorKind, so the
reason can be inspected with errors.Is and errors.As.  The ECDH functions
collapse every failure into a single false result for callers that only need a
success indicator.

A comprehensive suite of tests is provided to ensure proper functionality.
*/
package secp256k1
