package ecckd

import (
	"bytes"
	"encoding/binary"

	"github.com/btcsuite/btcutil/base58"

	secp256k1 "github.com/ModChain/secp256k1-ecdh"
)

const (
	// HardenedBit is set on child indices that derive hardened keys.
	HardenedBit uint32 = 0x80000000

	// serializedKeyLen is the length of a serialized extended key without
	// its checksum.
	//   version (4) || depth (1) || parent fingerprint (4) ||
	//   child num (4) || chain code (32) || key data (33)
	serializedKeyLen = 4 + 1 + 4 + 4 + 32 + 33

	chainCodeLen = 32
)

type ExtendedKey struct {
	Version     KeyVersion
	Depth       uint8
	Fingerprint [4]byte
	ChildNumber uint32 // ser32(i) for i in xi = xpar/i, with xi the key being serialized. (0x00000000 if master key)
	KeyData     []byte // 33 bytes serP(K) for public keys, 32 bytes ser256(k) for private keys
	ChainCode   []byte // 32 bytes, the chain code
}

// FromBitcoinSeed returns a master node for a bitcoin wallet
func FromBitcoinSeed(seed []byte) (*ExtendedKey, error) {
	return FromSeed(seed, []byte("Bitcoin seed"))
}

func FromSeed(seed, masterSecret []byte) (*ExtendedKey, error) {
	if len(seed) < 16 || len(seed) > 64 {
		return nil, ErrInvalidSeed
	}

	key, chainCode, err := hmacCKD(seed, masterSecret)
	if err != nil {
		return nil, ErrInvalidMasterKey
	}
	keyData := key.Bytes()
	key.Zero()

	res := &ExtendedKey{
		Version:     BitcoinMainnetPrivate,
		Depth:       0,
		Fingerprint: [4]byte{0, 0, 0, 0},
		ChildNumber: 0,
		KeyData:     keyData[:],
		ChainCode:   chainCode,
	}
	return res, nil
}

// FromPublicKey returns a public master node for the given key and chain code.
// Only non-hardened children can be derived from it.
func FromPublicKey(pubKey *secp256k1.PublicKey, chainCode []byte) (*ExtendedKey, error) {
	if pubKey == nil || !pubKey.IsOnCurve() {
		return nil, ErrInvalidKey
	}
	if len(chainCode) != chainCodeLen {
		return nil, ErrInvalidChainCode
	}

	return &ExtendedKey{
		Version:   BitcoinMainnetPublic,
		KeyData:   pubKey.SerializeCompressed(),
		ChainCode: append([]byte(nil), chainCode...),
	}, nil
}

func FromString(str string) (*ExtendedKey, error) {
	bin := base58.Decode(str)
	if len(bin) == 0 {
		return nil, ErrInvalidEncoding
	}

	e := &ExtendedKey{}
	return e, e.UnmarshalBinary(bin)
}

func (k *ExtendedKey) IsPrivate() bool {
	return k.Version.IsPrivate()
}

// Child derives extended key at a given index i.
// If parent is private, then derived key is also private. If parent is public, then derived is public.
//
// If i&HardenedBit is set, then hardened key is generated.
// You can only generate hardened keys from private parent keys.
// If you try generating hardened key form public parent key, ErrDerivingHardenedFromPublic is returned.
//
// There are four CKD (child key derivation) scenarios:
// 1) Private extended key -> Hardened child private extended key
// 2) Private extended key -> Non-hardened child private extended key
// 3) Public extended key -> Non-hardened child public extended key
// 4) Public extended key -> Hardened child public extended key (INVALID!)
func (k *ExtendedKey) Child(i uint32) (*ExtendedKey, error) {
	child, il, err := k.child(i)
	il.Zero()
	return child, err
}

// child derives the child at index i and also returns the IL tweak that was
// applied to the parent key.
func (k *ExtendedKey) child(i uint32) (*ExtendedKey, secp256k1.ModNScalar, error) {
	var il secp256k1.ModNScalar
	if k.Depth == 0xff {
		return nil, il, ErrMaxDepthExceeded
	}

	// A hardened child may not be created from a public extended key (Case #4).
	isChildHardened := i&HardenedBit == HardenedBit
	if !k.IsPrivate() && isChildHardened {
		return nil, il, ErrDerivingHardenedFromPublic
	}

	parentPub, err := k.pubKeyBytes()
	if err != nil {
		return nil, il, err
	}

	keyLen := 33
	seed := make([]byte, keyLen+4)
	if isChildHardened {
		// Case #1: 0x00 || ser256(parentKey) || ser32(i)
		copy(seed[1:], k.KeyData)
	} else {
		// Case #2 and #3: serP(parentPubKey) || ser32(i)
		copy(seed, parentPub)
	}
	binary.BigEndian.PutUint32(seed[keyLen:], i)

	il, chainCode, err := hmacCKD(seed, k.ChainCode)
	zeroBytes(seed)
	if err != nil {
		return nil, il, err
	}

	child := &ExtendedKey{
		ChainCode:   chainCode,
		Depth:       k.Depth + 1,
		ChildNumber: i,
		Version:     k.Version,
	}
	// The fingerprint for the derived child is the first 4 bytes of the
	// parent's public key hash.
	copy(child.Fingerprint[:], rmd160sha256(parentPub))

	if k.IsPrivate() {
		// Case #1 or #2: childKey = parse256(IL) + parentKey
		parentKey, err := k.privScalar()
		if err != nil {
			return nil, il, err
		}
		var childKey secp256k1.ModNScalar
		childKey.Add2(&il, &parentKey)
		parentKey.Zero()
		if childKey.IsZero() {
			return nil, il, ErrInvalidKey
		}

		// ModNScalar serializes to exactly 32 bytes, so the key data never
		// needs padding before it is fed back into the next derivation.
		keyData := childKey.Bytes()
		childKey.Zero()
		child.KeyData = keyData[:]
		return child, il, nil
	}

	// Case #3: childKey = serP(point(parse256(IL)) + parentKey)
	pubKey, err := secp256k1.ParsePubKey(k.KeyData)
	if err != nil {
		return nil, il, err
	}
	var tweak, parent, sum secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultConst(&il, &tweak)
	pubKey.AsJacobian(&parent)
	secp256k1.AddConst(&tweak, &parent, &sum)
	if sum.IsInfinity() {
		return nil, il, ErrInvalidKey
	}
	sum.ToAffine()
	child.KeyData = secp256k1.NewPublicKey(&sum.X, &sum.Y).SerializeCompressed()
	child.Version = k.Version.ToPublic()
	return child, il, nil
}

// Derive returns a derived child key at a given path
func (k *ExtendedKey) Derive(path []uint32) (*ExtendedKey, error) {
	_, extKey, err := k.DeriveWithIL(path)
	return extKey, err
}

// DeriveWithIL returns a derived child key at a given path along with the sum
// of the IL tweaks applied along the way.  For a public derivation the child
// public key equals the parent public key plus il*G.
func (k *ExtendedKey) DeriveWithIL(path []uint32) (*secp256k1.ModNScalar, *ExtendedKey, error) {
	total := new(secp256k1.ModNScalar)
	extKey := k
	for _, i := range path {
		child, il, err := extKey.child(i)
		if err != nil {
			return nil, nil, ErrDerivingChild
		}
		total.Add(&il)
		il.Zero()
		extKey = child
	}

	return total, extKey, nil
}

// DerivePath parses a path such as m/0'/1 and derives the key it names.
func (k *ExtendedKey) DerivePath(path string) (*ExtendedKey, error) {
	indices, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	return k.Derive(indices)
}

// Public returns a new extended public key from a give extended private key.
// If the input extended key is already public, it will be returned unaltered.
func (k *ExtendedKey) Public() (*ExtendedKey, error) {
	// Already an extended public key.
	if !k.IsPrivate() {
		return k, nil
	}

	// Convert it to an extended public key.  The key for the new extended
	// key will simply be the pubkey of the current extended private key.
	pub, err := k.pubKeyBytes()
	if err != nil {
		return nil, err
	}
	return &ExtendedKey{
		Version:     k.Version.ToPublic(),
		KeyData:     pub,
		ChainCode:   append([]byte(nil), k.ChainCode...),
		Fingerprint: k.Fingerprint,
		Depth:       k.Depth,
		ChildNumber: k.ChildNumber,
	}, nil
}

// PubKey returns the public key of the extended key.
func (k *ExtendedKey) PubKey() (*secp256k1.PublicKey, error) {
	pub, err := k.pubKeyBytes()
	if err != nil {
		return nil, err
	}
	return secp256k1.ParsePubKey(pub)
}

// PrivKey returns the private key of an extended private key.
func (k *ExtendedKey) PrivKey() (*secp256k1.PrivateKey, error) {
	s, err := k.privScalar()
	if err != nil {
		return nil, err
	}
	return secp256k1.NewPrivateKey(&s), nil
}

// SharedSecret runs ECDH between the extended private key and the passed peer
// public key and writes the secret to result.  A nil hash selects the default
// SHA-256 hash step.
func (k *ExtendedKey) SharedSecret(result []byte, peer *secp256k1.PublicKey, hash secp256k1.HashFunc, data any) error {
	if !k.IsPrivate() {
		return ErrNotPrivate
	}
	if len(k.KeyData) != 32 {
		return ErrInvalidKey
	}
	var priv [32]byte
	copy(priv[:], k.KeyData)
	defer zeroBytes(priv[:])
	return secp256k1.DefaultContext().SharedSecret(result, peer, &priv, hash, data)
}

// Zero clears the private key material of the extended key.
func (k *ExtendedKey) Zero() {
	if k.IsPrivate() {
		zeroBytes(k.KeyData)
	}
	zeroBytes(k.ChainCode)
}

// MarshalBinary encodes the key in standard format that can be base58 encoded for humans
func (k *ExtendedKey) MarshalBinary() ([]byte, error) {
	pub, err := k.pubKeyBytes()
	if err != nil {
		return nil, err
	}

	var childNumBytes [4]byte
	binary.BigEndian.PutUint32(childNumBytes[:], k.ChildNumber)

	// The serialized format is:
	//   version (4) || depth (1) || parent fingerprint (4)) ||
	//   child num (4) || chain code (32) || key data (33) || checksum (4)
	serializedBytes := make([]byte, 0, serializedKeyLen+4)
	serializedBytes = append(serializedBytes, k.Version[:]...)
	serializedBytes = append(serializedBytes, k.Depth)
	serializedBytes = append(serializedBytes, k.Fingerprint[:]...)
	serializedBytes = append(serializedBytes, childNumBytes[:]...)
	serializedBytes = append(serializedBytes, k.ChainCode...)
	if k.IsPrivate() {
		serializedBytes = append(serializedBytes, 0x00)
		serializedBytes = paddedAppend(32, serializedBytes, k.KeyData)
	} else {
		serializedBytes = append(serializedBytes, pub...)
	}

	checkSum := doubleSha256(serializedBytes)[:4]
	serializedBytes = append(serializedBytes, checkSum...)
	return serializedBytes, nil
}

func (k *ExtendedKey) String() string {
	bin, err := k.MarshalBinary()
	if err != nil {
		return ""
	}
	return base58.Encode(bin)
}

// pubKeyBytes returns bytes for the serialized compressed public key associated
// with this extended key.
//
// When the extended key is already a public key, the key is simply returned as
// is since it's already in the correct form.  However, when the extended key is
// a private key, the public key is computed with the constant-time base point
// multiplication.
func (k *ExtendedKey) pubKeyBytes() ([]byte, error) {
	// Just return the key if it's already an extended public key.
	if !k.IsPrivate() {
		return k.KeyData, nil
	}

	s, err := k.privScalar()
	if err != nil {
		return nil, err
	}
	priv := secp256k1.NewPrivateKey(&s)
	s.Zero()
	pub := priv.PubKey().SerializeCompressed()
	priv.Zero()
	return pub, nil
}

// privScalar returns the private key data as a scalar after ensuring it is a
// usable private key.
func (k *ExtendedKey) privScalar() (secp256k1.ModNScalar, error) {
	if !k.IsPrivate() {
		return secp256k1.ModNScalar{}, ErrNotPrivate
	}
	if len(k.KeyData) != 32 {
		return secp256k1.ModNScalar{}, ErrInvalidKey
	}
	var b [32]byte
	copy(b[:], k.KeyData)
	s, ok := secp256k1.ParsePrivateScalar(&b)
	zeroBytes(b[:])
	if !ok {
		return s, ErrInvalidKey
	}
	return s, nil
}

func (k *ExtendedKey) UnmarshalBinary(data []byte) error {
	if len(data) != serializedKeyLen+4 {
		return ErrInvalidKeyLen
	}

	// The serialized format is:
	//   version (4) || depth (1) || parent fingerprint (4)) ||
	//   child num (4) || chain code (32) || key data (33) || checksum (4)

	// Split the payload and checksum up and ensure the checksum matches.
	payload := data[:len(data)-4]
	checkSum := data[len(data)-4:]
	expectedCheckSum := doubleSha256(payload)[:4]
	if !bytes.Equal(checkSum, expectedCheckSum) {
		return ErrBadChecksum
	}

	// Deserialize each of the payload fields.
	var version KeyVersion
	copy(version[:], payload[:4])
	if !version.IsKnown() {
		return ErrUnknownVersion
	}
	depth := payload[4:5][0]
	var fingerprint [4]byte
	copy(fingerprint[:], payload[5:9])
	childNumber := binary.BigEndian.Uint32(payload[9:13])
	chainCode := payload[13:45]
	keyData := payload[45:78]

	// The key data is a private key if it starts with 0x00.  Serialized
	// compressed pubkeys either start with 0x02 or 0x03.
	isPrivate := keyData[0] == 0x00
	if isPrivate != version.IsPrivate() {
		return ErrInvalidPrivateFlag
	}

	if isPrivate {
		// Ensure the private key is valid.  It must be within the range
		// of the order of the secp256k1 curve and not be 0.
		keyData = keyData[1:]
		var b [32]byte
		copy(b[:], keyData)
		s, ok := secp256k1.ParsePrivateScalar(&b)
		s.Zero()
		zeroBytes(b[:])
		if !ok {
			return ErrInvalidKey
		}
	} else {
		// Ensure the public key parses correctly and is actually on the
		// secp256k1 curve.
		_, err := secp256k1.ParsePubKey(keyData)
		if err != nil {
			return err
		}
	}

	k.Version = version
	k.KeyData = append([]byte(nil), keyData...)
	k.ChainCode = append([]byte(nil), chainCode...)
	k.Fingerprint = fingerprint
	k.Depth = depth
	k.ChildNumber = childNumber
	return nil
}
