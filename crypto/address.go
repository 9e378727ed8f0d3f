package crypto

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcutil/base58"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // RIPEMD-160 is required by spec.md §4.2's address derivation.
)

// MarshalPublicKey renders pub as the 64-byte X||Y encoding Verify and
// DeriveAddress expect.
func MarshalPublicKey(pub *ecdsa.PublicKey) []byte {
	buf := make([]byte, 64)
	pub.X.FillBytes(buf[:32])
	pub.Y.FillBytes(buf[32:])
	return buf
}

// PublicKeyHex hex-encodes pub's 64-byte marshaled form.
func PublicKeyHex(pub *ecdsa.PublicKey) string {
	return hex.EncodeToString(MarshalPublicKey(pub))
}

// DeriveAddress computes the Base58Check blockchain address for a public
// key: SHA-256 -> RIPEMD-160 -> prepend 0x00 -> double SHA-256 checksum
// (first 4 bytes) -> concatenate payload and checksum -> Base58.
func DeriveAddress(pub *ecdsa.PublicKey) string {
	return deriveAddress(MarshalPublicKey(pub))
}

func deriveAddress(publicKey []byte) string {
	shaDigest := sha256.Sum256(publicKey)

	ripemd := ripemd160.New()
	ripemd.Write(shaDigest[:])
	payload := ripemd.Sum(nil)

	versioned := append([]byte{0x00}, payload...)
	checksum := doubleSHA256(versioned)[:4]
	full := append(versioned, checksum...)

	return base58.Encode(full)
}

func doubleSHA256(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:]
}
