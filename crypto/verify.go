// Package crypto is the collaborator contract from spec.md §4.2: it signs
// and verifies transactions over ECDSA P-256 and derives Base58Check
// addresses from public keys. Signatures and public keys are never stored
// by the chain package; they are presented at submission time, checked
// here, and discarded.
package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/hex"
	"math/big"

	"github.com/pkg/errors"

	"github.com/ikuhiroo/pyblockchain/codec"
	"github.com/ikuhiroo/pyblockchain/internal/log"
)

var logger = log.NewModuleLogger(log.ModuleCrypto)

var (
	errInvalidPublicKeyLength = errors.New("public key must be 64 bytes (X||Y)")
	errInvalidSignatureLength = errors.New("signature must be 64 bytes (r||s)")
)

// curve is the elliptic curve every key and signature in this module uses.
func curve() elliptic.Curve { return elliptic.P256() }

// GenerateKey creates a new P-256 keypair for a node's mining address.
func GenerateKey() (*ecdsa.PrivateKey, error) {
	return ecdsa.GenerateKey(curve(), rand.Reader)
}

// signingMaterial is the canonical {sender, recipient, value} mapping a
// wallet signs and this package re-derives to verify a signature. Field
// names match the wire payload (spec.md §6), not the abstract sender/
// recipient/value names of §3 — see spec.md Open Question 3.
func signingMaterial(sender, recipient string, value float64) string {
	return codec.Object(
		codec.Field{Key: "sender_blockchain_address", Value: codec.Str(sender)},
		codec.Field{Key: "recipient_blockchain_address", Value: codec.Str(recipient)},
		codec.Field{Key: "value", Value: codec.Float(value)},
	)
}

// SigningDigest returns the 32-byte SHA-256 digest that a wallet signs with
// its private key and that Verify reconstructs from the submitted fields.
func SigningDigest(sender, recipient string, value float64) [32]byte {
	return codec.HashBytes(signingMaterial(sender, recipient, value))
}

// Verify checks a hex-encoded 64-byte P-256 signature (r||s) against a
// hex-encoded 64-byte uncompressed public key (X||Y) over the canonical
// {sender, recipient, value} digest. Any decoding or verification failure
// is treated as rejection; Verify never panics on attacker-controlled input.
func Verify(sender, recipient string, value float64, publicKeyHex, signatureHex string) bool {
	pub, err := decodePublicKey(publicKeyHex)
	if err != nil {
		logger.Debug("rejecting signature: bad public key", "err", err)
		return false
	}
	r, s, err := decodeSignature(signatureHex)
	if err != nil {
		logger.Debug("rejecting signature: bad signature encoding", "err", err)
		return false
	}
	digest := SigningDigest(sender, recipient, value)
	return ecdsa.Verify(pub, digest[:], r, s)
}

// Sign produces a hex-encoded 64-byte (r||s) signature over the canonical
// {sender, recipient, value} digest. It exists mainly for tests; production
// wallets are an external collaborator per spec.md §1.
func Sign(priv *ecdsa.PrivateKey, sender, recipient string, value float64) (string, error) {
	digest := SigningDigest(sender, recipient, value)
	r, s, err := ecdsa.Sign(rand.Reader, priv, digest[:])
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(pad32(r.Bytes())) + hex.EncodeToString(pad32(s.Bytes())), nil
}

func decodePublicKey(publicKeyHex string) (*ecdsa.PublicKey, error) {
	raw, err := hex.DecodeString(publicKeyHex)
	if err != nil {
		return nil, errors.Wrap(err, "decode public key")
	}
	if len(raw) != 64 {
		return nil, errInvalidPublicKeyLength
	}
	return &ecdsa.PublicKey{
		Curve: curve(),
		X:     new(big.Int).SetBytes(raw[:32]),
		Y:     new(big.Int).SetBytes(raw[32:]),
	}, nil
}

func decodeSignature(signatureHex string) (*big.Int, *big.Int, error) {
	raw, err := hex.DecodeString(signatureHex)
	if err != nil {
		return nil, nil, errors.Wrap(err, "decode signature")
	}
	if len(raw) != 64 {
		return nil, nil, errInvalidSignatureLength
	}
	return new(big.Int).SetBytes(raw[:32]), new(big.Int).SetBytes(raw[32:]), nil
}

func pad32(b []byte) []byte {
	if len(b) >= 32 {
		return b[len(b)-32:]
	}
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}
