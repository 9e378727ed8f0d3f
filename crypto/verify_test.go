package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignAndVerifyRoundTrip(t *testing.T) {
	key, err := GenerateKey()
	assert.NoError(t, err)

	sender := DeriveAddress(&key.PublicKey)
	recipient := "recipient-address"

	sig, err := Sign(key, sender, recipient, 1.5)
	assert.NoError(t, err)

	pubHex := PublicKeyHex(&key.PublicKey)
	assert.True(t, Verify(sender, recipient, 1.5, pubHex, sig))
}

func TestVerifyRejectsTamperedValue(t *testing.T) {
	key, _ := GenerateKey()
	sender := DeriveAddress(&key.PublicKey)
	sig, _ := Sign(key, sender, "recipient-address", 1.5)
	pubHex := PublicKeyHex(&key.PublicKey)

	assert.False(t, Verify(sender, "recipient-address", 999.0, pubHex, sig))
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	key, _ := GenerateKey()
	sender := DeriveAddress(&key.PublicKey)
	sig, _ := Sign(key, sender, "recipient-address", 1.5)
	pubHex := PublicKeyHex(&key.PublicKey)

	flipped := []byte(sig)
	flipped[0] ^= 1
	assert.False(t, Verify(sender, "recipient-address", 1.5, pubHex, string(flipped)))
}

func TestVerifyRejectsMalformedEncoding(t *testing.T) {
	assert.False(t, Verify("a", "b", 1.0, "not-hex", "also-not-hex"))
	assert.False(t, Verify("a", "b", 1.0, "aabb", "aabb"))
}

func TestDeriveAddressIsDeterministic(t *testing.T) {
	key, _ := GenerateKey()
	a1 := DeriveAddress(&key.PublicKey)
	a2 := DeriveAddress(&key.PublicKey)
	assert.Equal(t, a1, a2)
	assert.NotEmpty(t, a1)
}
