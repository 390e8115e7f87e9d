package airbnb

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signPayload(t *testing.T, key *rsa.PrivateKey, payload []byte) string {
	t.Helper()
	digest := sha256.Sum256(payload)
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(sig)
}

func TestParseSignatureHeader(t *testing.T) {
	assert.Equal(t, "YWJjZGVm", ParseSignatureHeader(`keyId="wh-1",signature="YWJjZGVm"`))
	assert.Equal(t, "", ParseSignatureHeader("Bearer abc"))
	assert.Equal(t, "", ParseSignatureHeader(""))
}

func TestCanonicalPayload(t *testing.T) {
	payload := CanonicalPayload("api.example.com", "/webhooks/airbnb", "post",
		"Mon, 02 Jan 2006 15:04:05 GMT", "application/json", []byte(`{"action":"ping"}`))

	assert.Equal(t,
		`api.example.com|/webhooks/airbnb|POST|Mon, 02 Jan 2006 15:04:05 GMT|application/json|{"action":"ping"}`,
		string(payload))
}

func TestVerifySignatureRoundtrip(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	payload := CanonicalPayload("api.example.com", "/webhooks/airbnb", "POST",
		"Mon, 02 Jan 2006 15:04:05 GMT", "application/json", []byte(`{"action":"ping"}`))
	sig := signPayload(t, key, payload)

	require.NoError(t, VerifySignature(&key.PublicKey, payload, sig))

	// payload bị sửa thì chữ ký phải fail
	tampered := append([]byte{}, payload...)
	tampered[0] ^= 0xff
	assert.Error(t, VerifySignature(&key.PublicKey, tampered, sig))

	assert.Error(t, VerifySignature(&key.PublicKey, payload, "not-base64!!!"))
}

func TestVerifySignatureRejectsOtherKey(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	payload := []byte("hello")
	sig := signPayload(t, key, payload)
	assert.Error(t, VerifySignature(&other.PublicKey, payload, sig))
}

func TestParsePublicKey(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

	pub, err := ParsePublicKey(pemBytes)
	require.NoError(t, err)
	assert.True(t, key.PublicKey.Equal(pub))

	_, err = ParsePublicKey([]byte("not a pem"))
	assert.Error(t, err)
}
