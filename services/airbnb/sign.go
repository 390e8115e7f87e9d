package airbnb

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"regexp"
	"strings"
)

var signatureHeaderRe = regexp.MustCompile(`signature="([^"]+)"`)

// ParseSignatureHeader tách chữ ký base64 từ header Authorization
// dạng `signature="<base64>"`. Trả về "" nếu không có.
func ParseSignatureHeader(header string) string {
	m := signatureHeaderRe.FindStringSubmatch(header)
	if len(m) != 2 {
		return ""
	}
	return m[1]
}

// CanonicalPayload dựng payload ký: host|path|method|date|content_type|body
func CanonicalPayload(host, path, method, date, contentType string, body []byte) []byte {
	parts := []string{host, path, strings.ToUpper(method), date, contentType, string(body)}
	return []byte(strings.Join(parts, "|"))
}

// ParsePublicKey đọc RSA public key từ PEM
func ParsePublicKey(pemBytes []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("invalid PEM block")
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("not an RSA public key")
	}
	return rsaPub, nil
}

// VerifySignature kiểm tra chữ ký RSA-SHA256 của payload
func VerifySignature(pub *rsa.PublicKey, payload []byte, signatureB64 string) error {
	sig, err := base64.StdEncoding.DecodeString(signatureB64)
	if err != nil {
		return fmt.Errorf("invalid base64 signature: %w", err)
	}
	digest := sha256.Sum256(payload)
	return rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], sig)
}
