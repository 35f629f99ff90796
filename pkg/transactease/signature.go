package transactease

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strings"
)

// ComputeSignature returns base64(HMAC-SHA256(secret, message)).
func ComputeSignature(message, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Signer holds one merchant's secret. It carries no mutable state and is safe
// for concurrent use.
type Signer struct {
	accessKey string
	secret    string
}

func NewSigner(accessKey, secret string) (*Signer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Signer{accessKey: accessKey, secret: secret}, nil
}

func (s *Signer) Sign(message string) string {
	return ComputeSignature(message, s.secret)
}

// Verify compares the signature of message with received in constant time.
func (s *Signer) Verify(message, received string) bool {
	expected := s.Sign(message)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(received)) == 1
}

// AccessKeyMatches reports whether key is this merchant's access key. An
// empty configured key accepts anything.
func (s *Signer) AccessKeyMatches(key string) bool {
	if s.accessKey == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(s.accessKey), []byte(key)) == 1
}

func joinPipe(parts ...string) string {
	return strings.Join(parts, "|")
}
