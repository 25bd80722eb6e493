package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"
)

// Verification failures. Callers map all of them to the same wire error so
// probes cannot distinguish a bad key from a stale timestamp.
var (
	ErrMissingSecret    = errors.New("auth: missing secret")
	ErrMissingTimestamp = errors.New("auth: missing timestamp")
	ErrMissingSignature = errors.New("auth: missing signature")
	ErrBadSignature     = errors.New("auth: signature mismatch")
	ErrStaleTimestamp   = errors.New("auth: timestamp outside window")
)

// Sign computes the hex HMAC-SHA256 of body||timestamp under secret. The
// ingest client signs exactly this way.
func Sign(secret string, body []byte, timestamp string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	mac.Write([]byte(timestamp))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks signature against the HMAC-SHA256 of body||timestamp under
// secret, comparing raw digest bytes in constant time. maxSkew > 0
// additionally requires timestamp to parse as epoch milliseconds within
// ±maxSkew of the server clock; maxSkew == 0 skips the freshness check.
func Verify(secret string, body []byte, timestamp, signature string, maxSkew time.Duration) error {
	if secret == "" {
		return ErrMissingSecret
	}
	if timestamp == "" {
		return ErrMissingTimestamp
	}
	if signature == "" {
		return ErrMissingSignature
	}

	got, err := hex.DecodeString(signature)
	if err != nil {
		return ErrBadSignature
	}
	want := hmac.New(sha256.New, []byte(secret))
	want.Write(body)
	want.Write([]byte(timestamp))
	if !hmac.Equal(got, want.Sum(nil)) {
		return ErrBadSignature
	}

	if maxSkew > 0 {
		ms, err := strconv.ParseInt(timestamp, 10, 64)
		if err != nil {
			return ErrStaleTimestamp
		}
		skew := time.Since(time.UnixMilli(ms))
		if skew < 0 {
			skew = -skew
		}
		if skew > maxSkew {
			return ErrStaleTimestamp
		}
	}
	return nil
}
