// Package webhook implements shared-secret signature verification for
// inbound payment-provider events. The signature header carries a unix
// timestamp and one or more HMAC-SHA256 digests over "<timestamp>.<payload>":
//
//	Signature: t=1712345678,v1=5257a869e7...
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidHeader    = errors.New("invalid signature header")
	ErrNoValidSignature = errors.New("no valid signature found")
	ErrTimestampTooOld  = errors.New("signature timestamp outside tolerance")
)

// DefaultTolerance is the maximum accepted clock skew between the signed
// timestamp and the receiving server.
const DefaultTolerance = 5 * time.Minute

// Sign computes the signature header value for a payload. Used by tests and
// by local tooling that replays events.
func Sign(secret []byte, t time.Time, payload []byte) string {
	mac := hmac.New(sha256.New, secret)
	fmt.Fprintf(mac, "%d.%s", t.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", t.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

// Verify checks the signature header against the payload. It returns an error
// when the header is malformed, the timestamp falls outside the tolerance
// window, or none of the provided digests match.
func Verify(secret []byte, header string, payload []byte, tolerance time.Duration, now time.Time) error {
	timestamp, signatures, err := parseHeader(header)
	if err != nil {
		return err
	}

	age := now.Sub(time.Unix(timestamp, 0))
	if age > tolerance || age < -tolerance {
		return ErrTimestampTooOld
	}

	mac := hmac.New(sha256.New, secret)
	fmt.Fprintf(mac, "%d.%s", timestamp, payload)
	expected := mac.Sum(nil)

	for _, sig := range signatures {
		decoded, err := hex.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			return nil
		}
	}

	return ErrNoValidSignature
}

func parseHeader(header string) (int64, []string, error) {
	var timestamp int64 = -1
	var signatures []string

	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			return 0, nil, ErrInvalidHeader
		}
		switch key {
		case "t":
			ts, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return 0, nil, ErrInvalidHeader
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, value)
		}
	}

	if timestamp < 0 || len(signatures) == 0 {
		return 0, nil, ErrInvalidHeader
	}

	return timestamp, signatures, nil
}
