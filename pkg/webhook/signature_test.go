package webhook

import (
	"errors"
	"testing"
	"time"
)

var (
	testSecret  = []byte("whsec_test_secret")
	testPayload = []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
)

func TestVerifyValidSignature(t *testing.T) {
	now := time.Unix(1712345678, 0)
	header := Sign(testSecret, now, testPayload)

	if err := Verify(testSecret, header, testPayload, DefaultTolerance, now); err != nil {
		t.Fatalf("Verify() = %v, want nil", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	now := time.Unix(1712345678, 0)
	header := Sign([]byte("other_secret"), now, testPayload)

	err := Verify(testSecret, header, testPayload, DefaultTolerance, now)
	if !errors.Is(err, ErrNoValidSignature) {
		t.Fatalf("Verify() = %v, want ErrNoValidSignature", err)
	}
}

func TestVerifyTamperedPayload(t *testing.T) {
	now := time.Unix(1712345678, 0)
	header := Sign(testSecret, now, testPayload)

	err := Verify(testSecret, header, []byte(`{"id":"evt_2"}`), DefaultTolerance, now)
	if !errors.Is(err, ErrNoValidSignature) {
		t.Fatalf("Verify() = %v, want ErrNoValidSignature", err)
	}
}

func TestVerifyExpiredTimestamp(t *testing.T) {
	signedAt := time.Unix(1712345678, 0)
	header := Sign(testSecret, signedAt, testPayload)

	err := Verify(testSecret, header, testPayload, DefaultTolerance, signedAt.Add(10*time.Minute))
	if !errors.Is(err, ErrTimestampTooOld) {
		t.Fatalf("Verify() = %v, want ErrTimestampTooOld", err)
	}
}

func TestVerifyMalformedHeaders(t *testing.T) {
	now := time.Unix(1712345678, 0)

	headers := []string{
		"",
		"t=notanumber,v1=abcd",
		"v1=abcd",
		"t=1712345678",
		"garbage",
	}

	for _, header := range headers {
		if err := Verify(testSecret, header, testPayload, DefaultTolerance, now); !errors.Is(err, ErrInvalidHeader) {
			t.Errorf("Verify(header=%q) = %v, want ErrInvalidHeader", header, err)
		}
	}
}

func TestVerifyMultipleSignatures(t *testing.T) {
	now := time.Unix(1712345678, 0)
	good := Sign(testSecret, now, testPayload)

	// Prepend a stale digest; verification should still pass on the second v1.
	header := "t=1712345678,v1=deadbeef," + good[len("t=1712345678,"):]

	if err := Verify(testSecret, header, testPayload, DefaultTolerance, now); err != nil {
		t.Fatalf("Verify() = %v, want nil", err)
	}
}
