package securetoken

import (
	"strings"
	"testing"
	"time"
)

func TestIsJWSToken(t *testing.T) {
	token, err := newTestService().GenerateToken(HS256, testHS256Secret, NewClaims(), time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	if !IsJWSToken(token) {
		t.Fatalf("expected %q to be a JWS", token)
	}

	tests := []string{
		"",
		"a.b",
		"a.b.c",
		Base64Encode([]byte(`{"typ":"JWT"}`)) + ".b.c",
		Base64Encode([]byte(`{"alg":"dir","enc":"XC20P"}`)) + ".b.c",
		token + ".d.e",
	}
	for _, tt := range tests {
		if IsJWSToken(tt) {
			t.Fatalf("expected %q not to be a JWS", tt)
		}
	}
}

func TestIsJWEToken(t *testing.T) {
	service := newTestService()

	jws, err := service.GenerateToken(HS256, testHS256Secret, NewClaims(), time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	jwe, err := service.GenerateEncryptedToken(Encryption{DIR, XC20P, Secret(strings.Repeat("k", 32))}, jws)
	if err != nil {
		t.Fatal(err)
	}

	if !IsJWEToken(jwe) {
		t.Fatalf("expected %q to be a JWE", jwe)
	}

	if IsJWEToken(jws) {
		t.Fatalf("expected a three-segment JWS not to be a JWE")
	}

	header := Base64Encode([]byte(`{"alg":"dir"}`))
	tests := []string{
		"",
		"a.b.c.d",
		"a.b.c.d.e",
		header + ".b.c.d.e",
		jwe + ".f",
	}
	for _, tt := range tests {
		if IsJWEToken(tt) {
			t.Fatalf("expected %q not to be a JWE", tt)
		}
	}
}

func TestBase64DecodeStrict(t *testing.T) {
	encoded := Base64Encode([]byte("ab")) // "YWI", two trailing bits.

	if _, err := Base64Decode(encoded); err != nil {
		t.Fatal(err)
	}

	// Same bytes, non-zero trailing bits.
	if _, err := Base64Decode("YWJ"); err == nil {
		t.Fatalf("expected non-canonical segment to be rejected")
	}

	if _, err := Base64Decode(encoded + "="); err == nil {
		t.Fatalf("expected padded segment to be rejected")
	}

	if _, err := Base64Decode("YW+"); err == nil {
		t.Fatalf("expected standard alphabet to be rejected")
	}
}

func TestSplitToken(t *testing.T) {
	parts, ok := splitToken("a..c", jwsSegments)
	if !ok || len(parts) != 3 || parts[1] != "" {
		t.Fatalf("expected three parts with an empty middle but got: %q", parts)
	}

	if _, ok = splitToken("a.b.c", jweSegments); ok {
		t.Fatalf("expected segment count mismatch")
	}
}
