package identity

import (
	"strings"
	"testing"
)

func TestHashPassword_ProducesPHCFormat(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("hash = %q, want prefix %q", hash, "$argon2id$")
	}

	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		t.Errorf("hash has %d parts, want 6: %q", len(parts), hash)
	}
}

func TestHashPassword_SaltIsRandom(t *testing.T) {
	h1, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	h2, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if h1 == h2 {
		t.Error("two hashes of the same password are identical, salt is not random")
	}
}

func TestVerifyPassword_Roundtrip(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if !VerifyPassword(hash, "s3cret") {
		t.Error("VerifyPassword = false for the correct password")
	}
	if VerifyPassword(hash, "wrong") {
		t.Error("VerifyPassword = true for a wrong password")
	}
	if VerifyPassword(hash, "") {
		t.Error("VerifyPassword = true for an empty password")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	cases := []struct {
		name    string
		encoded string
	}{
		{"empty", ""},
		{"plain text", "not-a-hash"},
		{"wrong algorithm", "$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$a2V5"},
		{"missing segments", "$argon2id$v=19$m=65536,t=1,p=4"},
		{"bad base64 salt", "$argon2id$v=19$m=65536,t=1,p=4$!!!!$a2V5"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if VerifyPassword(tc.encoded, "anything") {
				t.Errorf("VerifyPassword(%q) = true, want false", tc.encoded)
			}
		})
	}
}
