package auth

import "testing"

func TestGenerateInviteToken_Uniqueness(t *testing.T) {
	tokens := make(map[string]bool)
	hashes := make(map[string]bool)

	for range 100 {
		raw, hash, err := GenerateInviteToken()
		if err != nil {
			t.Fatalf("GenerateInviteToken failed: %v", err)
		}
		if raw == "" || hash == "" {
			t.Fatal("expected non-empty raw and hash")
		}
		if tokens[raw] {
			t.Errorf("duplicate raw token: %s", raw)
		}
		if hashes[hash] {
			t.Errorf("duplicate hash: %s", hash)
		}
		tokens[raw] = true
		hashes[hash] = true
	}
}

func TestGenerateInviteToken_HashMatches(t *testing.T) {
	raw, hash, err := GenerateInviteToken()
	if err != nil {
		t.Fatalf("GenerateInviteToken failed: %v", err)
	}
	if got := HashToken(raw); got != hash {
		t.Errorf("hash mismatch: expected %s, got %s", hash, got)
	}
}

func TestHashToken_Deterministic(t *testing.T) {
	hash1 := HashToken("test-token-12345")
	hash2 := HashToken("test-token-12345")
	if hash1 != hash2 {
		t.Errorf("hash is not deterministic: %s != %s", hash1, hash2)
	}
	if hash1 == HashToken("different-token-67890") {
		t.Error("different inputs produced same hash")
	}
	if len(hash1) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(hash1))
	}
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(4)

	hash, err := h.Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash must not equal the plain password")
	}
	if !h.Compare(hash, "s3cret-pass") {
		t.Error("Compare rejected the correct password")
	}
	if h.Compare(hash, "wrong") {
		t.Error("Compare accepted a wrong password")
	}
	if h.Compare("not-a-hash", "s3cret-pass") {
		t.Error("Compare accepted a malformed hash")
	}
}
