package hash

import "testing"

func TestBcrypt(t *testing.T) {
	h := NewBcrypt(4, "pepper")

	hashed, err := h.Hash("Password@0")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if !h.Verify(string(hashed), "Password@0") {
		t.Fatal("expected verify to succeed for matching password")
	}
	if h.Verify(string(hashed), "password@0") {
		t.Fatal("expected verify to fail for wrong password")
	}

	other := NewBcrypt(4, "other-pepper")
	if other.Verify(string(hashed), "Password@0") {
		t.Fatal("expected verify to fail with a different pepper")
	}
}

func TestArgon2id(t *testing.T) {
	h := NewArgon2id("pepper")

	hashed, err := h.Hash("Password@0")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if !h.Verify(string(hashed), "Password@0") {
		t.Fatal("expected verify to succeed for matching password")
	}
	if h.Verify(string(hashed), "Password@1") {
		t.Fatal("expected verify to fail for wrong password")
	}
	if h.Verify("not-an-encoded-hash", "Password@0") {
		t.Fatal("expected verify to fail for malformed hash")
	}
}
