package listsvc_test

import (
	"testing"

	"watchlist/internal/listsvc"
)

func TestSHA256Hasher(t *testing.T) {
	h := listsvc.SHA256Hasher{}
	hash := h.Hash("hunter2")
	if len(hash) != 64 {
		t.Fatalf("expected hex sha256 digest, got %q", hash)
	}
	if hash != "f52fbd32b2b3b86ff88ef6c490628285f482af15ddcb29541f94bcf526a3f6c7" {
		t.Fatalf("unexpected digest %s", hash)
	}
	if !h.Verify("hunter2", hash) {
		t.Fatal("expected correct secret to verify")
	}
	if h.Verify("hunter3", hash) {
		t.Fatal("expected wrong secret to fail")
	}
	if h.Verify("", "") {
		t.Fatal("empty hash must never verify")
	}
}

type plainHasher struct{}

func (plainHasher) Hash(secret string) string       { return "plain:" + secret }
func (plainHasher) Verify(secret, hash string) bool { return hash == "plain:"+secret }

func TestServiceUsesInjectedHasher(t *testing.T) {
	f := newFixture(t, listsvc.WithHasher(plainHasher{}))
	list, err := f.svc.CreateList(t.Context(), "Custom", "pw")
	if err != nil {
		t.Fatalf("CreateList: %v", err)
	}
	if list.PasswordHash != "plain:pw" {
		t.Fatalf("expected injected hasher output, got %q", list.PasswordHash)
	}
	if _, err := f.svc.GetList(t.Context(), list.ID, "pw"); err != nil {
		t.Fatalf("GetList with injected hasher: %v", err)
	}
}
