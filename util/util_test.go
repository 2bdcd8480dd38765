package util

import "testing"

func TestNewRequestID(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := NewRequestID()
		if len(id) != 27 {
			t.Fatalf("unexpected id length %d for %q", len(id), id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate request id %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestSetResponse(t *testing.T) {
	resp := SetResponse(map[string]int{"n": 1}, 1, "ok")
	if resp["status"] != 1 || resp["message"] != "ok" {
		t.Fatalf("unexpected envelope: %v", resp)
	}
	if resp["data"] == nil {
		t.Fatal("data dropped")
	}

	resp = SetResponse(nil, 0, "failed")
	if resp["data"] != nil {
		t.Fatalf("nil data should stay nil, got %v", resp["data"])
	}
}
