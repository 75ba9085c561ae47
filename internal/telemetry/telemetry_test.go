package telemetry

import "testing"

func TestHashStringStable(t *testing.T) {
	a := HashString("my-app")
	b := HashString("my-app")
	if a != b {
		t.Errorf("hash not stable: %q != %q", a, b)
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex characters", len(a))
	}
	if a == HashString("other-app") {
		t.Error("distinct inputs produced the same hash")
	}
}

func TestHashStringIsNotPlaintext(t *testing.T) {
	if HashString("my-app") == "my-app" {
		t.Error("hash leaked the plain value")
	}
}
