package services

import "testing"

func TestNewPointIDIsFullUUID(t *testing.T) {
	seen := make(map[string]bool, 1000)

	for i := 0; i < 1000; i++ {
		id := newPointID()

		u := id.GetUuid()
		if u == "" {
			t.Fatal("point ID should be a UUID, not a numeric fragment")
		}
		if seen[u] {
			t.Fatalf("duplicate point ID %s after %d generations", u, i)
		}
		seen[u] = true
	}
}
