package element

import "testing"

func TestDigestDeterministicAndDistinct(t *testing.T) {
	a1 := Digest("k1")
	a2 := Digest("k1")
	b := Digest("k2")

	if !a1.Equal(&a2) {
		t.Fatalf("Digest not deterministic")
	}
	if a1.Equal(&b) {
		t.Fatalf("Digest collided for distinct keys")
	}
}

func TestEncodeSetMatchesPerKeyDigest(t *testing.T) {
	keys := []string{"a", "b", "c", "d", "e"}
	out := EncodeSet(keys)
	if len(out) != len(keys) {
		t.Fatalf("length mismatch")
	}
	for i, k := range keys {
		want := Digest(k)
		if !out[i].Equal(&want) {
			t.Fatalf("EncodeSet[%d] does not match Digest(%q)", i, k)
		}
	}
}

func TestEncodeKeySetUnordered(t *testing.T) {
	set := map[string]struct{}{"x": {}, "y": {}, "z": {}}
	out := EncodeKeySet(set)
	if len(out) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(out))
	}
	seen := map[string]bool{}
	for _, fr := range out {
		for k := range set {
			d := Digest(k)
			if fr.Equal(&d) {
				seen[k] = true
			}
		}
	}
	for k := range set {
		if !seen[k] {
			t.Fatalf("key %q missing from encoded set", k)
		}
	}
}
