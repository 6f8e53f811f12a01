package accumulator_test

import (
	"bytes"
	"testing"

	"github.com/MuriData/ads-accumulator/internal/accumulator"
	"github.com/MuriData/ads-accumulator/internal/accumulator/manager"
	"github.com/MuriData/ads-accumulator/internal/group"
	"github.com/MuriData/ads-accumulator/internal/params"
	"github.com/MuriData/ads-accumulator/internal/paramsgen"
)

func setupTestParams(t *testing.T) {
	t.Helper()
	params.ResetForTest()
	t.Cleanup(params.ResetForTest)
	buf, err := paramsgen.Generate(20)
	if err != nil {
		t.Fatalf("paramsgen.Generate: %v", err)
	}
	if err := params.Initialize(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("params.Initialize: %v", err)
	}
}

func frOf(v int64) group.Fr {
	var f group.Fr
	f.SetInt64(v)
	return f
}

func TestMembershipWitnessVerifiesViaPairing(t *testing.T) {
	setupTestParams(t)

	set := []group.Fr{frOf(1), frOf(2), frOf(3)}
	c, err := accumulator.CommitFromSet(set)
	if err != nil {
		t.Fatalf("CommitFromSet: %v", err)
	}

	w, err := accumulator.MembershipWitness(frOf(2), set)
	if err != nil {
		t.Fatalf("MembershipWitness: %v", err)
	}

	// e(W, g2^{s-x}) == e(C, g2)
	g2Pow1, err := params.G2Pow(1)
	if err != nil {
		t.Fatalf("G2Pow(1): %v", err)
	}
	g2Pow0, err := params.G2Pow(0)
	if err != nil {
		t.Fatalf("G2Pow(0): %v", err)
	}
	xG2 := group.ScalarMulG2Fr(g2Pow0, frOf(2))
	g2SMinusX := group.AddG2(g2Pow1, group.NegG2(xG2))

	lhs, err := group.Pair(w, g2SMinusX)
	if err != nil {
		t.Fatalf("Pair: %v", err)
	}
	rhs, err := group.Pair(c, g2Pow0)
	if err != nil {
		t.Fatalf("Pair: %v", err)
	}
	if !lhs.Equal(&rhs) {
		t.Fatalf("membership pairing equation failed")
	}
}

func TestMembershipWitnessFailsForNonMember(t *testing.T) {
	setupTestParams(t)
	set := []group.Fr{frOf(1), frOf(2), frOf(3)}
	if _, err := accumulator.MembershipWitness(frOf(9), set); err == nil {
		t.Fatalf("expected error for non-member")
	}
}

func TestNonMembershipWitnessesFailForMember(t *testing.T) {
	setupTestParams(t)
	set := []group.Fr{frOf(1), frOf(2), frOf(3)}
	if _, _, err := accumulator.NonMembershipWitnesses(frOf(2), set); err == nil {
		t.Fatalf("expected ErrNotCoprime for member element")
	}
}

func TestNonMembershipWitnessesSucceedForNonMember(t *testing.T) {
	setupTestParams(t)
	set := []group.Fr{frOf(1), frOf(2), frOf(3)}
	w, aPrime, err := accumulator.NonMembershipWitnesses(frOf(4), set)
	if err != nil {
		t.Fatalf("NonMembershipWitnesses: %v", err)
	}
	if w.IsInfinity() && aPrime.IsInfinity() {
		t.Fatalf("unexpected trivial witnesses")
	}
}

func TestDisjointnessWitnesses(t *testing.T) {
	setupTestParams(t)
	e1 := []group.Fr{frOf(1), frOf(2)}
	e2 := []group.Fr{frOf(3), frOf(4)}
	if _, _, err := accumulator.DisjointnessWitnesses(e1, e2); err != nil {
		t.Fatalf("DisjointnessWitnesses: %v", err)
	}

	overlapping := []group.Fr{frOf(2), frOf(5)}
	if _, _, err := accumulator.DisjointnessWitnesses(e1, overlapping); err == nil {
		t.Fatalf("expected ErrNotCoprime for overlapping sets")
	}
}

func TestIntersectionWitnesses(t *testing.T) {
	setupTestParams(t)
	e1 := []group.Fr{frOf(1), frOf(2), frOf(3), frOf(4)}
	e2 := []group.Fr{frOf(3), frOf(4), frOf(5), frOf(6)}
	i := []group.Fr{frOf(3), frOf(4)}

	if _, _, _, _, err := accumulator.IntersectionWitnesses(e1, e2, i); err != nil {
		t.Fatalf("IntersectionWitnesses: %v", err)
	}

	wrong := []group.Fr{frOf(3)}
	if _, _, _, _, err := accumulator.IntersectionWitnesses(e1, e2, wrong); err == nil {
		t.Fatalf("expected failure for incomplete intersection claim")
	}
}

func TestManagerAddThenDeleteRoundTrips(t *testing.T) {
	setupTestParams(t)
	set := []group.Fr{frOf(1), frOf(2)}
	c, err := accumulator.CommitFromSet(set)
	if err != nil {
		t.Fatalf("CommitFromSet: %v", err)
	}

	var secret group.Fr
	secret.SetInt64(777) // stand-in trapdoor for this isolated test

	m := manager.New(secret)
	got := m.Add(c, frOf(3))

	want, err := accumulator.CommitFromSet([]group.Fr{frOf(1), frOf(2), frOf(3)})
	if err != nil {
		t.Fatalf("CommitFromSet: %v", err)
	}

	// The manager's Add uses a test-local secret unrelated to PP's real
	// trapdoor, so we only check internal consistency: Add then Delete
	// returns to the original commitment.
	back, err := m.Delete(got, frOf(3))
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !back.Equal(&c) {
		t.Fatalf("Add then Delete did not return to original commitment")
	}
	_ = want
}

func TestManagerBatchAddMatchesSequentialAdd(t *testing.T) {
	setupTestParams(t)
	var secret group.Fr
	secret.SetInt64(12345)
	m := manager.New(secret)

	c := group.G1Gen()
	xs := []group.Fr{frOf(1), frOf(2), frOf(3), frOf(4)}

	sequential := c
	for _, x := range xs {
		sequential = m.Add(sequential, x)
	}

	batched := m.BatchAdd(c, xs)
	if !sequential.Equal(&batched) {
		t.Fatalf("BatchAdd result diverges from sequential Add")
	}
}

func TestManagerDeleteTrapdoorCollision(t *testing.T) {
	setupTestParams(t)
	secret := frOf(42)
	m := manager.New(secret)
	c := group.G1Gen()
	if _, err := m.Delete(c, secret); err == nil {
		t.Fatalf("expected ErrTrapdoorCollision when deleting x == secret")
	}
}
