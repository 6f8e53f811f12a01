package proof_test

import (
	"bytes"
	"testing"

	"github.com/MuriData/ads-accumulator/internal/accumulator"
	"github.com/MuriData/ads-accumulator/internal/accumulator/manager"
	"github.com/MuriData/ads-accumulator/internal/group"
	"github.com/MuriData/ads-accumulator/internal/params"
	"github.com/MuriData/ads-accumulator/internal/paramsgen"
	"github.com/MuriData/ads-accumulator/internal/proof"
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

// setupTestParamsWithTrapdoor installs public parameters built from a known
// trapdoor s, so a manager.Manager holding s produces commitments that the
// PP-based verifiers accept.
func setupTestParamsWithTrapdoor(t *testing.T, s group.Fr) {
	t.Helper()
	params.ResetForTest()
	t.Cleanup(params.ResetForTest)
	const n = 20
	g1Powers := make([]group.G1, n+1)
	g2Powers := make([]group.G2, n+1)
	pow := group.OneFr()
	for i := 0; i <= n; i++ {
		g1Powers[i] = group.ScalarMulG1Fr(group.G1Gen(), pow)
		g2Powers[i] = group.ScalarMulG2Fr(group.G2Gen(), pow)
		pow.Mul(&pow, &s)
	}
	store, err := params.NewStore(g1Powers, g2Powers)
	if err != nil {
		t.Fatalf("params.NewStore: %v", err)
	}
	var buf bytes.Buffer
	if err := store.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if err := params.Initialize(&buf); err != nil {
		t.Fatalf("params.Initialize: %v", err)
	}
}

func frOf(v int64) group.Fr {
	var f group.Fr
	f.SetInt64(v)
	return f
}

func TestMembershipProofRoundTrip(t *testing.T) {
	setupTestParams(t)
	set := []group.Fr{frOf(1), frOf(2), frOf(3)}
	c, err := accumulator.CommitFromSet(set)
	if err != nil {
		t.Fatalf("CommitFromSet: %v", err)
	}

	p, err := proof.NewMembershipProof(frOf(2), set)
	if err != nil {
		t.Fatalf("NewMembershipProof: %v", err)
	}
	ok, err := p.Verify(c, frOf(2))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected membership proof to verify")
	}

	ok, err = p.Verify(c, frOf(5))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Fatalf("expected membership proof for wrong x to fail")
	}
}

func TestNonMembershipProofRoundTrip(t *testing.T) {
	setupTestParams(t)
	set := []group.Fr{frOf(1), frOf(2), frOf(3)}
	c, err := accumulator.CommitFromSet(set)
	if err != nil {
		t.Fatalf("CommitFromSet: %v", err)
	}

	p, err := proof.NewNonMembershipProof(frOf(7), set)
	if err != nil {
		t.Fatalf("NewNonMembershipProof: %v", err)
	}
	ok, err := p.Verify(c, frOf(7))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected non-membership proof to verify")
	}
}

func TestIntersectionProofRoundTrip(t *testing.T) {
	setupTestParams(t)
	e1 := []group.Fr{frOf(1), frOf(2), frOf(3), frOf(4)}
	e2 := []group.Fr{frOf(3), frOf(4), frOf(5), frOf(6)}
	i := []group.Fr{frOf(3), frOf(4)}

	c1, err := accumulator.CommitFromSet(e1)
	if err != nil {
		t.Fatalf("CommitFromSet e1: %v", err)
	}
	c2, err := accumulator.CommitFromSet(e2)
	if err != nil {
		t.Fatalf("CommitFromSet e2: %v", err)
	}
	ci, err := accumulator.CommitFromSet(i)
	if err != nil {
		t.Fatalf("CommitFromSet i: %v", err)
	}

	p, err := proof.NewIntersectionProof(e1, e2, i)
	if err != nil {
		t.Fatalf("NewIntersectionProof: %v", err)
	}
	ok, err := p.Verify(c1, c2, ci)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected intersection proof to verify")
	}
}

func TestUnionProofRoundTrip(t *testing.T) {
	setupTestParams(t)
	e1 := []group.Fr{frOf(1), frOf(2), frOf(3), frOf(4)}
	e2 := []group.Fr{frOf(3), frOf(4), frOf(5), frOf(6)}
	i := []group.Fr{frOf(3), frOf(4)}
	u := []group.Fr{frOf(1), frOf(2), frOf(3), frOf(4), frOf(5), frOf(6)}

	c1, err := accumulator.CommitFromSet(e1)
	if err != nil {
		t.Fatalf("CommitFromSet e1: %v", err)
	}
	c2, err := accumulator.CommitFromSet(e2)
	if err != nil {
		t.Fatalf("CommitFromSet e2: %v", err)
	}
	cu, err := accumulator.CommitFromSet(u)
	if err != nil {
		t.Fatalf("CommitFromSet u: %v", err)
	}

	up, err := proof.NewUnionProof(e1, e2, i)
	if err != nil {
		t.Fatalf("NewUnionProof: %v", err)
	}
	ok, err := up.Verify(cu, c1, c2)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected union proof to verify")
	}

	wrongU := []group.Fr{frOf(1), frOf(2), frOf(3), frOf(4), frOf(5)}
	cWrong, err := accumulator.CommitFromSet(wrongU)
	if err != nil {
		t.Fatalf("CommitFromSet wrongU: %v", err)
	}
	ok, err = up.Verify(cWrong, c1, c2)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Fatalf("expected union proof against wrong union commitment to fail")
	}
}

func TestMutationProofAddAndDelete(t *testing.T) {
	var secret group.Fr
	secret.SetInt64(424242)
	setupTestParamsWithTrapdoor(t, secret)
	m := manager.New(secret)

	cOld := group.G1Gen()
	x := frOf(17)
	cNew := m.Add(cOld, x)

	addP, err := proof.NewAddProof(x)
	if err != nil {
		t.Fatalf("NewAddProof: %v", err)
	}
	ok, err := addP.VerifyAdd(cOld, cNew)
	if err != nil {
		t.Fatalf("VerifyAdd: %v", err)
	}
	if !ok {
		t.Fatalf("expected add transition to verify")
	}

	delP, err := proof.NewDeleteProof(x)
	if err != nil {
		t.Fatalf("NewDeleteProof: %v", err)
	}
	ok, err = delP.VerifyDelete(cNew, cOld)
	if err != nil {
		t.Fatalf("VerifyDelete: %v", err)
	}
	if !ok {
		t.Fatalf("expected delete transition to verify in reverse")
	}
}

func TestUpdateProofRoundTrip(t *testing.T) {
	var secret group.Fr
	secret.SetInt64(909090)
	setupTestParamsWithTrapdoor(t, secret)
	m := manager.New(secret)

	cOld := group.G1Gen()
	xOld := frOf(3)
	xNew := frOf(9)

	cMid, err := m.Delete(cOld, xOld)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	cNew := m.Add(cMid, xNew)

	up, err := proof.NewUpdateProof(xOld, xNew, cMid)
	if err != nil {
		t.Fatalf("NewUpdateProof: %v", err)
	}
	ok, err := up.Verify(cOld, cNew)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected update transition to verify")
	}
}
