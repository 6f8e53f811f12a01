// Package proof builds and verifies the pairing-equation proofs layered on
// top of the accumulator: membership, non-membership, intersection, union,
// and the mutation proofs (add/delete/update) that justify a commitment
// transition without revealing the trapdoor. There is no disjointness proof
// type or verifier here; disjointness witnesses come only from
// accumulator.DisjointnessWitnesses.
package proof

import (
	"github.com/MuriData/ads-accumulator/internal/accumulator"
	"github.com/MuriData/ads-accumulator/internal/group"
	"github.com/MuriData/ads-accumulator/internal/params"
)

// MembershipProof attests that x is a member of the set committed to by C.
type MembershipProof struct {
	Witness group.G1
}

// NewMembershipProof builds a MembershipProof for x against elems, whose
// commitment the caller already holds as c.
func NewMembershipProof(x group.Fr, elems []group.Fr) (MembershipProof, error) {
	w, err := accumulator.MembershipWitness(x, elems)
	if err != nil {
		return MembershipProof{}, err
	}
	return MembershipProof{Witness: w}, nil
}

// Verify checks e(p.Witness, g2^s / g2^x) == e(c, g2).
func (p MembershipProof) Verify(c group.G1, x group.Fr) (bool, error) {
	g2Pow1, err := params.G2Pow(1)
	if err != nil {
		return false, err
	}
	g2Pow0, err := params.G2Pow(0)
	if err != nil {
		return false, err
	}
	xG2 := group.G2GenPow(x)
	sMinusX := group.AddG2(g2Pow1, group.NegG2(xG2))

	negC := group.NegG1(c)
	return group.PairingCheck([]group.G1{p.Witness, negC}, []group.G2{sMinusX, g2Pow0})
}

// NonMembershipProof attests that x is absent from the set committed to
// by C, carrying the Bezout pair (B(s), A(s)) so that
// A(s)*C + B(s)*g1^{s-x} == g1 in the exponent.
type NonMembershipProof struct {
	W      group.G2 // g2^{B(s)}
	APrime group.G2 // g2^{A(s)}
}

// NewNonMembershipProof builds a NonMembershipProof for x against elems.
func NewNonMembershipProof(x group.Fr, elems []group.Fr) (NonMembershipProof, error) {
	w, aPrime, err := accumulator.NonMembershipWitnesses(x, elems)
	if err != nil {
		return NonMembershipProof{}, err
	}
	return NonMembershipProof{W: w, APrime: aPrime}, nil
}

// Verify checks e(C, p.APrime) * e(g1^{s-x}, p.W) == e(g1, g2), the
// pairing-lifted form of A(s)*P_E(s) + B(s)*(s-x) = 1.
func (p NonMembershipProof) Verify(c group.G1, x group.Fr) (bool, error) {
	g1Pow1, err := params.G1Pow(1)
	if err != nil {
		return false, err
	}
	g1Pow0, err := params.G1Pow(0)
	if err != nil {
		return false, err
	}
	xG1 := group.G1GenPow(x)
	sMinusX := group.AddG1(g1Pow1, group.NegG1(xG1))

	g2Pow0, err := params.G2Pow(0)
	if err != nil {
		return false, err
	}
	negG1Pow0 := group.NegG1(g1Pow0)

	return group.PairingCheck([]group.G1{c, sMinusX, negG1Pow0}, []group.G2{p.APrime, p.W, g2Pow0})
}

// IntersectionProof attests that i is exactly the intersection of the sets
// committed to by c1 and c2.
type IntersectionProof struct {
	Q1G2 group.G2 // g2^{Q1(s)}, Q1 = P_{E1}/P_I
	Q2G2 group.G2 // g2^{Q2(s)}, Q2 = P_{E2}/P_I
	AG1  group.G1 // g1^{A(s)}
	BG1  group.G1 // g1^{B(s)}, where A*Q1 + B*Q2 = 1
}

// NewIntersectionProof builds an IntersectionProof given the two element
// sets and their claimed intersection.
func NewIntersectionProof(e1, e2, i []group.Fr) (IntersectionProof, error) {
	q1, q2, a, b, err := accumulator.IntersectionWitnesses(e1, e2, i)
	if err != nil {
		return IntersectionProof{}, err
	}
	return IntersectionProof{Q1G2: q1, Q2G2: q2, AG1: a, BG1: b}, nil
}

// Verify checks both subset relations (e(ci, g2) == e(commitI, Qi)) and the
// coprimality relation (e(AG1, Q1G2) * e(BG1, Q2G2) == e(g1, g2)).
func (p IntersectionProof) Verify(c1, c2, commitI group.G1) (bool, error) {
	g2Pow0, err := params.G2Pow(0)
	if err != nil {
		return false, err
	}
	g1Pow0, err := params.G1Pow(0)
	if err != nil {
		return false, err
	}

	negC1 := group.NegG1(c1)
	ok1, err := group.PairingCheck([]group.G1{negC1, commitI}, []group.G2{g2Pow0, p.Q1G2})
	if err != nil || !ok1 {
		return false, err
	}
	negC2 := group.NegG1(c2)
	ok2, err := group.PairingCheck([]group.G1{negC2, commitI}, []group.G2{g2Pow0, p.Q2G2})
	if err != nil || !ok2 {
		return false, err
	}

	negG1Pow0 := group.NegG1(g1Pow0)
	return group.PairingCheck([]group.G1{p.AG1, p.BG1, negG1Pow0}, []group.G2{p.Q1G2, p.Q2G2, g2Pow0})
}

// UnionProof attests that u is exactly the union of the sets committed to
// by c1 and c2, reusing the intersection proof over the same (e1, e2, i)
// since P_{E1 union E2} * P_{E1 intersect E2} = P_{E1} * P_{E2}: once the
// intersection I = E1 ∩ E2 is certified, C_U is pinned down by checking it
// against C1 through the intersection proof's own Q2' term.
type UnionProof struct {
	CI           group.G1 // commit(I), I = e1 intersect e2
	Intersection IntersectionProof
}

// NewUnionProof builds a UnionProof from the original pair e1, e2 and their
// claimed intersection i (I = e1 intersect e2). u is never an input here:
// it only appears as a commitment at verification time.
func NewUnionProof(e1, e2, i []group.Fr) (UnionProof, error) {
	ci, err := accumulator.CommitFromSet(i)
	if err != nil {
		return UnionProof{}, err
	}
	ip, err := NewIntersectionProof(e1, e2, i)
	if err != nil {
		return UnionProof{}, err
	}
	return UnionProof{CI: ci, Intersection: ip}, nil
}

// Verify checks that the embedded IntersectionProof holds against
// (commit1, commit2, p.CI), then checks e(commitU, g2) == e(commit1,
// p.Intersection.Q2G2), the pairing-lifted form of P_U(s) = P_{E1}(s) *
// Q2(s) that pins commitU to the certified intersection.
func (p UnionProof) Verify(commitU, commit1, commit2 group.G1) (bool, error) {
	ok, err := p.Intersection.Verify(commit1, commit2, p.CI)
	if err != nil || !ok {
		return false, err
	}

	g2Pow0, err := params.G2Pow(0)
	if err != nil {
		return false, err
	}
	negCommitU := group.NegG1(commitU)
	return group.PairingCheck([]group.G1{commit1, negCommitU}, []group.G2{p.Intersection.Q2G2, g2Pow0})
}

// MutationProof attests that cNew is cOld with a single element x added (or
// removed, symmetrically) — the transition proof a client needs to trust an
// insert/delete/update response without trusting the server that computed
// it. It is the pairing-lifted form of cNew = cOld^{s-x}.
type MutationProof struct {
	// Aux carries g2^{s-x}, precomputable by the verifier from x alone, but
	// included here so Verify needs no side knowledge beyond public
	// parameters and the two commitments.
	Aux group.G2
}

// NewAddProof (and by symmetry NewDeleteProof) builds the mutation proof
// for a single-element accumulator transition.
func NewAddProof(x group.Fr) (MutationProof, error) {
	g2Pow1, err := params.G2Pow(1)
	if err != nil {
		return MutationProof{}, err
	}
	xG2 := group.G2GenPow(x)
	aux := group.AddG2(g2Pow1, group.NegG2(xG2))
	return MutationProof{Aux: aux}, nil
}

// NewDeleteProof is an alias of NewAddProof: the transition relation for
// removing x is cOld = cNew^{s-x}, the mirror image of adding x, so the
// same auxiliary element verifies both directions (see Verify).
func NewDeleteProof(x group.Fr) (MutationProof, error) {
	return NewAddProof(x)
}

// VerifyAdd checks e(cOld, p.Aux) == e(cNew, g2), i.e. cNew = cOld^{s-x}.
func (p MutationProof) VerifyAdd(cOld, cNew group.G1) (bool, error) {
	g2Pow0, err := params.G2Pow(0)
	if err != nil {
		return false, err
	}
	negCNew := group.NegG1(cNew)
	return group.PairingCheck([]group.G1{cOld, negCNew}, []group.G2{p.Aux, g2Pow0})
}

// VerifyDelete checks the mirror relation cOld = cNew^{s-x}.
func (p MutationProof) VerifyDelete(cOld, cNew group.G1) (bool, error) {
	return p.VerifyAdd(cNew, cOld)
}

// UpdateProof composes a delete-then-add transition (xOld removed, xNew
// added) into a single two-step check.
type UpdateProof struct {
	Delete MutationProof
	Add    MutationProof
	// CMid is the intermediate commitment after removing xOld and before
	// adding xNew; the verifier never sees it applied to real state, only
	// as a pivot for the two pairing checks.
	CMid group.G1
}

// NewUpdateProof builds the composed transition proof for replacing xOld
// with xNew, given the intermediate commitment the server computed.
func NewUpdateProof(xOld, xNew group.Fr, cMid group.G1) (UpdateProof, error) {
	del, err := NewDeleteProof(xOld)
	if err != nil {
		return UpdateProof{}, err
	}
	add, err := NewAddProof(xNew)
	if err != nil {
		return UpdateProof{}, err
	}
	return UpdateProof{Delete: del, Add: add, CMid: cMid}, nil
}

// Verify checks cOld = CMid^{s-xOld} and cNew = CMid^{s-xNew}.
func (p UpdateProof) Verify(cOld, cNew group.G1) (bool, error) {
	ok, err := p.Delete.VerifyDelete(cOld, p.CMid)
	if err != nil || !ok {
		return false, err
	}
	return p.Add.VerifyAdd(p.CMid, cNew)
}

// Combine merges two membership proofs whose quotient polynomials were
// taken against a shared divisor into a single witness for the combined
// set, relying on witness additivity in the G1 exponent. Callers are
// responsible for only combining proofs that share that divisor structure
// (e.g. sibling subtree witnesses rolled up during a forest merge).
func Combine(a, b MembershipProof) MembershipProof {
	return MembershipProof{Witness: group.AddG1(a.Witness, b.Witness)}
}
