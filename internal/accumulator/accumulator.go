// Package accumulator implements the trapdoor-free surface of the dynamic
// universal accumulator: commitment, membership, non-membership,
// intersection, and disjointness witness construction, derivable from
// public parameters alone. The trapdoor-holding operations
// (add/delete/update/batch-add) live in the sibling package
// internal/accumulator/manager and are never imported from here or from
// pkg/ads's mutation path.
package accumulator

import (
	"github.com/MuriData/ads-accumulator/internal/errs"
	"github.com/MuriData/ads-accumulator/internal/group"
	"github.com/MuriData/ads-accumulator/internal/params"
	"github.com/MuriData/ads-accumulator/internal/poly"
)

// Commitment is C = g1^{P_E(s)} for some element set E.
type Commitment = group.G1

// CommitFromSet computes C_E = g1^{P_E(s)} for the given Fr-encoded set,
// purely from the loaded public parameters (no trapdoor knowledge needed).
func CommitFromSet(elems []group.Fr) (Commitment, error) {
	p, err := poly.Build(elems)
	if err != nil {
		return Commitment{}, err
	}
	deg := p.Degree()
	if deg < 0 {
		deg = 0
	}
	bases, err := params.G1Powers(deg)
	if err != nil {
		return Commitment{}, err
	}
	return poly.CommitG1(p, bases)
}

// CommitG2FromSet is CommitFromSet's G2 counterpart, used to build witness
// polynomials that must live in G2.
func CommitG2FromSet(elems []group.Fr) (group.G2, error) {
	p, err := poly.Build(elems)
	if err != nil {
		return group.G2{}, err
	}
	deg := p.Degree()
	if deg < 0 {
		deg = 0
	}
	bases, err := params.G2Powers(deg)
	if err != nil {
		return group.G2{}, err
	}
	return poly.CommitG2(p, bases)
}

// MembershipWitness returns W = g1^{Q(s)} where Q(X) = P_E(X)/(X-x),
// requiring x to be a member of elems.
func MembershipWitness(x group.Fr, elems []group.Fr) (group.G1, error) {
	pE, err := poly.Build(elems)
	if err != nil {
		return group.G1{}, err
	}
	xMinus := linearFactor(x)
	q, r, err := poly.DivMod(pE, xMinus)
	if err != nil {
		return group.G1{}, err
	}
	if r.Degree() >= 0 {
		return group.G1{}, errs.ErrKeyNotPresent
	}
	deg := q.Degree()
	if deg < 0 {
		deg = 0
	}
	bases, err := params.G1Powers(deg)
	if err != nil {
		return group.G1{}, err
	}
	return poly.CommitG1(q, bases)
}

// NonMembershipWitnesses solves A(X)*P_E(X) + B(X)*(X-x) = 1 via the
// Bézout solver and returns (g2^{B(s)}, g2^{A(s)}), failing with
// ErrNotCoprime if x in fact belongs to E.
func NonMembershipWitnesses(x group.Fr, elems []group.Fr) (w, aPrime group.G2, err error) {
	pE, err := poly.Build(elems)
	if err != nil {
		return group.G2{}, group.G2{}, err
	}
	xMinus := linearFactor(x)

	a, b, err := poly.Solve(pE, xMinus)
	if err != nil {
		return group.G2{}, group.G2{}, err
	}

	degA := maxDeg(a)
	bases, err := params.G2Powers(degA)
	if err != nil {
		return group.G2{}, group.G2{}, err
	}
	aPrime, err = poly.CommitG2(a, bases)
	if err != nil {
		return group.G2{}, group.G2{}, err
	}

	degB := maxDeg(b)
	basesB, err := params.G2Powers(degB)
	if err != nil {
		return group.G2{}, group.G2{}, err
	}
	w, err = poly.CommitG2(b, basesB)
	if err != nil {
		return group.G2{}, group.G2{}, err
	}

	return w, aPrime, nil
}

// IntersectionWitnesses requires I subset of (E1 intersect E2); it computes
// Qi(X) = P_{Ei}(X)/P_I(X) for i=1,2, and a Bézout pair A*Q1+B*Q2=1, which
// exists iff I = E1 intersect E2 (i.e. Q1, Q2 are coprime). Returns
// (g2^{Q1(s)}, g2^{Q2(s)}, g1^{A(s)}, g1^{B(s)}).
func IntersectionWitnesses(e1, e2, i []group.Fr) (q1g2, q2g2 group.G2, aG1, bG1 group.G1, err error) {
	pE1, err := poly.Build(e1)
	if err != nil {
		return group.G2{}, group.G2{}, group.G1{}, group.G1{}, err
	}
	pE2, err := poly.Build(e2)
	if err != nil {
		return group.G2{}, group.G2{}, group.G1{}, group.G1{}, err
	}
	pI, err := poly.Build(i)
	if err != nil {
		return group.G2{}, group.G2{}, group.G1{}, group.G1{}, err
	}

	q1, r1, err := poly.DivMod(pE1, pI)
	if err != nil {
		return group.G2{}, group.G2{}, group.G1{}, group.G1{}, err
	}
	if r1.Degree() >= 0 {
		return group.G2{}, group.G2{}, group.G1{}, group.G1{}, errs.ErrNotSubset
	}
	q2, r2, err := poly.DivMod(pE2, pI)
	if err != nil {
		return group.G2{}, group.G2{}, group.G1{}, group.G1{}, err
	}
	if r2.Degree() >= 0 {
		return group.G2{}, group.G2{}, group.G1{}, group.G1{}, errs.ErrNotSubset
	}

	a, b, err := poly.Solve(q1, q2)
	if err != nil {
		return group.G2{}, group.G2{}, group.G1{}, group.G1{}, err
	}

	basesQ1, err := params.G2Powers(maxDeg(q1))
	if err != nil {
		return group.G2{}, group.G2{}, group.G1{}, group.G1{}, err
	}
	q1g2, err = poly.CommitG2(q1, basesQ1)
	if err != nil {
		return group.G2{}, group.G2{}, group.G1{}, group.G1{}, err
	}

	basesQ2, err := params.G2Powers(maxDeg(q2))
	if err != nil {
		return group.G2{}, group.G2{}, group.G1{}, group.G1{}, err
	}
	q2g2, err = poly.CommitG2(q2, basesQ2)
	if err != nil {
		return group.G2{}, group.G2{}, group.G1{}, group.G1{}, err
	}

	basesA, err := params.G1Powers(maxDeg(a))
	if err != nil {
		return group.G2{}, group.G2{}, group.G1{}, group.G1{}, err
	}
	aG1, err = poly.CommitG1(a, basesA)
	if err != nil {
		return group.G2{}, group.G2{}, group.G1{}, group.G1{}, err
	}

	basesB, err := params.G1Powers(maxDeg(b))
	if err != nil {
		return group.G2{}, group.G2{}, group.G1{}, group.G1{}, err
	}
	bG1, err = poly.CommitG1(b, basesB)
	if err != nil {
		return group.G2{}, group.G2{}, group.G1{}, group.G1{}, err
	}

	return q1g2, q2g2, aG1, bG1, nil
}

// DisjointnessWitnesses solves A*P_{E1} + B*P_{E2} = 1, returning
// (g2^{A(s)}, g2^{B(s)}). Fails with ErrNotCoprime if E1 and E2 overlap.
func DisjointnessWitnesses(e1, e2 []group.Fr) (f1, f2 group.G2, err error) {
	pE1, err := poly.Build(e1)
	if err != nil {
		return group.G2{}, group.G2{}, err
	}
	pE2, err := poly.Build(e2)
	if err != nil {
		return group.G2{}, group.G2{}, err
	}

	a, b, err := poly.Solve(pE1, pE2)
	if err != nil {
		return group.G2{}, group.G2{}, err
	}

	basesA, err := params.G2Powers(maxDeg(a))
	if err != nil {
		return group.G2{}, group.G2{}, err
	}
	f1, err = poly.CommitG2(a, basesA)
	if err != nil {
		return group.G2{}, group.G2{}, err
	}

	basesB, err := params.G2Powers(maxDeg(b))
	if err != nil {
		return group.G2{}, group.G2{}, err
	}
	f2, err = poly.CommitG2(b, basesB)
	if err != nil {
		return group.G2{}, group.G2{}, err
	}

	return f1, f2, nil
}

func linearFactor(x group.Fr) poly.Polynomial {
	var negX group.Fr
	negX.Neg(&x)
	return poly.Polynomial{negX, group.OneFr()}
}

func maxDeg(p poly.Polynomial) int {
	d := p.Degree()
	if d < 0 {
		return 0
	}
	return d
}
