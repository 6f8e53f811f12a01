// Package poly implements the dense univariate polynomial kernel over Fr:
// roots-to-coefficients construction, division with remainder, extended
// GCD, the Bézout solver, and commitment of a polynomial to G1/G2 through
// the loaded public parameters.
package poly

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/MuriData/ads-accumulator/internal/errs"
	"github.com/MuriData/ads-accumulator/internal/group"
)

// Polynomial is a dense coefficient vector, lowest degree first:
// p[i] is the coefficient of X^i. The zero polynomial is the empty slice.
type Polynomial []group.Fr

// Degree returns deg(p), or -1 for the zero polynomial.
func (p Polynomial) Degree() int {
	for i := len(p) - 1; i >= 0; i-- {
		if !p[i].IsZero() {
			return i
		}
	}
	return -1
}

// trim drops trailing zero coefficients so Degree() and len() agree.
func (p Polynomial) trim() Polynomial {
	d := p.Degree()
	if d < 0 {
		return Polynomial{}
	}
	return p[:d+1]
}

// One returns the constant polynomial 1.
func One() Polynomial {
	one := group.OneFr()
	return Polynomial{one}
}

// sequentialBuildThreshold bounds the parallel fan-out of Build: below this
// many roots, straight-line schoolbook multiplication is cheaper than the
// goroutine dispatch overhead.
const sequentialBuildThreshold = 256

// Build returns P(X) = prod_{x in roots} (X - x) via parallel
// divide-and-conquer: split the root vector in half, recurse on each half
// concurrently, then multiply the two halves' polynomials. Base cases: no
// roots -> 1; one root x -> (X - x).
func Build(roots []group.Fr) (Polynomial, error) {
	return buildRange(roots)
}

func buildRange(roots []group.Fr) (Polynomial, error) {
	switch len(roots) {
	case 0:
		return One(), nil
	case 1:
		return linearFactor(roots[0]), nil
	}

	if len(roots) <= sequentialBuildThreshold {
		return buildSequential(roots), nil
	}

	mid := len(roots) / 2
	var left, right Polynomial
	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		left, err = buildRange(roots[:mid])
		return err
	})
	g.Go(func() error {
		var err error
		right, err = buildRange(roots[mid:])
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Mul(left, right), nil
}

// buildSequential multiplies linear factors one at a time, avoiding
// goroutine dispatch for small inputs.
func buildSequential(roots []group.Fr) Polynomial {
	acc := One()
	for _, x := range roots {
		acc = Mul(acc, linearFactor(x))
	}
	return acc
}

func linearFactor(x group.Fr) Polynomial {
	var negX group.Fr
	negX.Neg(&x)
	return Polynomial{negX, group.OneFr()}
}

// Mul returns a*b via schoolbook convolution.
func Mul(a, b Polynomial) Polynomial {
	a = a.trim()
	b = b.trim()
	if len(a) == 0 || len(b) == 0 {
		return Polynomial{}
	}
	out := make(Polynomial, len(a)+len(b)-1)
	var tmp group.Fr
	for i, ai := range a {
		if ai.IsZero() {
			continue
		}
		for j, bj := range b {
			tmp.Mul(&ai, &bj)
			out[i+j].Add(&out[i+j], &tmp)
		}
	}
	return out.trim()
}

// Add returns a+b.
func Add(a, b Polynomial) Polynomial {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make(Polynomial, n)
	for i := 0; i < n; i++ {
		var av, bv group.Fr
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		out[i].Add(&av, &bv)
	}
	return out.trim()
}

// Scale returns c*p.
func Scale(p Polynomial, c group.Fr) Polynomial {
	out := make(Polynomial, len(p))
	for i := range p {
		out[i].Mul(&p[i], &c)
	}
	return out.trim()
}

// DivMod returns (q, r) such that a = q*b + r and deg(r) < deg(b).
// b must be nonzero.
func DivMod(a, b Polynomial) (q, r Polynomial, err error) {
	b = b.trim()
	if len(b) == 0 {
		return nil, nil, fmt.Errorf("poly: division by zero polynomial")
	}
	a = a.trim()
	if len(a) < len(b) {
		return Polynomial{}, append(Polynomial{}, a...), nil
	}

	var bLeadInv group.Fr
	bLeadInv.Inverse(&b[len(b)-1])

	rem := append(Polynomial{}, a...)
	qOut := make(Polynomial, len(a)-len(b)+1)

	for deg := len(rem) - 1; deg >= len(b)-1; deg-- {
		if rem[deg].IsZero() {
			continue
		}
		var coeff group.Fr
		coeff.Mul(&rem[deg], &bLeadInv)
		shift := deg - (len(b) - 1)
		qOut[shift] = coeff

		var tmp group.Fr
		for j, bj := range b {
			tmp.Mul(&coeff, &bj)
			rem[shift+j].Sub(&rem[shift+j], &tmp)
		}
	}

	return qOut.trim(), rem.trim(), nil
}

// XGCD runs the extended Euclidean algorithm on polynomials, returning
// (g, x, y) such that a*x + b*y = g and g = gcd(a,b) up to a scalar factor.
// Implemented iteratively via repeated division.
func XGCD(a, b Polynomial) (g, x, y Polynomial, err error) {
	oldR, r := append(Polynomial{}, a.trim()...), append(Polynomial{}, b.trim()...)
	oldS, s := One(), Polynomial{}
	oldT, t := Polynomial{}, One()

	for len(r) > 0 {
		q, rem, derr := DivMod(oldR, r)
		if derr != nil {
			return nil, nil, nil, derr
		}
		oldR, r = r, rem

		newS := Add(oldS, Scale(Mul(q, s), negOne()))
		oldS, s = s, newS

		newT := Add(oldT, Scale(Mul(q, t), negOne()))
		oldT, t = t, newT
	}

	return oldR, oldS, oldT, nil
}

func negOne() group.Fr {
	var n group.Fr
	n.SetOne()
	n.Neg(&n)
	return n
}

// Solve implements the Bézout solver: runs XGCD(a,b) and fails with
// ErrNotCoprime unless the gcd is a nonzero constant, then scales x and y
// by g^{-1} so that a*x + b*y = 1 exactly.
func Solve(a, b Polynomial) (x, y Polynomial, err error) {
	g, x, y, err := XGCD(a, b)
	if err != nil {
		return nil, nil, err
	}
	g = g.trim()
	if len(g) != 1 {
		return nil, nil, errs.ErrNotCoprime
	}

	var gInv group.Fr
	gInv.Inverse(&g[0])

	return Scale(x, gInv), Scale(y, gInv), nil
}

// Eval evaluates p at point using Horner's method.
func Eval(p Polynomial, point group.Fr) group.Fr {
	var acc group.Fr
	for i := len(p) - 1; i >= 0; i-- {
		acc.Mul(&acc, &point)
		acc.Add(&acc, &p[i])
	}
	return acc
}

// CommitG1 computes g1^{p(s)} by taking the nonzero coefficients of p,
// pairing each with the PP power of matching index, and running a single
// MSM over the result. p's degree must be less than the bases vector's
// length.
func CommitG1(p Polynomial, g1Powers []group.G1) (group.G1, error) {
	p = p.trim()
	if len(p) == 0 {
		return group.G1{}, nil
	}
	if len(p) > len(g1Powers) {
		return group.G1{}, errs.ErrDegreeTooLarge
	}
	bases, scalars := nonzeroTerms(p, g1Powers)
	return group.MSMG1(bases, scalars)
}

// CommitG2 is the G2 counterpart of CommitG1.
func CommitG2(p Polynomial, g2Powers []group.G2) (group.G2, error) {
	p = p.trim()
	if len(p) == 0 {
		return group.G2{}, nil
	}
	if len(p) > len(g2Powers) {
		return group.G2{}, errs.ErrDegreeTooLarge
	}
	bases, scalars := nonzeroTerms(p, g2Powers)
	return group.MSMG2(bases, scalars)
}

// nonzeroTerms is generic over the base point type (G1 or G2): it returns
// the subsequence of bases and coefficients where the coefficient is
// nonzero, so the caller's MSM skips terms that would contribute nothing.
func nonzeroTerms[T any](p Polynomial, bases []T) ([]T, []group.Fr) {
	outBases := make([]T, 0, len(p))
	outScalars := make([]group.Fr, 0, len(p))
	for i, c := range p {
		if c.IsZero() {
			continue
		}
		outBases = append(outBases, bases[i])
		outScalars = append(outScalars, c)
	}
	return outBases, outScalars
}
