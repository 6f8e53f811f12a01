package group

import (
	"math/big"
	"sync"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// FixedBaseG1Table precomputes windowed multiples of a single fixed G1 base
// so that repeated scalar multiplications against that same base (e.g.
// verifiers computing g1^{s-x} for many different x against the fixed PP
// generator) cost O(bits/window) group additions instead of O(bits)
// doublings each time. A window of around 5 bits is a reasonable balance
// between table size and exponentiation speed on G1/G2.
type FixedBaseG1Table struct {
	window int
	digits int
	// comb[j] holds the 2^window multiples of base scaled by 2^(j*window):
	// comb[j][i] = i * 2^(j*window) * base.
	comb [][]bls12381.G1Jac
}

// NewFixedBaseG1Table builds a table for base with the given window size in
// bits, covering scalars up to bitLen bits.
func NewFixedBaseG1Table(base G1, window, bitLen int) *FixedBaseG1Table {
	if window <= 0 {
		window = 5
	}
	digits := (bitLen + window - 1) / window
	if digits == 0 {
		digits = 1
	}
	size := 1 << uint(window)

	t := &FixedBaseG1Table{window: window, digits: digits}
	t.comb = make([][]bls12381.G1Jac, digits)

	var baseJac bls12381.G1Jac
	baseJac.FromAffine(&base)

	digitBase := baseJac
	for j := 0; j < digits; j++ {
		row := make([]bls12381.G1Jac, size)
		// row[0] = identity (zero value of G1Jac)
		acc := row[0]
		for i := 1; i < size; i++ {
			acc.AddAssign(&digitBase)
			row[i] = acc
		}
		t.comb[j] = row
		if j+1 < digits {
			for k := 0; k < window; k++ {
				digitBase.DoubleAssign()
			}
		}
	}
	return t
}

// Mul computes scalar*base using the precomputed comb table.
func (t *FixedBaseG1Table) Mul(scalar *big.Int) G1 {
	var acc bls12381.G1Jac
	mask := big.NewInt(1<<uint(t.window) - 1)
	tmp := new(big.Int).Set(scalar)
	var shifted big.Int
	for j := 0; j < t.digits; j++ {
		shifted.And(tmp, mask)
		digit := int(shifted.Int64())
		if digit != 0 {
			acc.AddAssign(&t.comb[j][digit])
		}
		tmp.Rsh(tmp, uint(t.window))
	}
	var out G1
	out.FromJacobian(&acc)
	return out
}

// FixedBaseG2Table is the G2 sibling of FixedBaseG1Table.
type FixedBaseG2Table struct {
	window int
	digits int
	comb   [][]bls12381.G2Jac
}

func NewFixedBaseG2Table(base G2, window, bitLen int) *FixedBaseG2Table {
	if window <= 0 {
		window = 5
	}
	digits := (bitLen + window - 1) / window
	if digits == 0 {
		digits = 1
	}
	size := 1 << uint(window)

	t := &FixedBaseG2Table{window: window, digits: digits}
	t.comb = make([][]bls12381.G2Jac, digits)

	var baseJac bls12381.G2Jac
	baseJac.FromAffine(&base)

	digitBase := baseJac
	for j := 0; j < digits; j++ {
		row := make([]bls12381.G2Jac, size)
		acc := row[0]
		for i := 1; i < size; i++ {
			acc.AddAssign(&digitBase)
			row[i] = acc
		}
		t.comb[j] = row
		if j+1 < digits {
			for k := 0; k < window; k++ {
				digitBase.DoubleAssign()
			}
		}
	}
	return t
}

func (t *FixedBaseG2Table) Mul(scalar *big.Int) G2 {
	var acc bls12381.G2Jac
	mask := big.NewInt(1<<uint(t.window) - 1)
	tmp := new(big.Int).Set(scalar)
	var shifted big.Int
	for j := 0; j < t.digits; j++ {
		shifted.And(tmp, mask)
		digit := int(shifted.Int64())
		if digit != 0 {
			acc.AddAssign(&t.comb[j][digit])
		}
		tmp.Rsh(tmp, uint(t.window))
	}
	var out G2
	out.FromJacobian(&acc)
	return out
}

// genTableWindow sizes the cached generator tables below, which use a 5-bit
// window over the full Fr modulus bit length: the standard
// time/space tradeoff for a table built once and reused for many scalars.
const genTableWindow = 5

var (
	genG1TableOnce sync.Once
	genG1Table     *FixedBaseG1Table
	genG2TableOnce sync.Once
	genG2Table     *FixedBaseG2Table
)

// G1GenTable returns a fixed-base table over the G1 generator, built once
// and cached: callers that scalar-multiply the fixed generator by many
// different scalars (e.g. verifiers computing g1^x for varying x) use this
// instead of a fresh ScalarMulG1 each time.
func G1GenTable() *FixedBaseG1Table {
	genG1TableOnce.Do(func() {
		genG1Table = NewFixedBaseG1Table(G1Gen(), genTableWindow, fr.Modulus().BitLen())
	})
	return genG1Table
}

// G2GenTable is the G2 sibling of G1GenTable.
func G2GenTable() *FixedBaseG2Table {
	genG2TableOnce.Do(func() {
		genG2Table = NewFixedBaseG2Table(G2Gen(), genTableWindow, fr.Modulus().BitLen())
	})
	return genG2Table
}
