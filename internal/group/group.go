// Package group wraps the BLS12-381 field and group arithmetic on top of
// github.com/consensys/gnark-crypto. It is the only package that imports
// the curve library directly for arithmetic; everything above it (poly,
// accumulator, proof, node, forest) speaks in terms of the aliases and
// helpers defined here.
package group

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/MuriData/ads-accumulator/config"
)

// Fr is a scalar field element of the BLS12-381 Type-III pairing's scalar
// field. Arithmetic on it is modular and constant-time (gnark-crypto's
// Montgomery-form implementation).
type Fr = fr.Element

// G1 and G2 are the prime-order subgroup point types. G1 is the dominant
// commitment carrier (smaller compressed serialization); G2 carries witness
// polynomials.
type G1 = bls12381.G1Affine
type G2 = bls12381.G2Affine

// GT is the target group of the pairing.
type GT = bls12381.GT

// OneFr returns the multiplicative identity of Fr.
func OneFr() Fr {
	var one Fr
	one.SetOne()
	return one
}

// G1Gen and G2Gen return the canonical generators of G1 and G2.
func G1Gen() G1 {
	_, _, g1, _ := bls12381.Generators()
	return g1
}

func G2Gen() G2 {
	_, _, _, g2 := bls12381.Generators()
	return g2
}

// AddG1 returns a+b, routed through Jacobian coordinates since G1Affine has
// no direct addition.
func AddG1(a, b G1) G1 {
	var aj, bj bls12381.G1Jac
	aj.FromAffine(&a)
	bj.FromAffine(&b)
	aj.AddAssign(&bj)
	var out G1
	out.FromJacobian(&aj)
	return out
}

// NegG1 returns -a.
func NegG1(a G1) G1 {
	var out G1
	out.Neg(&a)
	return out
}

// ScalarMulG1 returns a^scalar, written multiplicatively to match the
// accumulator's exponent notation (scalar*a in the curve's native additive
// notation) using the element's big.Int representation.
func ScalarMulG1(a G1, scalar *big.Int) G1 {
	var out G1
	out.ScalarMultiplication(&a, scalar)
	return out
}

// ScalarMulG1Fr is ScalarMulG1 taking the scalar as an Fr element.
func ScalarMulG1Fr(a G1, scalar Fr) G1 {
	var bi big.Int
	scalar.BigInt(&bi)
	return ScalarMulG1(a, &bi)
}

// AddG2, NegG2, ScalarMulG2Fr mirror the G1 helpers above for G2.
func AddG2(a, b G2) G2 {
	var aj, bj bls12381.G2Jac
	aj.FromAffine(&a)
	bj.FromAffine(&b)
	aj.AddAssign(&bj)
	var out G2
	out.FromJacobian(&aj)
	return out
}

func NegG2(a G2) G2 {
	var out G2
	out.Neg(&a)
	return out
}

func ScalarMulG2Fr(a G2, scalar Fr) G2 {
	var bi big.Int
	scalar.BigInt(&bi)
	var out G2
	out.ScalarMultiplication(&a, &bi)
	return out
}

// G1GenPow returns g1^scalar using the cached fixed-base generator table
// instead of a fresh scalar multiplication, since the base here is always
// the G1 generator and callers (proof verification) compute this for many
// different scalars.
func G1GenPow(scalar Fr) G1 {
	var bi big.Int
	scalar.BigInt(&bi)
	return G1GenTable().Mul(&bi)
}

// G2GenPow is the G2 sibling of G1GenPow.
func G2GenPow(scalar Fr) G2 {
	var bi big.Int
	scalar.BigInt(&bi)
	return G2GenTable().Mul(&bi)
}

// MSMG1 computes the multi-scalar multiplication sum(scalars[i] * bases[i])
// using gnark-crypto's windowed (Pippenger-class) implementation instead of
// a loop of scalar multiplications. bases and scalars must have equal
// length.
func MSMG1(bases []G1, scalars []Fr) (G1, error) {
	var out G1
	if len(bases) == 0 {
		return out, nil
	}
	if _, err := out.MultiExp(bases, scalars, ecc.MultiExpConfig{}); err != nil {
		return out, err
	}
	return out, nil
}

// MSMG2 is the G2 counterpart of MSMG1.
func MSMG2(bases []G2, scalars []Fr) (G2, error) {
	var out G2
	if len(bases) == 0 {
		return out, nil
	}
	if _, err := out.MultiExp(bases, scalars, ecc.MultiExpConfig{}); err != nil {
		return out, err
	}
	return out, nil
}

// Pair computes the bilinear pairing e(a,b).
func Pair(a G1, b G2) (GT, error) {
	return bls12381.Pair([]G1{a}, []G2{b})
}

// PairingCheck returns true iff prod_i e(as[i], bs[i]) == 1 in GT, computed
// as a single combined Miller loop + final exponentiation (the standard
// optimization for verifying a product-of-pairings equation without forming
// each GT element individually).
func PairingCheck(as []G1, bs []G2) (bool, error) {
	return bls12381.PairingCheck(as, bs)
}

// DigestToFr reduces a 256-bit collision-resistant digest to a field
// element: the digest is read big-endian and reduced mod |Fr| by SetBytes,
// then every bit of the reduced value at or above FrTruncatedBits is zeroed.
// The result is below 2^248 < |Fr|, so reloading it needs no further
// reduction.
func DigestToFr(digest [config.DigestSize]byte) Fr {
	var z Fr
	z.SetBytes(digest[:])

	reduced := z.Bytes()
	maskHighBits(&reduced, config.FrTruncatedBits)
	z.SetBytes(reduced[:])
	return z
}

// maskHighBits zeroes every bit at position >= keepBits in a big-endian byte
// array (bit 0 is the least-significant bit of the last byte).
func maskHighBits(b *[config.DigestSize]byte, keepBits int) {
	totalBits := len(b) * 8
	if keepBits >= totalBits {
		return
	}
	clearBits := totalBits - keepBits
	clearBytes := clearBits / 8
	for i := 0; i < clearBytes; i++ {
		b[i] = 0
	}
	remBits := clearBits % 8
	if remBits > 0 {
		idx := clearBytes
		mask := byte(0xFF) >> remBits
		b[idx] &= mask
	}
}
