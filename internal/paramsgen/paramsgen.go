// Package paramsgen generates fresh public parameters from a freshly sampled
// trapdoor. This is the one place in the module where the secret scalar s is
// ever materialized, and it is discarded immediately after the power vectors
// are computed — no caller of this package, and nothing in pkg/ads, ever
// sees s. A real deployment would run this as a distributed multi-party
// ceremony; this single-party generator is a test-only stand-in that
// produces a byte source for params.Initialize.
package paramsgen

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"io"

	bls12381fr "github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/MuriData/ads-accumulator/internal/group"
	"github.com/MuriData/ads-accumulator/internal/params"
)

// Generate samples a fresh trapdoor s from crypto/rand and returns a byte
// buffer holding the canonical serialization of (g1^{s^i})_{0<=i<=n} and the
// G2 counterpart, suitable for params.Initialize. n is the maximum
// polynomial degree the generated parameters will support.
func Generate(n int) (*bytes.Buffer, error) {
	return GenerateFrom(n, rand.Reader)
}

// GenerateFrom is Generate with an explicit entropy source, for
// reproducible test fixtures: s is drawn via rejection sampling from
// entropy, uniform over [0, |Fr|).
func GenerateFrom(n int, entropy io.Reader) (*bytes.Buffer, error) {
	if n < 0 {
		return nil, fmt.Errorf("paramsgen: degree bound must be non-negative, got %d", n)
	}

	sBig, err := rand.Int(entropy, bls12381fr.Modulus())
	if err != nil {
		return nil, fmt.Errorf("paramsgen: sample trapdoor: %w", err)
	}
	var s group.Fr
	s.SetBigInt(sBig)

	powers := make([]group.Fr, n+1)
	powers[0].SetOne()
	for i := 1; i <= n; i++ {
		powers[i].Mul(&powers[i-1], &s)
	}

	g1Gen := group.G1Gen()
	g2Gen := group.G2Gen()

	g1Powers := make([]group.G1, n+1)
	g2Powers := make([]group.G2, n+1)
	for i := 0; i <= n; i++ {
		g1Powers[i] = group.ScalarMulG1Fr(g1Gen, powers[i])
		g2Powers[i] = group.ScalarMulG2Fr(g2Gen, powers[i])
	}

	// s and the intermediate powers go out of scope here; nothing retains
	// them beyond this function's stack.
	s.SetZero()

	store, err := params.NewStore(g1Powers, g2Powers)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := store.Serialize(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}
