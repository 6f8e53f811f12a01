// Package config holds the small set of compile-time knobs the cryptographic
// core needs. There is no flag/env parsing layer: these values are either
// curve-level constants or production/test defaults selected by the caller
// that constructs the public parameters.
package config

const (
	// DefaultMaxDegree is the production default bound N on polynomial
	// degree (and therefore on element-set size) the public parameters
	// support. PP holds N+1 powers of the trapdoor in each of G1 and G2.
	DefaultMaxDegree = 5000

	// TestMaxDegree is the bound used by unit tests and other small-scale
	// callers, keeping parameter generation and serialization cheap.
	TestMaxDegree = 20

	// DigestSize is the byte width of the collision-resistant hash used
	// throughout (SHA-256 family).
	DigestSize = 32

	// FrTruncatedBits is the number of low bits kept when reducing a
	// digest to a field element: after reduction mod |Fr|, any bits at or
	// above this position are masked to zero.
	FrTruncatedBits = 248
)
