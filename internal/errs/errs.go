// Package errs defines the boundary error kinds surfaced by the cryptographic
// core. Verifiers never return error — a verification failure is always a
// plain bool, deliberately undifferentiated so a failed proof doesn't leak
// which subcheck tripped. Everything upstream of verification (parameter
// loading, mutation preconditions, polynomial solving) reports through
// these sentinels instead.
package errs

import "errors"

var (
	// ErrParamsUninitialized is returned by any operation that needs PP
	// before Initialize has installed it.
	ErrParamsUninitialized = errors.New("ads: public parameters not initialized")

	// ErrParamsAlreadyInitialized is returned when Initialize is called a
	// second time with a fingerprint that doesn't match the installed PP.
	// A second call with a matching fingerprint is a no-op success.
	ErrParamsAlreadyInitialized = errors.New("ads: public parameters already initialized with a different fingerprint")

	// ErrParamsOutOfRange is returned by G1Pow/G2Pow when the requested
	// power exceeds the loaded maximum degree N.
	ErrParamsOutOfRange = errors.New("ads: requested power exceeds public parameter degree bound")

	// ErrNotCoprime is returned when a Bézout solve is attempted on
	// polynomials that share a nonconstant factor (e.g. non-membership
	// witness construction for an element that is in fact a member).
	ErrNotCoprime = errors.New("ads: polynomials are not coprime")

	// ErrTrapdoorCollision is returned by the trapdoor-holding delete
	// operation when the element being removed equals the secret scalar
	// itself — cryptographically negligible, but must be surfaced rather
	// than silently miscomputed.
	ErrTrapdoorCollision = errors.New("ads: element collides with the accumulator trapdoor")

	// ErrKeyNotPresent is returned by operations that require an existing
	// live key (delete, update, membership-witness construction) when no
	// such key exists. Select reports absence with a nil result instead.
	ErrKeyNotPresent = errors.New("ads: key not present")

	// ErrFidNotPresent is returned when an operation names a document
	// identifier that is not a member of the key's current fid set.
	ErrFidNotPresent = errors.New("ads: document identifier not present for key")

	// ErrSerialization is returned by the PP encode/decode helpers on
	// malformed or truncated input.
	ErrSerialization = errors.New("ads: serialization error")

	// ErrDegreeTooLarge is returned when a polynomial commitment would
	// exceed the loaded public parameters' degree bound N.
	ErrDegreeTooLarge = errors.New("ads: polynomial degree exceeds public parameter bound")

	// ErrNotSubset is returned when an intersection witness is requested
	// for a claimed intersection set that is not actually a subset of
	// both input sets.
	ErrNotSubset = errors.New("ads: claimed intersection is not a subset of both sets")
)
