// Package element encodes a semantic set of string keys into the vector of
// Fr elements the cryptographic layer operates on. Order is unspecified
// since the accumulator polynomial does not depend on it; duplicates must
// already be merged by the caller (a Go map key set naturally has no
// duplicates).
package element

import (
	"crypto/sha256"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/MuriData/ads-accumulator/internal/group"
)

// Digest hashes a single key with the module's collision-resistant hash
// (SHA-256) and reduces it to Fr.
func Digest(key string) group.Fr {
	sum := sha256.Sum256([]byte(key))
	return group.DigestToFr(sum)
}

// EncodeSet maps a set of keys to their Fr encodings in parallel, splitting
// the input into contiguous chunks run under an errgroup.Group. The
// returned slice has the same length as keys but no defined order
// correspondence beyond index-for-index with the input slice.
func EncodeSet(keys []string) []group.Fr {
	out := make([]group.Fr, len(keys))
	if len(keys) == 0 {
		return out
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > len(keys) {
		numWorkers = len(keys)
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	chunkSize := (len(keys) + numWorkers - 1) / numWorkers
	g := new(errgroup.Group)
	for start := 0; start < len(keys); start += chunkSize {
		end := start + chunkSize
		if end > len(keys) {
			end = len(keys)
		}
		start, end := start, end
		g.Go(func() error {
			for i := start; i < end; i++ {
				out[i] = Digest(keys[i])
			}
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// EncodeKeySet is a convenience wrapper over EncodeSet for a map-shaped key
// set.
func EncodeKeySet(keys map[string]struct{}) []group.Fr {
	list := make([]string, 0, len(keys))
	for k := range keys {
		list = append(list, k)
	}
	return EncodeSet(list)
}
