// Package params implements the public-parameter store: a process-wide,
// read-mostly singleton holding (g1^{s^i}) and (g2^{s^i}) for i in [0, N].
// Reads take a shared read lock, so concurrent readers do not block each
// other; they are not wait-free, since a reader waits while Initialize holds
// the exclusive lock. No component may compute a commitment or verify a
// proof without it.
package params

import (
	"bufio"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/MuriData/ads-accumulator/internal/errs"
	"github.com/MuriData/ads-accumulator/internal/group"
)

// magic identifies the canonical PP serialization format.
const magic = "ADSPP001"

// Store holds the loaded public parameters. The package-level singleton
// (see Initialize/Initialized/G1Pow/G2Pow below) is the production entry
// point; Store itself is exported so tests can construct independent,
// non-singleton instances without touching global state.
type Store struct {
	g1Powers    []group.G1
	g2Powers    []group.G2
	fingerprint [32]byte
}

// NewStore builds a Store directly from precomputed power vectors. Used by
// internal/paramsgen (trapdoor-holding generation) and by tests.
func NewStore(g1Powers []group.G1, g2Powers []group.G2) (*Store, error) {
	if len(g1Powers) == 0 || len(g1Powers) != len(g2Powers) {
		return nil, fmt.Errorf("%w: mismatched or empty power vectors", errs.ErrSerialization)
	}
	s := &Store{g1Powers: g1Powers, g2Powers: g2Powers}
	var buf writeCounter
	if err := s.Serialize(&buf); err != nil {
		return nil, err
	}
	s.fingerprint = sha256.Sum256(buf.data)
	return s, nil
}

// MaxDegree returns N, the highest available power index.
func (s *Store) MaxDegree() int {
	return len(s.g1Powers) - 1
}

// G1Pow returns g1^{s^i}.
func (s *Store) G1Pow(i int) (group.G1, error) {
	if i < 0 || i >= len(s.g1Powers) {
		return group.G1{}, errs.ErrParamsOutOfRange
	}
	return s.g1Powers[i], nil
}

// G2Pow returns g2^{s^i}.
func (s *Store) G2Pow(i int) (group.G2, error) {
	if i < 0 || i >= len(s.g2Powers) {
		return group.G2{}, errs.ErrParamsOutOfRange
	}
	return s.g2Powers[i], nil
}

// G1Powers returns the full backing slice of g1 powers up to and including
// degree maxDeg (inclusive), for callers (poly.CommitG1) that need a
// contiguous base vector for MSM. It never exceeds the loaded degree bound.
func (s *Store) G1Powers(maxDeg int) ([]group.G1, error) {
	if maxDeg < 0 || maxDeg >= len(s.g1Powers) {
		return nil, errs.ErrParamsOutOfRange
	}
	return s.g1Powers[:maxDeg+1], nil
}

func (s *Store) G2Powers(maxDeg int) ([]group.G2, error) {
	if maxDeg < 0 || maxDeg >= len(s.g2Powers) {
		return nil, errs.ErrParamsOutOfRange
	}
	return s.g2Powers[:maxDeg+1], nil
}

// Fingerprint returns the SHA-256 fingerprint of the canonical serialization.
func (s *Store) Fingerprint() [32]byte {
	return s.fingerprint
}

// Serialize writes the canonical encoding of Store: a fixed-order sequence
// of magic | len(g1Powers) | g1Powers... | len(g2Powers) | g2Powers..., each
// curve point in its canonical compressed form.
func (s *Store) Serialize(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(magic); err != nil {
		return fmt.Errorf("%w: write magic: %v", errs.ErrSerialization, err)
	}
	if err := binary.Write(bw, binary.BigEndian, uint32(len(s.g1Powers))); err != nil {
		return fmt.Errorf("%w: write g1 length: %v", errs.ErrSerialization, err)
	}
	for _, p := range s.g1Powers {
		b := p.Bytes()
		if _, err := bw.Write(b[:]); err != nil {
			return fmt.Errorf("%w: write g1 power: %v", errs.ErrSerialization, err)
		}
	}
	if err := binary.Write(bw, binary.BigEndian, uint32(len(s.g2Powers))); err != nil {
		return fmt.Errorf("%w: write g2 length: %v", errs.ErrSerialization, err)
	}
	for _, p := range s.g2Powers {
		b := p.Bytes()
		if _, err := bw.Write(b[:]); err != nil {
			return fmt.Errorf("%w: write g2 power: %v", errs.ErrSerialization, err)
		}
	}
	return bw.Flush()
}

// LoadStore reads a Store previously written by Serialize.
func LoadStore(r io.Reader) (*Store, error) {
	br := bufio.NewReader(r)

	magicBuf := make([]byte, len(magic))
	if _, err := io.ReadFull(br, magicBuf); err != nil {
		return nil, fmt.Errorf("%w: read magic: %v", errs.ErrSerialization, err)
	}
	if string(magicBuf) != magic {
		return nil, fmt.Errorf("%w: bad magic %q", errs.ErrSerialization, magicBuf)
	}

	var n1 uint32
	if err := binary.Read(br, binary.BigEndian, &n1); err != nil {
		return nil, fmt.Errorf("%w: read g1 length: %v", errs.ErrSerialization, err)
	}
	g1Powers := make([]group.G1, n1)
	for i := range g1Powers {
		var b [48]byte
		if _, err := io.ReadFull(br, b[:]); err != nil {
			return nil, fmt.Errorf("%w: read g1 power %d: %v", errs.ErrSerialization, i, err)
		}
		if _, err := g1Powers[i].SetBytes(b[:]); err != nil {
			return nil, fmt.Errorf("%w: decode g1 power %d: %v", errs.ErrSerialization, i, err)
		}
	}

	var n2 uint32
	if err := binary.Read(br, binary.BigEndian, &n2); err != nil {
		return nil, fmt.Errorf("%w: read g2 length: %v", errs.ErrSerialization, err)
	}
	g2Powers := make([]group.G2, n2)
	for i := range g2Powers {
		var b [96]byte
		if _, err := io.ReadFull(br, b[:]); err != nil {
			return nil, fmt.Errorf("%w: read g2 power %d: %v", errs.ErrSerialization, i, err)
		}
		if _, err := g2Powers[i].SetBytes(b[:]); err != nil {
			return nil, fmt.Errorf("%w: decode g2 power %d: %v", errs.ErrSerialization, i, err)
		}
	}

	return NewStore(g1Powers, g2Powers)
}

// writeCounter is a minimal io.Writer that just accumulates bytes, used to
// compute a fingerprint without a second full serialization pass.
type writeCounter struct {
	data []byte
}

func (w *writeCounter) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}

// ---------------------------------------------------------------------------
// Process-wide singleton
// ---------------------------------------------------------------------------

var (
	mu       sync.RWMutex
	singleton *Store
)

// Initialize installs src as the process-wide public parameters. It is
// idempotent: a second call whose fingerprint matches the installed one is a
// no-op success; a second call with a different fingerprint fails with
// ErrParamsAlreadyInitialized. Concurrent readers never block on each other;
// Initialize itself is serialized by an exclusive writer gate.
func Initialize(src io.Reader) error {
	store, err := LoadStore(src)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	if singleton != nil {
		if singleton.Fingerprint() == store.Fingerprint() {
			return nil
		}
		return errs.ErrParamsAlreadyInitialized
	}

	singleton = store
	log.Info().
		Int("max_degree", store.MaxDegree()).
		Str("fingerprint", fmt.Sprintf("%x", store.Fingerprint()[:8])).
		Msg("public parameters initialized")
	return nil
}

// Initialized reports whether the singleton has been installed.
func Initialized() bool {
	mu.RLock()
	defer mu.RUnlock()
	return singleton != nil
}

// current returns the installed singleton or ErrParamsUninitialized.
func current() (*Store, error) {
	mu.RLock()
	defer mu.RUnlock()
	if singleton == nil {
		return nil, errs.ErrParamsUninitialized
	}
	return singleton, nil
}

// G1Pow, G2Pow, MaxDegree, G1Powers, G2Powers delegate to the installed
// singleton.

func G1Pow(i int) (group.G1, error) {
	s, err := current()
	if err != nil {
		return group.G1{}, err
	}
	return s.G1Pow(i)
}

func G2Pow(i int) (group.G2, error) {
	s, err := current()
	if err != nil {
		return group.G2{}, err
	}
	return s.G2Pow(i)
}

func MaxDegree() (int, error) {
	s, err := current()
	if err != nil {
		return 0, err
	}
	return s.MaxDegree(), nil
}

func G1Powers(maxDeg int) ([]group.G1, error) {
	s, err := current()
	if err != nil {
		return nil, err
	}
	return s.G1Powers(maxDeg)
}

func G2Powers(maxDeg int) ([]group.G2, error) {
	s, err := current()
	if err != nil {
		return nil, err
	}
	return s.G2Powers(maxDeg)
}

// resetForTest clears the singleton. Only called from tests in this package
// and sibling packages' test files via the exported ResetForTest below.
func resetForTest() {
	mu.Lock()
	defer mu.Unlock()
	singleton = nil
}

// ResetForTest clears the process-wide singleton so tests can install fresh
// parameters. It must never be called from production code paths.
func ResetForTest() {
	resetForTest()
}
