// Package node implements a single level of the accumulator-augmented
// Merkle forest: leaf and internal nodes, their hashes, their accumulator
// commitments, and the descent primitives the forest drives lookups and
// mutations through.
package node

import (
	"crypto/sha256"
	"encoding/binary"
	"sort"

	"github.com/MuriData/ads-accumulator/internal/accumulator"
	"github.com/MuriData/ads-accumulator/internal/element"
	"github.com/MuriData/ads-accumulator/internal/errs"
)

// Domain tags for leaf hashing. A live leaf hashes differently from a
// tombstoned one even when their key/fid bytes would otherwise collide.
const (
	domainTagTombstoned = 0
	domainTagLive       = 1
)

// Hash is the 32-byte digest stored at every node.
type Hash [32]byte

// KeySet is a shared, immutable handle to the set of live keys in a
// subtree. Multiple nodes may alias the same *KeySet; it is never mutated
// after construction, only replaced.
type KeySet struct {
	m map[string]struct{}
}

// NewKeySet builds a KeySet from the given keys (duplicates collapse).
func NewKeySet(keys ...string) *KeySet {
	m := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		m[k] = struct{}{}
	}
	return &KeySet{m: m}
}

// Has reports whether k is present.
func (s *KeySet) Has(k string) bool {
	if s == nil {
		return false
	}
	_, ok := s.m[k]
	return ok
}

// Len returns the number of keys held.
func (s *KeySet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.m)
}

// Keys returns the held keys in sorted order.
func (s *KeySet) Keys() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.m))
	for k := range s.m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Union returns a new KeySet holding every key in a or b, copying from the
// larger set and adding only the smaller set's keys on top (the cheaper
// side of a copy-on-write merge).
func Union(a, b *KeySet) *KeySet {
	if a.Len() < b.Len() {
		a, b = b, a
	}
	m := make(map[string]struct{}, a.Len()+b.Len())
	for k := range a.m {
		m[k] = struct{}{}
	}
	for k := range b.m {
		m[k] = struct{}{}
	}
	return &KeySet{m: m}
}

// Node is a node of a perfect binary tree: a leaf carries a single key and
// its live fid set, an internal node carries two children. Both carry a
// hash, a level, and the accumulator commitment over their subtree's live
// keys.
type Node struct {
	Level       int
	IsLeaf      bool
	HashValue   Hash
	Keys        *KeySet
	Accumulator accumulator.Commitment

	// Leaf fields.
	Key        string
	Fids       map[string]struct{}
	Tombstoned bool

	// Internal fields.
	Left, Right *Node
}

// NewLeaf builds a fresh level-0 leaf for key with the given fid already
// present.
func NewLeaf(key, fid string) *Node {
	n := &Node{
		Level: 0,
		IsLeaf: true,
		Key:    key,
		Fids:   map[string]struct{}{fid: {}},
	}
	n.Keys = NewKeySet(key)
	n.refresh()
	return n
}

// HasKey reports whether k is live anywhere in this subtree.
func (n *Node) HasKey(k string) bool {
	if n == nil {
		return false
	}
	if n.IsLeaf {
		return n.Key == k && !n.Tombstoned
	}
	return n.Keys.Has(k)
}

// Select returns the live fid set for k, or nil if absent.
func (n *Node) Select(k string) map[string]struct{} {
	if n == nil {
		return nil
	}
	if n.IsLeaf {
		if n.Key == k && !n.Tombstoned {
			return n.Fids
		}
		return nil
	}
	if !n.Keys.Has(k) {
		return nil
	}
	if n.Left.HasKey(k) {
		return n.Left.Select(k)
	}
	return n.Right.Select(k)
}

// PathStep is a single sibling hash collected while descending towards a
// leaf; a path lists its steps in leaf-to-root order.
type PathStep struct {
	SiblingHash   Hash
	SiblingIsLeft bool
}

// SelectWithProof returns the live fid set for k together with the sibling
// path from the leaf up to this node's level, in leaf-to-root order: each
// ancestor appends its step as the recursion unwinds.
func (n *Node) SelectWithProof(k string) (map[string]struct{}, []PathStep, bool) {
	if n == nil {
		return nil, nil, false
	}
	if n.IsLeaf {
		if n.Key == k && !n.Tombstoned {
			return n.Fids, nil, true
		}
		return nil, nil, false
	}
	if !n.Keys.Has(k) {
		return nil, nil, false
	}
	var fids map[string]struct{}
	var path []PathStep
	var ok bool
	if n.Left.HasKey(k) {
		fids, path, ok = n.Left.SelectWithProof(k)
		path = append(path, PathStep{SiblingHash: n.Right.HashValue, SiblingIsLeft: false})
	} else {
		fids, path, ok = n.Right.SelectWithProof(k)
		path = append(path, PathStep{SiblingHash: n.Left.HashValue, SiblingIsLeft: true})
	}
	return fids, path, ok
}

// InsertFid adds fid to the live leaf for k and propagates hash (and, if
// the key set changed — it never does for a plain fid insert on an
// existing key — accumulator) recomputation up.
func (n *Node) InsertFid(k, fid string) error {
	return n.mutateLeaf(k, func(leaf *Node) error {
		if leaf.Tombstoned {
			return errs.ErrKeyNotPresent
		}
		leaf.Fids[fid] = struct{}{}
		return nil
	})
}

// DeleteFid removes fid from the live leaf for k; if that empties the fid
// set, the leaf is tombstoned (its key leaves the subtree's live key set).
func (n *Node) DeleteFid(k, fid string) error {
	return n.mutateLeaf(k, func(leaf *Node) error {
		if leaf.Tombstoned {
			return errs.ErrKeyNotPresent
		}
		if _, ok := leaf.Fids[fid]; !ok {
			return errs.ErrFidNotPresent
		}
		delete(leaf.Fids, fid)
		if len(leaf.Fids) == 0 {
			leaf.Tombstoned = true
		}
		return nil
	})
}

// UpdateFid replaces fOld with fNew on the live leaf for k.
func (n *Node) UpdateFid(k, fOld, fNew string) error {
	return n.mutateLeaf(k, func(leaf *Node) error {
		if leaf.Tombstoned {
			return errs.ErrKeyNotPresent
		}
		if _, ok := leaf.Fids[fOld]; !ok {
			return errs.ErrFidNotPresent
		}
		delete(leaf.Fids, fOld)
		leaf.Fids[fNew] = struct{}{}
		return nil
	})
}

// Revive clears a tombstoned leaf matching k, setting its fid set to {fid},
// and propagates hash and accumulator recomputation up.
func (n *Node) Revive(k, fid string) error {
	return n.mutateLeaf(k, func(leaf *Node) error {
		if !leaf.Tombstoned {
			return nil
		}
		leaf.Tombstoned = false
		leaf.Fids = map[string]struct{}{fid: {}}
		return nil
	})
}

// mutateLeaf finds the leaf for k, applies fn, and recomputes hashes (and
// accumulators, when the live key set may have changed) from that leaf back
// up to n.
func (n *Node) mutateLeaf(k string, fn func(leaf *Node) error) error {
	if n == nil {
		return errs.ErrKeyNotPresent
	}
	if n.IsLeaf {
		if n.Key != k {
			return errs.ErrKeyNotPresent
		}
		if err := fn(n); err != nil {
			return err
		}
		n.refresh()
		return nil
	}
	var err error
	if n.Left.containsKeyAnywhere(k) {
		err = n.Left.mutateLeaf(k, fn)
	} else if n.Right.containsKeyAnywhere(k) {
		err = n.Right.mutateLeaf(k, fn)
	} else {
		return errs.ErrKeyNotPresent
	}
	if err != nil {
		return err
	}
	n.recompute()
	return nil
}

// containsKeyAnywhere reports whether k appears as a leaf in this subtree,
// live or tombstoned (unlike HasKey, which only reports live keys).
func (n *Node) containsKeyAnywhere(k string) bool {
	if n == nil {
		return false
	}
	if n.IsLeaf {
		return n.Key == k
	}
	return n.Left.containsKeyAnywhere(k) || n.Right.containsKeyAnywhere(k)
}

// refresh recomputes a leaf's hash and single-element accumulator from its
// current key/fids/tombstone state.
func (n *Node) refresh() {
	n.HashValue = HashLeaf(n.Key, n.Fids, n.Level, n.Tombstoned)
	if n.Tombstoned {
		n.Keys = NewKeySet()
		c, err := accumulator.CommitFromSet(nil)
		if err == nil {
			n.Accumulator = c
		}
		return
	}
	n.Keys = NewKeySet(n.Key)
	c, err := accumulator.CommitFromSet(element.EncodeSet([]string{n.Key}))
	if err == nil {
		n.Accumulator = c
	}
}

// recompute rebuilds an internal node's hash, key set, and accumulator from
// its (already up to date) children — the composition step used both at
// merge time and after a leaf mutation propagates upward.
func (n *Node) recompute() {
	n.HashValue = HashInternal(n.Left.HashValue, n.Right.HashValue)
	n.Keys = Union(n.Left.Keys, n.Right.Keys)
	elems := element.EncodeSet(n.Keys.Keys())
	if c, err := accumulator.CommitFromSet(elems); err == nil {
		n.Accumulator = c
	}
}

// Merge composes left L and right R siblings at the same level into their
// shared parent. The new key set is the union of the two; the new
// accumulator is committed fresh over that union rather than recombining
// L's and R's commitments directly, since P_{L cup R}(s) does not factor
// into P_L(s) and P_R(s) alone without the delta's individual roots, which
// CommitFromSet already derives internally from the merged key list.
func Merge(l, r *Node) (*Node, error) {
	keys := Union(l.Keys, r.Keys)
	elems := element.EncodeSet(keys.Keys())
	acc, err := accumulator.CommitFromSet(elems)
	if err != nil {
		return nil, err
	}

	parent := &Node{
		Level:       l.Level + 1,
		IsLeaf:      false,
		Left:        l,
		Right:       r,
		Keys:        keys,
		Accumulator: acc,
	}
	parent.HashValue = HashInternal(l.HashValue, r.HashValue)
	return parent, nil
}

// EmptyLeafHash is the canonical hash every tombstoned leaf carries,
// regardless of the key that used to live there. Computed once at package
// init from the empty key and an empty fid set.
var EmptyLeafHash = computeLeafHash("", nil, 0, true)

// HashLeaf hashes a leaf's identity: key, sorted fid set, level, and a
// tombstone-aware domain tag, so a live and a tombstoned leaf with
// otherwise identical byte layouts never collide. Every tombstoned leaf
// collapses to the same EmptyLeafHash: once a key is fully deleted, its
// hash must no longer depend on which key it was.
func HashLeaf(key string, fids map[string]struct{}, level int, tombstoned bool) Hash {
	if tombstoned {
		return EmptyLeafHash
	}
	return computeLeafHash(key, fids, level, false)
}

func computeLeafHash(key string, fids map[string]struct{}, level int, tombstoned bool) Hash {
	h := sha256.New()

	tag := byte(domainTagLive)
	if tombstoned {
		tag = domainTagTombstoned
	}
	h.Write([]byte{tag})

	writeLenPrefixed(h, []byte(key))

	sorted := make([]string, 0, len(fids))
	for f := range fids {
		sorted = append(sorted, f)
	}
	sort.Strings(sorted)

	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(sorted)))
	h.Write(countBuf[:])
	for _, f := range sorted {
		writeLenPrefixed(h, []byte(f))
	}

	var levelBuf [8]byte
	binary.BigEndian.PutUint64(levelBuf[:], uint64(int64(level)))
	h.Write(levelBuf[:])

	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// HashInternal hashes two child hashes together.
func HashInternal(left, right Hash) Hash {
	h := sha256.New()
	h.Write(left[:])
	h.Write(right[:])
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

func writeLenPrefixed(h interface{ Write([]byte) (int, error) }, b []byte) {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(b)))
	h.Write(lenBuf[:])
	h.Write(b)
}
