// Package forest implements the binomial Merkle-accumulator forest: a list
// of perfect-binary-tree roots ordered by strictly increasing level, kept
// normalized (no two roots share a level) after every insert.
package forest

import (
	"sort"

	"github.com/bits-and-blooms/bitset"
	"github.com/rs/zerolog/log"

	"github.com/MuriData/ads-accumulator/internal/accumulator"
	"github.com/MuriData/ads-accumulator/internal/element"
	"github.com/MuriData/ads-accumulator/internal/errs"
	"github.com/MuriData/ads-accumulator/internal/node"
)

// Forest holds the current roots plus a cached global commitment over every
// live key across all roots, recommitted from scratch after every mutation
// that can change the live key set, so non-membership queries against keys
// absent from every root don't require an O(n) rescan at query time.
type Forest struct {
	roots      []*node.Node
	globalKeys *node.KeySet
	globalAcc  accumulator.Commitment
}

// New returns an empty forest.
func New() (*Forest, error) {
	acc, err := accumulator.CommitFromSet(nil)
	if err != nil {
		return nil, err
	}
	return &Forest{
		roots:      nil,
		globalKeys: node.NewKeySet(),
		globalAcc:  acc,
	}, nil
}

// Roots returns the current roots, ordered by increasing level.
func (f *Forest) Roots() []*node.Node {
	return f.roots
}

// GlobalCommitment returns the accumulator over every live key across all
// roots, used as the non-membership basis when a queried key is absent
// from the entire forest.
func (f *Forest) GlobalCommitment() accumulator.Commitment {
	return f.globalAcc
}

// GlobalKeys returns the live keys backing GlobalCommitment, in sorted
// order.
func (f *Forest) GlobalKeys() []string {
	return f.globalKeys.Keys()
}

// Insert adds fid under key: if key is already live in some root, fid is
// added to its fid set; if key is tombstoned in some root, that root is
// revived; otherwise a fresh level-0 leaf is pushed. Normalize runs
// whenever the forest's shape may have changed.
func (f *Forest) Insert(key, fid string) error {
	for _, r := range f.roots {
		if r.HasKey(key) {
			if err := r.InsertFid(key, fid); err != nil {
				return err
			}
			return nil
		}
	}

	for i, r := range f.roots {
		if containsTombstoned(r, key) {
			f.roots = append(f.roots[:i:i], f.roots[i+1:]...)
			if err := r.Revive(key, fid); err != nil {
				return err
			}
			f.roots = append(f.roots, r)
			return f.normalize()
		}
	}

	f.roots = append(f.roots, node.NewLeaf(key, fid))
	return f.normalize()
}

// Delete removes fid from key's live fid set, tombstoning the leaf if the
// fid set becomes empty. The forest's shape is unchanged; only hashes and
// accumulators along the affected path (and the global commitment) move.
func (f *Forest) Delete(key, fid string) error {
	r := f.rootFor(key)
	if r == nil {
		return errs.ErrKeyNotPresent
	}
	if err := r.DeleteFid(key, fid); err != nil {
		return err
	}
	return f.recomputeGlobal()
}

// Update replaces fOld with fNew on key's live leaf. No structural change,
// and the global commitment is unaffected since the live key set is
// unchanged.
func (f *Forest) Update(key, fOld, fNew string) error {
	r := f.rootFor(key)
	if r == nil {
		return errs.ErrKeyNotPresent
	}
	return r.UpdateFid(key, fOld, fNew)
}

// Select returns the live fid set for key, or nil if absent.
func (f *Forest) Select(key string) map[string]struct{} {
	r := f.rootFor(key)
	if r == nil {
		return nil
	}
	return r.Select(key)
}

// SelectWithProof scans roots for key; if found, descends the owning root
// collecting the sibling path and returns it along with that root's hash
// and accumulator. The bool return is false iff key is absent from every
// root.
func (f *Forest) SelectWithProof(key string) (fids map[string]struct{}, rootHash node.Hash, path []node.PathStep, acc accumulator.Commitment, found bool) {
	for _, r := range f.roots {
		if r.HasKey(key) {
			fids, path, found = r.SelectWithProof(key)
			return fids, r.HashValue, path, r.Accumulator, found
		}
	}
	return nil, node.Hash{}, nil, accumulator.Commitment{}, false
}

// rootFor returns the root currently holding key as a live leaf, or nil.
func (f *Forest) rootFor(key string) *node.Node {
	for _, r := range f.roots {
		if r.HasKey(key) {
			return r
		}
	}
	return nil
}

// containsTombstoned reports whether key appears as a tombstoned leaf
// anywhere in r's subtree.
func containsTombstoned(r *node.Node, key string) bool {
	if r == nil {
		return false
	}
	if r.IsLeaf {
		return r.Key == key && r.Tombstoned
	}
	return containsTombstoned(r.Left, key) || containsTombstoned(r.Right, key)
}

// normalize performs binomial merges until all roots hold distinct levels,
// then refreshes the global commitment.
func (f *Forest) normalize() error {
	sort.Slice(f.roots, func(i, j int) bool { return f.roots[i].Level < f.roots[j].Level })

	occupied := bitset.New(64)
	var stack []*node.Node
	for _, r := range f.roots {
		cur := r
		for occupied.Test(uint(cur.Level)) {
			// Find and pop the existing root at this level.
			idx := -1
			for i, s := range stack {
				if s.Level == cur.Level {
					idx = i
					break
				}
			}
			other := stack[idx]
			stack = append(stack[:idx], stack[idx+1:]...)
			occupied.Clear(uint(other.Level))

			merged, err := node.Merge(other, cur)
			if err != nil {
				return err
			}
			cur = merged
		}
		occupied.Set(uint(cur.Level))
		stack = append(stack, cur)
	}

	sort.Slice(stack, func(i, j int) bool { return stack[i].Level < stack[j].Level })
	f.roots = stack

	log.Debug().Int("root_count", len(f.roots)).Msg("forest normalized")
	return f.recomputeGlobal()
}

// recomputeGlobal rebuilds the global commitment and key set from the
// current roots' live key sets.
func (f *Forest) recomputeGlobal() error {
	var merged *node.KeySet
	for _, r := range f.roots {
		if merged == nil {
			merged = r.Keys
		} else {
			merged = node.Union(merged, r.Keys)
		}
	}
	if merged == nil {
		merged = node.NewKeySet()
	}
	f.globalKeys = merged

	elems := element.EncodeSet(merged.Keys())
	acc, err := accumulator.CommitFromSet(elems)
	if err != nil {
		return err
	}
	f.globalAcc = acc
	return nil
}
