// Package response defines the combined Merkle-plus-accumulator response
// objects returned by query and mutation operations, and the free-function
// verifiers that check them using only public parameters.
package response

import (
	"github.com/MuriData/ads-accumulator/internal/accumulator"
	"github.com/MuriData/ads-accumulator/internal/element"
	"github.com/MuriData/ads-accumulator/internal/node"
	"github.com/MuriData/ads-accumulator/internal/proof"
)

// MerkleProof is a root-hash-reconstructing sibling path from a leaf.
type MerkleProof struct {
	RootHash node.Hash
	LeafHash node.Hash
	Path     []node.PathStep
}

// reconstructRoot replays the sibling path from leafHash up to a root hash.
func reconstructRoot(leafHash node.Hash, path []node.PathStep) node.Hash {
	cur := leafHash
	for _, step := range path {
		if step.SiblingIsLeft {
			cur = node.HashInternal(step.SiblingHash, cur)
		} else {
			cur = node.HashInternal(cur, step.SiblingHash)
		}
	}
	return cur
}

// Verify checks that replaying Path from LeafHash reconstructs RootHash.
func (mp MerkleProof) Verify() bool {
	return reconstructRoot(mp.LeafHash, mp.Path) == mp.RootHash
}

// QueryResponse answers a lookup: the fid set (nil if absent), an optional
// Merkle proof binding a live leaf, the accumulator the proof runs
// against, and an accumulator proof over that same accumulator —
// membership when the key was found, non-membership otherwise.
type QueryResponse struct {
	Key          string
	Fids         map[string]struct{}
	Merkle       *MerkleProof
	Accumulator  accumulator.Commitment
	Membership   *proof.MembershipProof
	NonMembership *proof.NonMembershipProof
}

// VerifyQuery checks the Merkle path (when present) reconstructs a leaf
// hash recomputed from (key, fids, level, tombstoned=false) and that
// exactly one of the accumulator proofs verifies against Accumulator.
func VerifyQuery(r QueryResponse) bool {
	if r.Merkle != nil {
		wantLeaf := node.HashLeaf(r.Key, r.Fids, 0, false)
		if wantLeaf != r.Merkle.LeafHash {
			return false
		}
		if !r.Merkle.Verify() {
			return false
		}
	}

	x := element.Digest(r.Key)
	switch {
	case r.Membership != nil && r.NonMembership == nil:
		ok, err := r.Membership.Verify(r.Accumulator, x)
		return err == nil && ok
	case r.NonMembership != nil && r.Membership == nil:
		ok, err := r.NonMembership.Verify(r.Accumulator, x)
		return err == nil && ok
	default:
		return false
	}
}

// InsertResponse binds a pre-state non-membership proof (key was absent
// before) to a post-state membership proof (key is present with the
// inserted fid after), plus the Merkle proof for the post state.
type InsertResponse struct {
	Key          string
	Fid          string
	PostFids     map[string]struct{}
	PreAcc       accumulator.Commitment
	PostAcc      accumulator.Commitment
	PreProof     proof.NonMembershipProof
	PostProof    proof.MembershipProof
	PostMerkle   MerkleProof
}

// VerifyInsert checks the pre-state non-membership proof, the post-state
// membership proof, and that the post Merkle proof binds (key, PostFids)
// with the inserted fid present.
func VerifyInsert(r InsertResponse) bool {
	x := element.Digest(r.Key)

	ok, err := r.PreProof.Verify(r.PreAcc, x)
	if err != nil || !ok {
		return false
	}
	ok, err = r.PostProof.Verify(r.PostAcc, x)
	if err != nil || !ok {
		return false
	}

	if _, present := r.PostFids[r.Fid]; !present {
		return false
	}
	wantLeaf := node.HashLeaf(r.Key, r.PostFids, 0, false)
	if wantLeaf != r.PostMerkle.LeafHash {
		return false
	}
	return r.PostMerkle.Verify()
}

// UpdateResponse records a fid replacement on an unchanged key set: the
// accumulator and Merkle sibling structure do not move, only the leaf's
// fid contents do.
type UpdateResponse struct {
	Key      string
	OldFid   string
	NewFid   string
	OldFids  map[string]struct{}
	NewFids  map[string]struct{}
	PreMerkle  MerkleProof
	PostMerkle MerkleProof
	PreAcc     accumulator.Commitment
	PostAcc    accumulator.Commitment
	PreProof   proof.MembershipProof
	PostProof  proof.MembershipProof
}

// VerifyUpdate checks the fid replacement is well-formed, both Merkle
// proofs bind leaf hashes recomputed from (key, OldFids) and (key, NewFids)
// and verify with identical sibling structure, and both membership
// witnesses verify against (necessarily equal) pre/post accumulators.
func VerifyUpdate(r UpdateResponse) bool {
	if _, ok := r.OldFids[r.OldFid]; !ok {
		return false
	}
	if !sameFidsAfterSwap(r.OldFids, r.NewFids, r.OldFid, r.NewFid) {
		return false
	}
	if node.HashLeaf(r.Key, r.OldFids, 0, false) != r.PreMerkle.LeafHash ||
		node.HashLeaf(r.Key, r.NewFids, 0, false) != r.PostMerkle.LeafHash {
		return false
	}

	if !r.PreMerkle.Verify() || !r.PostMerkle.Verify() {
		return false
	}
	if !samePath(r.PreMerkle.Path, r.PostMerkle.Path) {
		return false
	}

	x := element.Digest(r.Key)
	ok, err := r.PreProof.Verify(r.PreAcc, x)
	if err != nil || !ok {
		return false
	}
	ok, err = r.PostProof.Verify(r.PostAcc, x)
	if err != nil || !ok {
		return false
	}
	return r.PreAcc.Equal(&r.PostAcc)
}

// DeleteResponse records the fid removal and, when it empties the fid set,
// the resulting tombstoned leaf.
type DeleteResponse struct {
	Key        string
	DeletedFid string
	OldFids    map[string]struct{}
	NewFids    map[string]struct{}
	PreMerkle  MerkleProof
	PostMerkle MerkleProof
	PreAcc     accumulator.Commitment
	PostAcc    accumulator.Commitment
	PreProof   proof.MembershipProof
}

// VerifyDelete checks the fid removal is well-formed, both Merkle proofs
// verify with identical sibling structure, the pre-state membership
// witness verifies, and — when NewFids is empty — the post leaf hash is
// the canonical empty-leaf (tombstoned) hash.
func VerifyDelete(r DeleteResponse) bool {
	if _, ok := r.OldFids[r.DeletedFid]; !ok {
		return false
	}
	if !sameFidsAfterRemoval(r.OldFids, r.NewFids, r.DeletedFid) {
		return false
	}

	if !r.PreMerkle.Verify() || !r.PostMerkle.Verify() {
		return false
	}
	if !samePath(r.PreMerkle.Path, r.PostMerkle.Path) {
		return false
	}

	x := element.Digest(r.Key)
	ok, err := r.PreProof.Verify(r.PreAcc, x)
	if err != nil || !ok {
		return false
	}

	if len(r.NewFids) == 0 {
		wantLeaf := node.HashLeaf(r.Key, r.NewFids, 0, true)
		return wantLeaf == r.PostMerkle.LeafHash
	}
	return true
}

func sameFidsAfterSwap(oldFids, newFids map[string]struct{}, oldFid, newFid string) bool {
	want := make(map[string]struct{}, len(oldFids))
	for f := range oldFids {
		want[f] = struct{}{}
	}
	delete(want, oldFid)
	want[newFid] = struct{}{}
	return sameSet(want, newFids)
}

func sameFidsAfterRemoval(oldFids, newFids map[string]struct{}, removed string) bool {
	want := make(map[string]struct{}, len(oldFids))
	for f := range oldFids {
		want[f] = struct{}{}
	}
	delete(want, removed)
	return sameSet(want, newFids)
}

func sameSet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func samePath(a, b []node.PathStep) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
