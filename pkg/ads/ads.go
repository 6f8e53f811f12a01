// Package ads is the public facade: a Dictionary wraps the forest and
// exposes insert/update/delete/select plus their proof-carrying
// counterparts, built only from public parameters.
package ads

import (
	"github.com/MuriData/ads-accumulator/internal/element"
	"github.com/MuriData/ads-accumulator/internal/errs"
	"github.com/MuriData/ads-accumulator/internal/forest"
	"github.com/MuriData/ads-accumulator/internal/node"
	"github.com/MuriData/ads-accumulator/internal/proof"
	"github.com/MuriData/ads-accumulator/internal/response"
)

// Dictionary is a single-mutator authenticated dictionary: key -> fid set,
// backed by the binomial Merkle-accumulator forest.
type Dictionary struct {
	f *forest.Forest
}

// New returns an empty Dictionary. Public parameters must already be
// initialized (see internal/params.Initialize).
func New() (*Dictionary, error) {
	f, err := forest.New()
	if err != nil {
		return nil, err
	}
	return &Dictionary{f: f}, nil
}

// Insert adds fid under key without producing a proof.
func (d *Dictionary) Insert(key, fid string) error {
	return d.f.Insert(key, fid)
}

// Update replaces fOld with fNew on key's live fid set without producing a
// proof.
func (d *Dictionary) Update(key, fOld, fNew string) error {
	return d.f.Update(key, fOld, fNew)
}

// Delete removes fid from key's live fid set without producing a proof.
func (d *Dictionary) Delete(key, fid string) error {
	return d.f.Delete(key, fid)
}

// Select returns the live fid set for key, or nil if absent.
func (d *Dictionary) Select(key string) map[string]struct{} {
	return d.f.Select(key)
}

// SelectWithProof returns a QueryResponse binding key's fid set (or its
// absence) to a combined Merkle-accumulator proof.
func (d *Dictionary) SelectWithProof(key string) (response.QueryResponse, error) {
	fids, rootHash, path, acc, found := d.f.SelectWithProof(key)
	x := element.Digest(key)

	if found {
		elems := element.EncodeSet(rootLiveKeys(d.f, key))
		mp, err := proof.NewMembershipProof(x, elems)
		if err != nil {
			return response.QueryResponse{}, err
		}
		return response.QueryResponse{
			Key:  key,
			Fids: fids,
			Merkle: &response.MerkleProof{
				RootHash: rootHash,
				LeafHash: node.HashLeaf(key, fids, 0, false),
				Path:     path,
			},
			Accumulator: acc,
			Membership:  &mp,
		}, nil
	}

	globalElems := element.EncodeSet(d.f.GlobalKeys())
	np, err := proof.NewNonMembershipProof(x, globalElems)
	if err != nil {
		return response.QueryResponse{}, err
	}
	return response.QueryResponse{
		Key:           key,
		Fids:          nil,
		Merkle:        nil,
		Accumulator:   d.f.GlobalCommitment(),
		NonMembership: &np,
	}, nil
}

// SelectNonMembershipProof returns a non-membership proof for key against
// the global commitment, or nil if key is in fact present.
func (d *Dictionary) SelectNonMembershipProof(key string) (*proof.NonMembershipProof, error) {
	if d.f.Select(key) != nil {
		return nil, nil
	}
	x := element.Digest(key)
	globalElems := element.EncodeSet(d.f.GlobalKeys())
	np, err := proof.NewNonMembershipProof(x, globalElems)
	if err != nil {
		return nil, err
	}
	return &np, nil
}

// InsertWithProof inserts fid under key and returns an InsertResponse
// binding the pre-state absence (if key was new) to the post-state
// membership.
func (d *Dictionary) InsertWithProof(key, fid string) (response.InsertResponse, error) {
	wasPresent := d.f.Select(key) != nil
	x := element.Digest(key)

	var preNonMembership proof.NonMembershipProof
	preAcc := d.f.GlobalCommitment()
	if !wasPresent {
		var err error
		preNonMembership, err = proof.NewNonMembershipProof(x, element.EncodeSet(d.f.GlobalKeys()))
		if err != nil {
			return response.InsertResponse{}, err
		}
	}

	if err := d.f.Insert(key, fid); err != nil {
		return response.InsertResponse{}, err
	}

	postFids := d.f.Select(key)
	if postFids == nil {
		return response.InsertResponse{}, errs.ErrKeyNotPresent
	}
	_, rootHash, path, postAcc, found := d.f.SelectWithProof(key)
	if !found {
		return response.InsertResponse{}, errs.ErrKeyNotPresent
	}
	elems := element.EncodeSet(rootLiveKeys(d.f, key))
	postProof, err := proof.NewMembershipProof(x, elems)
	if err != nil {
		return response.InsertResponse{}, err
	}

	resp := response.InsertResponse{
		Key:      key,
		Fid:      fid,
		PostFids: postFids,
		PreAcc:   preAcc,
		PostAcc:  postAcc,
		PostProof: postProof,
		PostMerkle: response.MerkleProof{
			RootHash: rootHash,
			LeafHash: node.HashLeaf(key, postFids, 0, false),
			Path:     path,
		},
	}
	if !wasPresent {
		resp.PreProof = preNonMembership
	}
	return resp, nil
}

// UpdateWithProof replaces fOld with fNew on key's live fid set and returns
// an UpdateResponse binding the pre- and post-state Merkle paths and
// membership witnesses, which must be identical in every field except the
// leaf's fid contents.
func (d *Dictionary) UpdateWithProof(key, fOld, fNew string) (response.UpdateResponse, error) {
	oldFids := d.f.Select(key)
	if oldFids == nil {
		return response.UpdateResponse{}, errs.ErrKeyNotPresent
	}
	oldFidsCopy := copyFids(oldFids)

	_, preRootHash, prePath, preAcc, found := d.f.SelectWithProof(key)
	if !found {
		return response.UpdateResponse{}, errs.ErrKeyNotPresent
	}
	x := element.Digest(key)
	rootElems := element.EncodeSet(rootLiveKeys(d.f, key))
	preProof, err := proof.NewMembershipProof(x, rootElems)
	if err != nil {
		return response.UpdateResponse{}, err
	}

	if err := d.f.Update(key, fOld, fNew); err != nil {
		return response.UpdateResponse{}, err
	}

	newFids := d.f.Select(key)
	_, postRootHash, postPath, postAcc, found := d.f.SelectWithProof(key)
	if !found {
		return response.UpdateResponse{}, errs.ErrKeyNotPresent
	}
	postProof, err := proof.NewMembershipProof(x, rootElems)
	if err != nil {
		return response.UpdateResponse{}, err
	}

	return response.UpdateResponse{
		Key:     key,
		OldFid:  fOld,
		NewFid:  fNew,
		OldFids: oldFidsCopy,
		NewFids: newFids,
		PreMerkle: response.MerkleProof{
			RootHash: preRootHash,
			LeafHash: node.HashLeaf(key, oldFidsCopy, 0, false),
			Path:     prePath,
		},
		PostMerkle: response.MerkleProof{
			RootHash: postRootHash,
			LeafHash: node.HashLeaf(key, newFids, 0, false),
			Path:     postPath,
		},
		PreAcc:    preAcc,
		PostAcc:   postAcc,
		PreProof:  preProof,
		PostProof: postProof,
	}, nil
}

// DeleteWithProof removes fid from key's live fid set and returns a
// DeleteResponse binding the pre-state membership witness to the resulting
// (possibly tombstoned) post-state leaf.
func (d *Dictionary) DeleteWithProof(key, fid string) (response.DeleteResponse, error) {
	oldFids := d.f.Select(key)
	if oldFids == nil {
		return response.DeleteResponse{}, errs.ErrKeyNotPresent
	}
	oldFidsCopy := copyFids(oldFids)

	_, preRootHash, prePath, preAcc, found := d.f.SelectWithProof(key)
	if !found {
		return response.DeleteResponse{}, errs.ErrKeyNotPresent
	}
	x := element.Digest(key)
	rootElems := element.EncodeSet(rootLiveKeys(d.f, key))
	preProof, err := proof.NewMembershipProof(x, rootElems)
	if err != nil {
		return response.DeleteResponse{}, err
	}

	if err := d.f.Delete(key, fid); err != nil {
		return response.DeleteResponse{}, err
	}

	newFids := d.f.Select(key)
	tombstoned := len(newFids) == 0
	postRootHash := preRootHash
	postLeafHash := node.HashLeaf(key, newFids, 0, tombstoned)
	postAcc := d.f.GlobalCommitment()
	if r := rootContaining(d.f, key); r != nil {
		postRootHash = r.HashValue
		postAcc = r.Accumulator
	}

	return response.DeleteResponse{
		Key:        key,
		DeletedFid: fid,
		OldFids:    oldFidsCopy,
		NewFids:    newFids,
		PreMerkle: response.MerkleProof{
			RootHash: preRootHash,
			LeafHash: node.HashLeaf(key, oldFidsCopy, 0, false),
			Path:     prePath,
		},
		PostMerkle: response.MerkleProof{
			RootHash: postRootHash,
			LeafHash: postLeafHash,
			Path:     prePath,
		},
		PreAcc:   preAcc,
		PostAcc:  postAcc,
		PreProof: preProof,
	}, nil
}

func copyFids(fids map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(fids))
	for f := range fids {
		out[f] = struct{}{}
	}
	return out
}

// rootContaining returns the root (by key) still holding key as a leaf
// (live or tombstoned) after a structural-shape-preserving mutation.
func rootContaining(f *forest.Forest, key string) *node.Node {
	for _, r := range f.Roots() {
		if nodeContains(r, key) {
			return r
		}
	}
	return nil
}

func nodeContains(n *node.Node, key string) bool {
	if n == nil {
		return false
	}
	if n.IsLeaf {
		return n.Key == key
	}
	return nodeContains(n.Left, key) || nodeContains(n.Right, key)
}

// rootLiveKeys returns the live key set of the root that currently holds
// key, used to build a membership witness against that root's own
// (smaller) accumulator rather than the global one.
func rootLiveKeys(f *forest.Forest, key string) []string {
	for _, r := range f.Roots() {
		if r.HasKey(key) {
			return r.Keys.Keys()
		}
	}
	return nil
}
