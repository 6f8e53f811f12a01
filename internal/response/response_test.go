package response_test

import (
	"bytes"
	"testing"

	"github.com/MuriData/ads-accumulator/internal/accumulator"
	"github.com/MuriData/ads-accumulator/internal/element"
	"github.com/MuriData/ads-accumulator/internal/forest"
	"github.com/MuriData/ads-accumulator/internal/group"
	"github.com/MuriData/ads-accumulator/internal/node"
	"github.com/MuriData/ads-accumulator/internal/params"
	"github.com/MuriData/ads-accumulator/internal/paramsgen"
	"github.com/MuriData/ads-accumulator/internal/proof"
	"github.com/MuriData/ads-accumulator/internal/response"
)

func setupTestParams(t *testing.T) {
	t.Helper()
	params.ResetForTest()
	t.Cleanup(params.ResetForTest)
	buf, err := paramsgen.Generate(20)
	if err != nil {
		t.Fatalf("paramsgen.Generate: %v", err)
	}
	if err := params.Initialize(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("params.Initialize: %v", err)
	}
}

func leafHashFor(key string, fids map[string]struct{}, level int) node.Hash {
	return node.HashLeaf(key, fids, level, false)
}

func commitFromElems(elems []group.Fr) (accumulator.Commitment, error) {
	return accumulator.CommitFromSet(elems)
}

func emptyAccumulator() (accumulator.Commitment, error) {
	return accumulator.CommitFromSet(nil)
}

func TestVerifyQueryMembership(t *testing.T) {
	setupTestParams(t)
	f, err := forest.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := f.Insert(k, "doc"); err != nil {
			t.Fatalf("Insert(%q): %v", k, err)
		}
	}

	fids, rootHash, path, acc, found := f.SelectWithProof("b")
	if !found {
		t.Fatalf("expected b found")
	}

	// The accumulator returned is the owning root's, so the witness is built
	// over that root's live keys.
	var rootKeys []string
	for _, r := range f.Roots() {
		if r.HasKey("b") {
			rootKeys = r.Keys.Keys()
		}
	}
	elems := element.EncodeSet(rootKeys)
	mp, err := proof.NewMembershipProof(element.Digest("b"), elems)
	if err != nil {
		t.Fatalf("NewMembershipProof: %v", err)
	}

	resp := response.QueryResponse{
		Key:  "b",
		Fids: fids,
		Merkle: &response.MerkleProof{
			RootHash: rootHash,
			LeafHash: leafHashFor("b", fids, 0),
			Path:     path,
		},
		Accumulator: acc,
		Membership:  &mp,
	}
	if !response.VerifyQuery(resp) {
		t.Fatalf("expected query response to verify")
	}
}

func TestVerifyInsertRoundTrip(t *testing.T) {
	setupTestParams(t)

	preAcc, err := emptyAccumulator()
	if err != nil {
		t.Fatalf("emptyAccumulator: %v", err)
	}
	preProof, err := proof.NewNonMembershipProof(element.Digest("alice"), nil)
	if err != nil {
		t.Fatalf("NewNonMembershipProof: %v", err)
	}

	postFids := map[string]struct{}{"doc1": {}}
	postElems := element.EncodeSet([]string{"alice"})
	postAcc, err := commitFromElems(postElems)
	if err != nil {
		t.Fatalf("commitFromElems: %v", err)
	}
	postProof, err := proof.NewMembershipProof(element.Digest("alice"), postElems)
	if err != nil {
		t.Fatalf("NewMembershipProof: %v", err)
	}

	postLeaf := leafHashFor("alice", postFids, 0)

	resp := response.InsertResponse{
		Key:       "alice",
		Fid:       "doc1",
		PostFids:  postFids,
		PreAcc:    preAcc,
		PostAcc:   postAcc,
		PreProof:  preProof,
		PostProof: postProof,
		PostMerkle: response.MerkleProof{
			RootHash: postLeaf,
			LeafHash: postLeaf,
			Path:     nil,
		},
	}
	if !response.VerifyInsert(resp) {
		t.Fatalf("expected insert response to verify")
	}
}
