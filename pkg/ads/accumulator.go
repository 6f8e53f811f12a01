package ads

import (
	"github.com/MuriData/ads-accumulator/internal/accumulator"
	"github.com/MuriData/ads-accumulator/internal/element"
	"github.com/MuriData/ads-accumulator/internal/group"
	"github.com/MuriData/ads-accumulator/internal/proof"
)

// Commit computes the accumulator commitment over a set of keys, usable by
// any party holding only the public parameters (no forest needed).
func Commit(keys []string) (accumulator.Commitment, error) {
	return accumulator.CommitFromSet(element.EncodeSet(keys))
}

// MembershipProofFor builds a MembershipProof for key against keys.
func MembershipProofFor(key string, keys []string) (proof.MembershipProof, error) {
	return proof.NewMembershipProof(element.Digest(key), element.EncodeSet(keys))
}

// NonMembershipProofFor builds a NonMembershipProof for key against keys.
func NonMembershipProofFor(key string, keys []string) (proof.NonMembershipProof, error) {
	return proof.NewNonMembershipProof(element.Digest(key), element.EncodeSet(keys))
}

// IntersectionProofFor builds an IntersectionProof for the claimed
// intersection i of key sets e1 and e2.
func IntersectionProofFor(e1, e2, i []string) (proof.IntersectionProof, error) {
	return proof.NewIntersectionProof(element.EncodeSet(e1), element.EncodeSet(e2), element.EncodeSet(i))
}

// DisjointnessWitnesses returns the Bezout witnesses (g2^{A(s)}, g2^{B(s)})
// proving e1 and e2 are disjoint key sets.
func DisjointnessWitnesses(e1, e2 []string) (group.G2, group.G2, error) {
	return accumulator.DisjointnessWitnesses(element.EncodeSet(e1), element.EncodeSet(e2))
}
