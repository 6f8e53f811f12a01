// Package manager implements the trapdoor-holding accumulator operations:
// add, delete, update, and batch-add, each requiring knowledge of the
// secret scalar s. The holder of s is an external "accumulator manager"
// role at runtime; this package exists so tests (and any out-of-process
// key-holder service) can exercise those operations without the trapdoor
// ever being reachable from pkg/ads's mutation path, which always
// recomputes commitments the trapdoor-free way (accumulator.CommitFromSet)
// instead.
package manager

import (
	"github.com/rs/zerolog/log"

	"github.com/MuriData/ads-accumulator/internal/errs"
	"github.com/MuriData/ads-accumulator/internal/group"
)

// Manager holds a secret trapdoor scalar and exposes the O(1)-per-element
// trapdoor operations against a commitment. It carries no other state and
// is safe to discard once its operations are done; nothing else in the
// module constructs or retains a Manager.
type Manager struct {
	Secret group.Fr
}

// New wraps an existing secret scalar. Callers are responsible for how s was
// generated/distributed — this package never samples one itself (see
// internal/paramsgen for that).
func New(secret group.Fr) Manager {
	return Manager{Secret: secret}
}

// Add returns C*(s-x), i.e. the commitment after x is added to the
// committed set: a single group exponentiation.
func (m Manager) Add(c group.G1, x group.Fr) group.G1 {
	exp := m.sMinus(x)
	return group.ScalarMulG1Fr(c, exp)
}

// Delete returns C*(s-x)^{-1}, i.e. the commitment after x is removed from
// the committed set. Fails with ErrTrapdoorCollision if x equals the secret
// trapdoor (cryptographically negligible, but must be surfaced rather than
// silently miscomputed).
func (m Manager) Delete(c group.G1, x group.Fr) (group.G1, error) {
	exp := m.sMinus(x)
	if exp.IsZero() {
		return group.G1{}, errs.ErrTrapdoorCollision
	}
	var inv group.Fr
	inv.Inverse(&exp)
	return group.ScalarMulG1Fr(c, inv), nil
}

// Update composes Delete(old) then Add(new).
func (m Manager) Update(c group.G1, xOld, xNew group.Fr) (group.G1, error) {
	afterDelete, err := m.Delete(c, xOld)
	if err != nil {
		return group.G1{}, err
	}
	return m.Add(afterDelete, xNew), nil
}

// BatchAdd computes pi = prod_i (s - xs[i]) entirely in Fr, then applies a
// single group exponentiation C^pi: k group exponentiations collapse into
// k field multiplications plus one group op.
func (m Manager) BatchAdd(c group.G1, xs []group.Fr) group.G1 {
	if len(xs) == 0 {
		return c
	}
	pi := group.OneFr()
	for _, x := range xs {
		term := m.sMinus(x)
		pi.Mul(&pi, &term)
	}
	log.Debug().Int("batch_size", len(xs)).Msg("accumulator batch-add")
	return group.ScalarMulG1Fr(c, pi)
}

func (m Manager) sMinus(x group.Fr) group.Fr {
	var out group.Fr
	out.Sub(&m.Secret, &x)
	return out
}
