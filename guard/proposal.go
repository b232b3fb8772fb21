package guard

import (
	"fmt"
	"time"

	"github.com/Habibbiswas460/Angel-x-sub003/pkg/id"
	"github.com/Habibbiswas460/Angel-x-sub003/regime"
	"github.com/Habibbiswas460/Angel-x-sub003/weights"
)

// Kind is what a proposal wants to change.
type Kind int

const (
	WeightChange Kind = iota
	PostureChange
)

func (k Kind) String() string {
	if k == PostureChange {
		return "POSTURE_CHANGE"
	}
	return "WEIGHT_CHANGE"
}

// State is a proposal's position in the review workflow.
type State int

const (
	Pending State = iota
	ShadowTesting
	Approved
	Rejected
)

func (s State) String() string {
	switch s {
	case ShadowTesting:
		return "SHADOW_TESTING"
	case Approved:
		return "APPROVED"
	case Rejected:
		return "REJECTED"
	default:
		return "PENDING"
	}
}

// transitions is the explicit table of legal state moves. Keeping it as
// data makes the workflow auditable instead of buried in conditionals.
var transitions = map[State][]State{
	Pending:       {ShadowTesting, Approved, Rejected},
	ShadowTesting: {Approved, Rejected},
}

// Proposal is a pending adaptive change. Created by the weight adjuster
// (or the regime posture logic), state-transitioned only by the guard.
type Proposal struct {
	ID      string    `json:"id"`
	Kind    Kind      `json:"kind"`
	Created time.Time `json:"created"`
	State   State     `json:"state"`

	// WeightChange payload.
	Change weights.Change `json:"change,omitempty"`

	// PostureChange payload, with the regime that justifies it.
	Posture regime.Posture `json:"posture,omitempty"`
	Regime  regime.Regime  `json:"regime,omitempty"`

	// Review outcome.
	Check   Check `json:"check"`
	Caution bool  `json:"caution"`
}

// NewWeightProposal wraps an adjuster change for review.
func NewWeightProposal(ch weights.Change, created time.Time) *Proposal {
	return &Proposal{
		ID:      id.New(),
		Kind:    WeightChange,
		Created: created,
		State:   Pending,
		Change:  ch,
	}
}

// NewPostureProposal wraps a regime-justified posture change for review.
func NewPostureProposal(r regime.Regime, p regime.Posture, created time.Time) *Proposal {
	return &Proposal{
		ID:      id.New(),
		Kind:    PostureChange,
		Created: created,
		State:   Pending,
		Posture: p,
		Regime:  r,
	}
}

func (p *Proposal) transition(to State) error {
	for _, legal := range transitions[p.State] {
		if legal == to {
			p.State = to
			return nil
		}
	}
	return fmt.Errorf("proposal %s: illegal transition %s -> %s", p.ID, p.State, to)
}
