package model

import "fmt"

// EditionState is the workflow state of an edition
type EditionState string

const (
	StateDraft       EditionState = "draft"
	StateSubmitted   EditionState = "submitted"
	StateRejected    EditionState = "rejected"
	StateScheduled   EditionState = "scheduled"
	StatePublished   EditionState = "published"
	StateWithdrawn   EditionState = "withdrawn"
	StateUnpublished EditionState = "unpublished"
	StateSuperseded  EditionState = "superseded"
)

var editionStates = map[EditionState]bool{
	StateDraft:       true,
	StateSubmitted:   true,
	StateRejected:    true,
	StateScheduled:   true,
	StatePublished:   true,
	StateWithdrawn:   true,
	StateUnpublished: true,
	StateSuperseded:  true,
}

// ParseEditionState converts a stored state string into an EditionState
func ParseEditionState(s string) (EditionState, error) {
	state := EditionState(s)
	if !editionStates[state] {
		return "", fmt.Errorf("unknown edition state %q", s)
	}
	return state, nil
}

// IsPrePublication reports whether the edition has not yet been made public
func (s EditionState) IsPrePublication() bool {
	switch s {
	case StateDraft, StateSubmitted, StateRejected, StateScheduled:
		return true
	default:
		return false
	}
}

// IsRetired reports whether the edition was withdrawn or unpublished
func (s EditionState) IsRetired() bool {
	return s == StateWithdrawn || s == StateUnpublished
}
