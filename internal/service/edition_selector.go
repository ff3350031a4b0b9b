package service

import "github.com/jjenkins/whitehall/internal/model"

// Lifecycle is the propagation variant an edition falls into
type Lifecycle string

const (
	LifecycleDraft       Lifecycle = "draft"
	LifecycleLive        Lifecycle = "live"
	LifecycleWithdrawn   Lifecycle = "withdrawn"
	LifecycleUnpublished Lifecycle = "unpublished"
	LifecycleSuperseded  Lifecycle = "superseded"
)

// Classify maps an edition to its lifecycle variant. Pre-publication states
// (submitted, rejected, scheduled) are drafts as far as propagation goes.
func Classify(ed *model.Edition) Lifecycle {
	switch {
	case ed.State == model.StatePublished:
		return LifecycleLive
	case ed.State.IsRetired():
		if ed.State == model.StateWithdrawn {
			return LifecycleWithdrawn
		}
		return LifecycleUnpublished
	case ed.State.IsPrePublication():
		return LifecycleDraft
	default:
		return LifecycleSuperseded
	}
}

// Selection holds the editions of a document that need propagating
type Selection struct {
	Live        *model.Edition
	Draft       *model.Edition
	Unpublished *model.Edition
}

// IsEmpty reports whether nothing needs propagating
func (s Selection) IsEmpty() bool {
	return s.Live == nil && s.Draft == nil && s.Unpublished == nil
}

// SelectEditions picks the live, draft and unpublished editions of a document.
// Editions are in chronological order, so later matches win. An unpublished
// edition excludes the live one.
func SelectEditions(doc *model.Document) Selection {
	var sel Selection

	for i := range doc.Editions {
		ed := &doc.Editions[i]
		switch Classify(ed) {
		case LifecycleLive:
			sel.Live = ed
		case LifecycleDraft:
			sel.Draft = ed
		case LifecycleWithdrawn, LifecycleUnpublished:
			sel.Unpublished = ed
		}
	}

	if sel.Unpublished != nil {
		sel.Live = nil
	}

	return sel
}
