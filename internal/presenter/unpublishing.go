package presenter

import (
	"strings"

	"github.com/jjenkins/whitehall/internal/model"
)

// UnpublishBody is the body of an unpublish request
type UnpublishBody struct {
	Type            string `json:"type"`
	Locale          string `json:"locale"`
	AlternativePath string `json:"alternative_path,omitempty"`
	Explanation     string `json:"explanation,omitempty"`
	DiscardDrafts   bool   `json:"discard_drafts"`
	AllowDraft      bool   `json:"allow_draft,omitempty"`
}

// EditionUnpublishBody presents the unpublishing of an edition for one locale
func EditionUnpublishBody(u *model.Unpublishing, locale string, allowDraft bool) UnpublishBody {
	body := UnpublishBody{
		Type:          u.Type,
		Locale:        locale,
		DiscardDrafts: u.DiscardDrafts,
		AllowDraft:    allowDraft,
	}

	switch u.Type {
	case model.UnpublishingRedirect:
		body.AlternativePath = strings.TrimSpace(u.AlternativePath)
	case model.UnpublishingWithdrawal:
		body.Explanation = u.Explanation
	case model.UnpublishingGone:
		body.AlternativePath = strings.TrimSpace(u.AlternativePath)
		body.Explanation = u.Explanation
	}

	return body
}

// AttachmentUnpublishBody presents how an attachment follows its retired parent.
// Withdrawn parents withdraw their attachments; otherwise attachments redirect
// to the parent's replacement, or to the parent itself when it is gone.
func AttachmentUnpublishBody(doc *model.Document, ed *model.Edition, u *model.Unpublishing, allowDraft bool) UnpublishBody {
	body := UnpublishBody{
		Locale:        ed.Locale(),
		DiscardDrafts: true,
		AllowDraft:    allowDraft,
	}

	switch u.Type {
	case model.UnpublishingWithdrawal:
		body.Type = model.UnpublishingWithdrawal
		body.Explanation = u.Explanation
	case model.UnpublishingRedirect:
		body.Type = model.UnpublishingRedirect
		body.AlternativePath = strings.TrimSpace(u.AlternativePath)
	default:
		body.Type = model.UnpublishingRedirect
		body.AlternativePath = BasePath(doc)
	}

	return body
}

// RedirectUnpublishBody presents a direct redirect of a content item
func RedirectUnpublishBody(destination, locale string, allowDraft bool) UnpublishBody {
	return UnpublishBody{
		Type:            model.UnpublishingRedirect,
		Locale:          locale,
		AlternativePath: strings.TrimSpace(destination),
		AllowDraft:      allowDraft,
	}
}
