package presenter

import "github.com/google/uuid"

// Redirect presents a standalone redirect content item. Every instance gets a
// freshly generated content id.
type Redirect struct {
	ContentID    string
	basePath     string
	destinations []string
}

// NewRedirect creates a redirect from basePath to each destination
func NewRedirect(basePath string, destinations []string) *Redirect {
	return &Redirect{
		ContentID:    uuid.NewString(),
		basePath:     basePath,
		destinations: destinations,
	}
}

// Content returns the put-content body for the redirect
func (r *Redirect) Content() Content {
	rules := make([]RedirectRule, len(r.destinations))
	for i, destination := range r.destinations {
		rules[i] = RedirectRule{Path: r.basePath, Type: "exact", Destination: destination}
	}

	return Content{
		BasePath:      r.basePath,
		Format:        "redirect",
		SchemaName:    "redirect",
		DocumentType:  "redirect",
		PublishingApp: PublishingApp,
		UpdateType:    r.UpdateType(),
		Redirects:     rules,
	}
}

// Links returns the (empty) link set of a redirect
func (r *Redirect) Links() Links {
	return Links{}
}

// UpdateType is always major for redirects
func (r *Redirect) UpdateType() string {
	return UpdateTypeMajor
}
