// Package servicetest provides a recording Publishing API gateway for asserting
// the order of propagation calls in tests.
package servicetest

import (
	"context"
	"sync"

	"github.com/jjenkins/whitehall/internal/presenter"
)

// Gateway operations as recorded in a Call
const (
	OpPutContent = "put_content"
	OpPublish    = "publish"
	OpUnpublish  = "unpublish"
	OpPatchLinks = "patch_links"
)

// Call is one recorded gateway call. Locale is empty for patch links.
type Call struct {
	Op        string
	ContentID string
	Locale    string
}

// Put builds an expected put-content call
func Put(contentID, locale string) Call {
	return Call{Op: OpPutContent, ContentID: contentID, Locale: locale}
}

// Publish builds an expected publish call
func Publish(contentID, locale string) Call {
	return Call{Op: OpPublish, ContentID: contentID, Locale: locale}
}

// Unpublish builds an expected unpublish call
func Unpublish(contentID, locale string) Call {
	return Call{Op: OpUnpublish, ContentID: contentID, Locale: locale}
}

// Links builds an expected patch-links call
func Links(contentID string) Call {
	return Call{Op: OpPatchLinks, ContentID: contentID}
}

type failure struct {
	op        string
	contentID string
	err       error
}

// Gateway records every call it receives and optionally fails selected ones
type Gateway struct {
	mu          sync.Mutex
	calls       []Call
	contents    []presenter.Content
	unpublishes []presenter.UnpublishBody
	links       map[string]presenter.Links
	updateTypes []string
	bulkFlags   []bool
	failures    []failure
}

// NewGateway creates an empty recording gateway
func NewGateway() *Gateway {
	return &Gateway{links: make(map[string]presenter.Links)}
}

// FailOn makes calls of op for contentID return err. The failing call is still recorded.
func (g *Gateway) FailOn(op, contentID string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failures = append(g.failures, failure{op: op, contentID: contentID, err: err})
}

func (g *Gateway) record(call Call) error {
	g.calls = append(g.calls, call)
	for _, f := range g.failures {
		if f.op == call.Op && f.contentID == call.ContentID {
			return f.err
		}
	}
	return nil
}

func (g *Gateway) PutContent(_ context.Context, contentID string, body presenter.Content) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.contents = append(g.contents, body)
	return g.record(Put(contentID, body.Locale))
}

func (g *Gateway) Publish(_ context.Context, contentID, updateType, locale string, bulkPublishing bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.updateTypes = append(g.updateTypes, updateType)
	g.bulkFlags = append(g.bulkFlags, bulkPublishing)
	return g.record(Publish(contentID, locale))
}

func (g *Gateway) Unpublish(_ context.Context, contentID string, body presenter.UnpublishBody) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.unpublishes = append(g.unpublishes, body)
	return g.record(Unpublish(contentID, body.Locale))
}

func (g *Gateway) PatchLinks(_ context.Context, contentID string, links presenter.Links, bulkPublishing bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.links[contentID] = links
	g.bulkFlags = append(g.bulkFlags, bulkPublishing)
	return g.record(Links(contentID))
}

// Calls returns the recorded calls in order
func (g *Gateway) Calls() []Call {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Call(nil), g.calls...)
}

// Contents returns every put-content body in order
func (g *Gateway) Contents() []presenter.Content {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]presenter.Content(nil), g.contents...)
}

// UnpublishBodies returns every unpublish body in order
func (g *Gateway) UnpublishBodies() []presenter.UnpublishBody {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]presenter.UnpublishBody(nil), g.unpublishes...)
}

// LinksFor returns the last link set patched for contentID
func (g *Gateway) LinksFor(contentID string) presenter.Links {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.links[contentID]
}

// UpdateTypes returns the update type of every publish call in order
func (g *Gateway) UpdateTypes() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.updateTypes...)
}

// BulkFlags returns the bulk publishing flag of every publish and patch links call
func (g *Gateway) BulkFlags() []bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]bool(nil), g.bulkFlags...)
}

// Reset forgets every recorded call but keeps configured failures
func (g *Gateway) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = nil
	g.contents = nil
	g.unpublishes = nil
	g.links = make(map[string]presenter.Links)
	g.updateTypes = nil
	g.bulkFlags = nil
}
