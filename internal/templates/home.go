package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/jjenkins/whitehall/internal/service"
)

// HomeData holds the dashboard figures
type HomeData struct {
	Stats   *service.DashboardStats
	HasData bool
}

// Home renders the operator dashboard
func Home(data HomeData) templ.Component {
	return Layout("Dashboard", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if !data.HasData {
			_, err := io.WriteString(w, "<p>No documents have been imported yet.</p>\n")
			return err
		}

		s := data.Stats
		_, err := fmt.Fprintf(w, `<h1>Publishing overview</h1>
<dl class="stats">
<dt>Documents</dt><dd id="total-documents">%d</dd>
<dt>Live editions</dt><dd id="live">%d</dd>
<dt>Drafts</dt><dd id="drafts">%d</dd>
<dt>Withdrawn or unpublished</dt><dd id="retired">%d</dd>
<dt>Superseded</dt><dd id="superseded">%d</dd>
</dl>
<h2>Recent republishing</h2>
`, s.TotalDocuments, s.Live, s.Drafts, s.Retired, s.Superseded)
		if err != nil {
			return err
		}

		return EventTable(s.RecentEvents).Render(ctx, w)
	}))
}
