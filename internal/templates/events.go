package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/jjenkins/whitehall/internal/model"
)

// RepublishingEvents renders the full republishing event list
func RepublishingEvents(events []model.RepublishingEvent) templ.Component {
	return Layout("Republishing events", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<h1>Republishing events</h1>\n"); err != nil {
			return err
		}
		return EventTable(events).Render(ctx, w)
	}))
}

// EventTable renders events as a table
func EventTable(events []model.RepublishingEvent) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(events) == 0 {
			_, err := io.WriteString(w, "<p>No republishing events recorded.</p>\n")
			return err
		}

		if _, err := io.WriteString(w, "<table>\n<thead><tr><th>When</th><th>Action</th><th>Target</th><th>Reason</th><th>User</th></tr></thead>\n<tbody>\n"); err != nil {
			return err
		}

		for _, e := range events {
			_, err := fmt.Fprintf(w, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
				e.CreatedAt.Format("2 Jan 2006 15:04"),
				templ.EscapeString(e.Action),
				templ.EscapeString(eventTarget(e)),
				templ.EscapeString(e.Reason),
				templ.EscapeString(e.UserName),
			)
			if err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, "</tbody>\n</table>\n")
		return err
	})
}

func eventTarget(e model.RepublishingEvent) string {
	if !e.Bulk {
		return e.ContentID
	}
	switch e.BulkContentType {
	case model.BulkAllByType:
		return e.BulkContentType + ": " + e.ContentType
	case model.BulkByOrganisation:
		return e.BulkContentType + ": " + e.OrganisationID
	case model.BulkByContentIDs:
		return fmt.Sprintf("%s: %d documents", e.BulkContentType, len(e.ContentIDs))
	default:
		return e.BulkContentType
	}
}
