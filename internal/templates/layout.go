// Package templates renders the operator dashboard pages.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Layout wraps page content in the shared HTML shell
func Layout(title string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s | Whitehall Publisher</title>
</head>
<body>
<header><nav><a href="/">Dashboard</a> <a href="/republishing-events">Republishing events</a></nav></header>
<main>
`, templ.EscapeString(title))
		if err != nil {
			return err
		}

		if err := content.Render(ctx, w); err != nil {
			return err
		}

		_, err = io.WriteString(w, "</main>\n</body>\n</html>\n")
		return err
	})
}
