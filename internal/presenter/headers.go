package presenter

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Header is a section heading found in an HTML attachment body
type Header struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
	ID    string `json:"id"`
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// ExtractHeaders returns the h2 and h3 headings of an HTML body in document order
func ExtractHeaders(body string) []Header {
	headers := []Header{}
	tokenizer := html.NewTokenizer(strings.NewReader(body))

	var current *Header
	var text strings.Builder

	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break // End of document or error
		}

		switch tt {
		case html.StartTagToken:
			name, hasAttr := tokenizer.TagName()
			level := headingLevel(string(name))
			if level == 0 {
				continue
			}
			current = &Header{Level: level}
			text.Reset()
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = tokenizer.TagAttr()
				if string(key) == "id" {
					current.ID = string(val)
				}
			}

		case html.TextToken:
			if current != nil {
				text.Write(tokenizer.Text())
			}

		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if current == nil || headingLevel(string(name)) != current.Level {
				continue
			}
			current.Text = strings.Join(strings.Fields(text.String()), " ")
			if current.Text != "" {
				if current.ID == "" {
					current.ID = slugify(current.Text)
				}
				headers = append(headers, *current)
			}
			current = nil
		}
	}

	return headers
}

// headingLevel returns 2 or 3 for the headings we index, 0 otherwise
func headingLevel(tag string) int {
	switch tag {
	case "h2":
		return 2
	case "h3":
		return 3
	default:
		return 0
	}
}

func slugify(s string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
