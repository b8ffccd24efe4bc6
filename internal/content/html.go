package content

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// previewPolicy permits line breaks and http(s) images, nothing else.
var previewPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("br")
	p.AllowAttrs("src").OnElements("img")
	p.AllowURLSchemes("http", "https")
	p.RequireParseableURLs(true)
	return p
}()

// HTML renders parts as a preview fragment: text is escaped with newlines
// turned into <br>, images become <img> tags. The result is sanitized.
func HTML(parts []Part) string {
	var b strings.Builder
	for _, p := range parts {
		switch p.Kind {
		case KindImage:
			b.WriteString(`<img src="`)
			b.WriteString(html.EscapeString(p.Value))
			b.WriteString(`">`)
		default:
			lines := strings.Split(p.Value, "\n")
			for i, line := range lines {
				if i > 0 {
					b.WriteString("<br>")
				}
				b.WriteString(html.EscapeString(line))
			}
		}
	}
	return previewPolicy.Sanitize(b.String())
}
