package notify

import (
	"bytes"
	"embed"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(
	template.New("notify").
		Funcs(template.FuncMap{"nl2br": nl2br}).
		ParseFS(templateFS, "templates/*.html"),
)

// nl2br escapes s and turns line breaks into <br> tags.
func nl2br(s string) template.HTML {
	escaped := template.HTMLEscapeString(strings.ReplaceAll(s, "\r\n", "\n"))
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

type contactView struct {
	ContactRequest
	Brand string
}

type ticketView struct {
	TicketRequest
	TicketID string
	Brand    string
}

func render(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
