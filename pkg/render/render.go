package render

import (
	"embed"
	"html/template"
	"strings"

	"github.com/sukryu/labsite/pkg/controllers"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	LoginTemplate     = "login.html"
	DashboardTemplate = "dashboard.html"
)

var funcs = template.FuncMap{
	"title": func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	},
}

// Templates parses the admin page templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

type LoginPage struct {
	Email string
	Error string
}

type DashboardPage struct {
	Email          string
	View           controllers.View
	ReauthOnDelete bool
}
