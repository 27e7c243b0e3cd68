// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the dashboard and the
// public storefront pages. It supports full-page and HTMX partial
// rendering, detecting the request type via the HX-Request header.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/fieldgroup"
	"storefront/internal/markdown"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

var nonIDChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// PageData holds all data passed to templates.
type PageData struct {
	Title     string         // Page title for <title> tag
	Section   string         // Active sidebar section (e.g., "categories", "stores")
	Session   *session.Data  // Current user session (nil if unauthenticated)
	CSRFToken string         // CSRF token for forms and HTMX headers
	Data      map[string]any // Page-specific data
	Flashes   []Flash        // One-time notification messages
}

// Flash represents a one-time notification message displayed as a toast.
type Flash struct {
	Type    string // "success", "error", "warning", "info"
	Message string
}

// Field describes one input of a repeatable row.
type Field struct {
	Name  string
	Label string
	Type  string // "text", "number", "url", "color" or "image"
	Step  string // for number inputs
}

// GroupRows is the view of a repeatable field group on the product form.
// RowsURL receives the HTMX add/remove posts.
type GroupRows struct {
	Prefix  string
	Label   string
	Fields  []Field
	Rows    []fieldgroup.Group
	RowsURL string
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
}

// Layouts. Pages prefixed with "public_" use the site layout, everything
// else the dashboard layout, unless listed as standalone.
const (
	dashboardLayout = "base.html"
	siteLayout      = "site.html"
	partialsFile    = "partials.html"
)

// standaloneTemplates render as full HTML pages without a layout.
var standaloneTemplates = map[string]bool{
	"login":      true,
	"2fa_setup":  true,
	"2fa_verify": true,
}

// New parses all templates from the embedded filesystem. When devMode is
// true, layouts load Tailwind from its CDN; otherwise they reference the
// compiled stylesheet under /static.
func New(devMode bool) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		funcMap: template.FuncMap{
			"activeClass": func(current, target string) string {
				if current == target {
					return "bg-gray-900 text-white"
				}
				return "text-gray-300 hover:bg-gray-700 hover:text-white"
			},
			"isDev": func() bool {
				return devMode
			},
			"markdown":  markdown.Render,
			"money":     func(d decimal.Decimal) string { return d.StringFixed(2) },
			"join":      strings.Join,
			"inputName": fieldgroup.InputName,
			"field": func(g fieldgroup.Group, name string) string {
				return g[name].String()
			},
			"isAdmin": func(s *session.Data) bool {
				return s != nil && s.Role == models.RoleAdmin
			},
			"isSeller": func(s *session.Data) bool {
				return s != nil && s.Role == models.RoleSeller
			},
			"idValue": func(id uuid.UUID) string {
				if id == uuid.Nil {
					return ""
				}
				return id.String()
			},
			"domID": func(s string) string {
				return strings.Trim(nonIDChars.ReplaceAllString(s, "-"), "-")
			},
			"dict": func(kv ...any) (map[string]any, error) {
				if len(kv)%2 != 0 {
					return nil, fmt.Errorf("dict: odd number of arguments")
				}
				m := make(map[string]any, len(kv)/2)
				for i := 0; i < len(kv); i += 2 {
					k, ok := kv[i].(string)
					if !ok {
						return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
					}
					m[k] = kv[i+1]
				}
				return m, nil
			},
		},
	}

	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == dashboardLayout || name == siteLayout || name == partialsFile {
			continue
		}
		tmplName := strings.TrimSuffix(name, ".html")

		files := []string{"templates/" + partialsFile}
		root := name
		switch {
		case standaloneTemplates[tmplName]:
		case strings.HasPrefix(tmplName, "public_"):
			root = siteLayout
			files = append(files, "templates/"+siteLayout)
		default:
			root = dashboardLayout
			files = append(files, "templates/"+dashboardLayout)
		}
		files = append(files, "templates/"+name)

		tmpl, err := template.New(root).Funcs(r.funcMap).ParseFS(templateFS, files...)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[tmplName] = tmpl
	}

	return r, nil
}

// Page renders a full page or, for HTMX requests, only its "content" block.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	rn.PageStatus(w, r, http.StatusOK, name, data)
}

// PageStatus is Page with an explicit status code, used to re-render forms
// after a failed submission.
func (rn *Renderer) PageStatus(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}
	rn.prepare(r, data)

	execName := tmpl.Name()
	if isHTMX(r) && !standaloneTemplates[name] {
		execName = "content"
	}
	rn.write(w, status, tmpl, execName, data)
}

// Partial renders a single named block of a page template, e.g. the rows
// of one field group after an HTMX add/remove.
func (rn *Renderer) Partial(w http.ResponseWriter, r *http.Request, name, block string, data any) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}
	rn.write(w, http.StatusOK, tmpl, block, data)
}

// Bytes renders a full page into memory, for the public page cache.
func (rn *Renderer) Bytes(r *http.Request, name string, data *PageData) ([]byte, error) {
	tmpl, ok := rn.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}
	rn.prepare(r, data)
	var buf bytes.Buffer
	if err := executeTemplate(&buf, tmpl, tmpl.Name(), data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (rn *Renderer) prepare(r *http.Request, data *PageData) {
	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}
	if data.Data == nil {
		data.Data = map[string]any{}
	}
}

// write renders into a buffer first so a template error never leaves a
// half-written page behind.
func (rn *Renderer) write(w http.ResponseWriter, status int, tmpl *template.Template, name string, data any) {
	var buf bytes.Buffer
	if err := executeTemplate(&buf, tmpl, name, data); err != nil {
		slog.Error("template error", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func executeTemplate(w io.Writer, tmpl *template.Template, name string, data any) error {
	return tmpl.ExecuteTemplate(w, name, data)
}

// isHTMX returns true if the request was made by HTMX (has HX-Request header).
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
