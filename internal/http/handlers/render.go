package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/rogerio-castellano/catalog-admin/internal/http/flash"
	"github.com/rogerio-castellano/catalog-admin/internal/models"
)

// View is the data every page template receives.
type View struct {
	Title       string
	CurrentUser *models.User
	Flashes     []flash.Message
	Errors      map[string]string
	Data        any
}

// Renderer executes page templates wrapped in the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"price": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"orDash": func(s *string) string {
		if s == nil || *s == "" {
			return "-"
		}
		return *s
	},
	"itoa": strconv.Itoa,
	"add":  func(a, b int) int { return a + b },
	"sub":  func(a, b int) int { return a - b },
	"pages": func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = i + 1
		}
		return out
	},
}

// NewRenderer parses layout.html together with every pages/*.html file in fsys.
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	files, err := fs.Glob(fsys, "pages/*.html")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no page templates found")
	}

	pages := make(map[string]*template.Template, len(files))
	for _, f := range files {
		name := path.Base(f)
		name = name[:len(name)-len(path.Ext(name))]
		t, err := template.New(name).Funcs(templateFuncs).ParseFS(fsys, "layout.html", f)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", f, err)
		}
		pages[name] = t
	}
	return &Renderer{pages: pages}, nil
}

// Render writes the page with status. Execution happens into a buffer so a
// template error never leaves a half-written response.
func (rd *Renderer) Render(w http.ResponseWriter, status int, page string, v View) error {
	t, ok := rd.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", v); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
