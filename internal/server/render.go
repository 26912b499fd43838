package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/rs/zerolog/hlog"
	"github.com/user/top-movies-go/internal/forms"
	"github.com/user/top-movies-go/internal/model"
	"github.com/user/top-movies-go/internal/provider"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"index", "add", "select", "edit", "error"}

// pageSet holds one parsed template per page, each sharing the base layout
type pageSet struct {
	templates map[string]*template.Template
}

// pageData is the view model handed to every template
type pageData struct {
	CSRFField string
	CSRFToken string
	Movies    []*model.Movie
	Movie     *model.Movie
	Query     string
	Results   []provider.SearchResult
	Form      interface{}
	Errors    forms.Errors
	Flashes   []string
	Status    int
	Message   string
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"rating": func(r float64) string {
			return strconv.FormatFloat(r, 'f', 1, 64)
		},
		"releaseYear": func(date string) string {
			year, err := provider.ParseYear(date)
			if err != nil {
				return ""
			}
			return strconv.Itoa(year)
		},
		"statusText": http.StatusText,
	}
}

func loadPages() (*pageSet, error) {
	ps := &pageSet{templates: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(funcMap()).ParseFS(templateFS,
			"templates/base.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		ps.templates[name] = tmpl
	}
	return ps, nil
}

// render executes a page into a buffer first so template errors never produce half a page
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data *pageData) {
	tmpl, ok := s.pages.templates[name]
	if !ok {
		hlog.FromRequest(r).Error().Str("page", name).Msg("Unknown page template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	data.CSRFField = forms.CSRFField
	data.CSRFToken = csrf.Token(r)
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("page", name).Msg("Failed to render page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("Failed to write response")
	}
}

// renderError shows the error page with a user-facing message
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.render(w, r, status, "error", &pageData{Status: status, Message: message})
}
