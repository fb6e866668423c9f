// Package render assembles Premium Recruitment Assistant emails as
// self-contained HTML documents. Candidate-derived text passes through
// html/template, so body and attribute values are escaped for their
// context instead of being spliced in raw.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"

	"github.com/recruitops/pramail/pkg/export"
	"github.com/recruitops/pramail/pkg/locale"
)

//go:embed templates/german.html templates/italian.html
var templateFS embed.FS

var templateFiles = map[locale.Locale]string{
	locale.German:  "templates/german.html",
	locale.Italian: "templates/italian.html",
}

// Email is everything one rendered document needs.
type Email struct {
	Title      string
	LogoURL    string
	JobID      string
	Candidates []export.Candidate
	// Expertises maps candidate id to hand-maintained expertise tags.
	// Missing ids render without a tag row; never an error.
	Expertises map[string][]string
}

// candidateView pairs a candidate with its resolved expertise tags so
// the template never touches the lookup table directly.
type candidateView struct {
	export.Candidate
	Expertises []string
}

type emailView struct {
	Title      string
	LogoURL    string
	JobID      string
	Count      int
	Candidates []candidateView
}

// Renderer renders emails for one locale.
type Renderer struct {
	loc locale.Locale
	tpl *template.Template
}

// New builds a renderer for the given locale.
func New(loc locale.Locale) (*Renderer, error) {
	file, ok := templateFiles[loc]
	if !ok {
		return nil, fmt.Errorf("no email template for locale %q", loc)
	}
	tpl, err := template.ParseFS(templateFS, file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse email template: %w", err)
	}
	return &Renderer{loc: loc, tpl: tpl}, nil
}

// Render writes the assembled document to w. The document is built in
// memory first, so a template error never leaves partial output behind.
func (r *Renderer) Render(w io.Writer, email Email) error {
	view := emailView{
		Title:      email.Title,
		LogoURL:    email.LogoURL,
		JobID:      email.JobID,
		Count:      len(email.Candidates),
		Candidates: make([]candidateView, 0, len(email.Candidates)),
	}
	for _, c := range email.Candidates {
		view.Candidates = append(view.Candidates, candidateView{
			Candidate:  c,
			Expertises: email.Expertises[c.ID],
		})
	}

	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, view); err != nil {
		return fmt.Errorf("failed to render email: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write email: %w", err)
	}
	return nil
}

// WriteFile renders the email and writes it to path, overwriting any
// existing file. On render failure nothing is written.
func (r *Renderer) WriteFile(path string, email Email) error {
	var buf bytes.Buffer
	if err := r.Render(&buf, email); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
