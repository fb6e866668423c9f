// Package batch drives the per-file pipeline: extract, resolve
// branding, render, write. Files are processed independently and
// sequentially; one bad file never aborts the batch.
package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/recruitops/pramail/pkg/config"
	"github.com/recruitops/pramail/pkg/export"
	"github.com/recruitops/pramail/pkg/locale"
	"github.com/recruitops/pramail/pkg/render"
)

// Status classifies the outcome for one input file.
type Status string

const (
	StatusGenerated Status = "generated"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// FileResult is the structured outcome for one input file.
type FileResult struct {
	File       string
	Title      string
	Status     Status
	OutputPath string
	Candidates int
	Warnings   []string
	Err        error
}

// Options configures a batch run.
type Options struct {
	Locale          locale.Locale
	InputFolder     string
	OutputFolder    string
	Filter          bool
	AcceptedRatings []string
	Overrides       config.Overrides
	Logos           config.Logos
	// DefaultLogo substitutes for titles missing from the logo map.
	DefaultLogo string
}

// Runner executes batch runs with a renderer prepared once up front,
// so locale problems surface before any file is touched.
type Runner struct {
	opts     Options
	renderer *render.Renderer
}

// NewRunner validates the options and prepares a runner. Any error
// here is a configuration error.
func NewRunner(opts Options) (*Runner, error) {
	if _, err := locale.Fields(opts.Locale); err != nil {
		return nil, err
	}
	r, err := render.New(opts.Locale)
	if err != nil {
		return nil, err
	}
	if opts.DefaultLogo == "" {
		opts.DefaultLogo = config.DefaultLogoURL
	}
	return &Runner{opts: opts, renderer: r}, nil
}

// Run processes every export file in the input folder and returns one
// result per file. The returned error covers only folder-level
// problems; per-file failures live in the results.
func (r *Runner) Run() ([]FileResult, error) {
	entries, err := os.ReadDir(r.opts.InputFolder)
	if err != nil {
		return nil, fmt.Errorf("failed to read input folder: %w", err)
	}

	var results []FileResult
	for _, entry := range entries {
		if entry.IsDir() || !IsExportFile(entry.Name()) {
			continue
		}
		results = append(results, r.RunFile(filepath.Join(r.opts.InputFolder, entry.Name())))
	}
	return results, nil
}

// IsExportFile reports whether a file name has a recognized export
// extension.
func IsExportFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}

// RunFile processes a single export file through the full pipeline.
// Also used by watch mode to regenerate one changed file.
func (r *Runner) RunFile(path string) FileResult {
	result := FileResult{File: path}

	title, err := export.ProjectName(r.opts.Locale, path)
	if err != nil {
		if errors.Is(err, export.ErrNoProjectName) {
			result.Status = StatusSkipped
			result.Err = err
			return result
		}
		result.Status = StatusFailed
		result.Err = fmt.Errorf("failed to extract project name: %w", err)
		return result
	}
	result.Title = title

	candidates, err := export.Candidates(r.opts.Locale, path, export.Options{
		Filter:          r.opts.Filter,
		AcceptedRatings: r.opts.AcceptedRatings,
		PhotoOverrides:  r.opts.Overrides.PhotoURLs(),
	})
	if err != nil {
		result.Status = StatusFailed
		result.Err = fmt.Errorf("failed to extract candidates: %w", err)
		return result
	}
	result.Candidates = len(candidates)

	logo, ok := r.opts.Logos[title]
	if !ok {
		result.Warnings = append(result.Warnings, fmt.Sprintf("no logo configured for project %q, using placeholder", title))
		logo = config.Logo{URL: r.opts.DefaultLogo}
	}

	if err := os.MkdirAll(r.opts.OutputFolder, 0755); err != nil {
		result.Status = StatusFailed
		result.Err = fmt.Errorf("failed to create output folder: %w", err)
		return result
	}

	outputPath := filepath.Join(r.opts.OutputFolder, SanitizeTitle(title)+".html")
	email := render.Email{
		Title:      title,
		LogoURL:    NormalizeLogoURL(logo.URL),
		JobID:      logo.JobID,
		Candidates: candidates,
		Expertises: r.opts.Overrides.ExpertiseTags(),
	}
	if err := r.renderer.WriteFile(outputPath, email); err != nil {
		result.Status = StatusFailed
		result.Err = err
		return result
	}

	result.Status = StatusGenerated
	result.OutputPath = outputPath
	return result
}

// titleSanitizer replaces characters that are illegal or awkward in
// path components. Parentheses are included so job-ad titles like
// "Sales Lead (m/w/d)" flatten predictably.
var titleSanitizer = strings.NewReplacer(
	"<", "_", ">", "_", ":", "_", `"`, "_",
	"/", "_", `\`, "_", "|", "_", "?", "_",
	"*", "_", "(", "_", ")", "_",
)

// SanitizeTitle turns a project title into a filesystem-safe file name.
func SanitizeTitle(title string) string {
	return titleSanitizer.Replace(strings.TrimSpace(title))
}

// NormalizeLogoURL ensures a logo entry carries a scheme. The logo
// maps historically stored protocol-relative blob URLs.
func NormalizeLogoURL(u string) string {
	switch {
	case u == "":
		return u
	case strings.HasPrefix(u, "http://"), strings.HasPrefix(u, "https://"):
		return u
	case strings.HasPrefix(u, "//"):
		return "https:" + u
	default:
		return "https://" + u
	}
}

// ClearFolder removes all regular files in a folder and returns the
// paths it removed. Subdirectories are left alone.
func ClearFolder(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("failed to read folder: %w", err)
	}

	var removed []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(folder, entry.Name())
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", path, err)
		}
		removed = append(removed, path)
	}
	return removed, nil
}

// Summary condenses a result list into counters for reporting.
type Summary struct {
	Generated int
	Skipped   int
	Failed    int
	Warnings  int
}

// Summarize tallies the outcome of a batch run.
func Summarize(results []FileResult) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case StatusGenerated:
			s.Generated++
		case StatusSkipped:
			s.Skipped++
		case StatusFailed:
			s.Failed++
		}
		s.Warnings += len(r.Warnings)
	}
	return s
}
