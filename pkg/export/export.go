// Package export reads tab-delimited candidate export files with
// header-based field access and locale-specific column names.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/recruitops/pramail/pkg/charset"
	"github.com/recruitops/pramail/pkg/locale"
)

const (
	// DefaultMalePhotoURL is the placeholder profile photo for candidates
	// addressed with a male honorific and no override entry.
	DefaultMalePhotoURL = "https://www.experteer.de/images/default_photos/male.png"
	// DefaultFemalePhotoURL is the placeholder for female honorifics and
	// the deliberate fallback for unmatched or missing gender values.
	DefaultFemalePhotoURL = "https://www.experteer.de/images/default_photos/female.png"
)

// ErrNoProjectName reports that a file contains no non-empty project
// name cell. Callers treat this as a skip condition, not a fatal error.
var ErrNoProjectName = errors.New("no project name found")

// MissingColumnError reports that the file's header row lacks a column
// the locale field map requires. This is fatal for the file.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column %q not found in header", e.Column)
}

// Candidate is one row of an export file that survived the filter.
// Candidates are never mutated after extraction.
type Candidate struct {
	ID          string
	DisplayName string
	JobTitle    string
	Company     string
	Industry    string
	Email       string
	Phone       string
	PhotoURL    string
	ProfileURL  string
	Rating      string
}

// Options controls candidate extraction.
type Options struct {
	// Filter restricts output to candidates whose rating is accepted.
	Filter bool
	// AcceptedRatings overrides the locale's default accepted set.
	AcceptedRatings []string
	// PhotoOverrides maps candidate id to a replacement photo URL.
	PhotoOverrides map[string]string
	// MalePhotoURL / FemalePhotoURL replace the built-in defaults.
	MalePhotoURL   string
	FemalePhotoURL string
}

// header maps column names to their index in the header row.
type header map[string]int

func readHeader(r *csv.Reader) (header, error) {
	cols, err := r.Read()
	if err == io.EOF {
		return header{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}
	h := make(header, len(cols))
	for i, name := range cols {
		h[strings.TrimSpace(name)] = i
	}
	return h, nil
}

func (h header) require(columns ...string) error {
	for _, c := range columns {
		if _, ok := h[c]; !ok {
			return &MissingColumnError{Column: c}
		}
	}
	return nil
}

// cell returns the raw value of a column in a row, or "" when the row
// is shorter than the header. Tab-delimited exports drop trailing tabs
// for empty cells, so short rows are valid data, not corruption.
func (h header) cell(row []string, column string) string {
	i, ok := h[column]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}

// ProjectName extracts the first non-empty project name from the file.
// It returns ErrNoProjectName when no row carries one.
func ProjectName(loc locale.Locale, path string) (string, error) {
	fm, err := locale.Fields(loc)
	if err != nil {
		return "", err
	}

	f, err := charset.NewReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open export file: %w", err)
	}
	defer f.Close()

	cr := newCSVReader(f)
	h, err := readHeader(cr)
	if err != nil {
		return "", err
	}
	if len(h) == 0 {
		return "", ErrNoProjectName
	}
	if err := h.require(fm.ProjectName); err != nil {
		return "", err
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read row: %w", err)
		}
		if name := strings.TrimSpace(h.cell(row, fm.ProjectName)); name != "" {
			return name, nil
		}
	}
	return "", ErrNoProjectName
}

// Candidates extracts all candidate rows from the file, applies the
// optional rating filter, resolves photo URLs and display names, and
// returns the records sorted best-rated first. The sort is stable, so
// rows with equal or unranked ratings keep their file order.
func Candidates(loc locale.Locale, path string, opts Options) ([]Candidate, error) {
	fm, err := locale.Fields(loc)
	if err != nil {
		return nil, err
	}

	accepted := opts.AcceptedRatings
	if accepted == nil {
		accepted = locale.AcceptedRatings(loc)
	}
	acceptedSet := make(map[string]bool, len(accepted))
	for _, label := range accepted {
		acceptedSet[strings.TrimSpace(label)] = true
	}

	malePhoto := opts.MalePhotoURL
	if malePhoto == "" {
		malePhoto = DefaultMalePhotoURL
	}
	femalePhoto := opts.FemalePhotoURL
	if femalePhoto == "" {
		femalePhoto = DefaultFemalePhotoURL
	}

	f, err := charset.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export file: %w", err)
	}
	defer f.Close()

	cr := newCSVReader(f)
	h, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	if len(h) == 0 {
		return nil, nil
	}
	if err := h.require(fm.All()...); err != nil {
		return nil, err
	}

	var candidates []Candidate
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}

		rating := strings.TrimSpace(h.cell(row, fm.Rating))
		if opts.Filter && !acceptedSet[rating] {
			continue
		}

		id := h.cell(row, fm.CandidateID)
		photo := opts.PhotoOverrides[id]
		if photo == "" {
			switch locale.MatchGender(loc, h.cell(row, fm.Gender)) {
			case locale.GenderMale:
				photo = malePhoto
			default:
				// Female default also covers unmatched and missing
				// gender values. Intentional, not an omission.
				photo = femalePhoto
			}
		}

		candidates = append(candidates, Candidate{
			ID:          id,
			DisplayName: displayName(h.cell(row, fm.Honorific), h.cell(row, fm.FirstName), h.cell(row, fm.LastName)),
			JobTitle:    h.cell(row, fm.JobTitle),
			Company:     h.cell(row, fm.Company),
			Industry:    h.cell(row, fm.Industry),
			Email:       h.cell(row, fm.Email),
			Phone:       h.cell(row, fm.Phone),
			PhotoURL:    photo,
			ProfileURL:  h.cell(row, fm.ProfileURL),
			Rating:      rating,
		})
	}

	sortByRating(loc, candidates)
	return candidates, nil
}

func displayName(honorific, first, last string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{honorific, first, last} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// sortByRating orders candidates ascending by rating rank (best first).
// Ratings outside the locale's rank map sort after all ranked values.
func sortByRating(loc locale.Locale, candidates []Candidate) {
	const unranked = int(^uint(0) >> 1)
	rankOf := func(c Candidate) int {
		if rank, ok := locale.RatingRank(loc, c.Rating); ok {
			return rank
		}
		return unranked
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return rankOf(candidates[i]) < rankOf(candidates[j])
	})
}
