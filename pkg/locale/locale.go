package locale

import (
	"fmt"
	"sort"
	"strings"
)

// Locale identifies one of the supported export-file dialects.
type Locale string

const (
	German  Locale = "DE"
	Italian Locale = "IT"
)

// Parse validates a locale tag. Unsupported tags are a configuration
// error and must abort before any file is processed.
func Parse(tag string) (Locale, error) {
	switch strings.ToUpper(strings.TrimSpace(tag)) {
	case "DE":
		return German, nil
	case "IT":
		return Italian, nil
	default:
		return "", fmt.Errorf("unsupported locale %q (expected DE or IT)", tag)
	}
}

// FieldMap holds the literal column headers used by one locale's export format.
type FieldMap struct {
	ProjectName string
	CandidateID string
	Rating      string
	JobTitle    string
	Company     string
	Industry    string
	Email       string
	Phone       string
	ProfileURL  string
	Gender      string
	Honorific   string
	FirstName   string
	LastName    string
}

var fieldMaps = map[Locale]FieldMap{
	German: {
		ProjectName: "Projektname",
		CandidateID: "Mitglieds ID",
		Rating:      "Projekteignung",
		JobTitle:    "Aktuelle Position",
		Company:     "Firma",
		Industry:    "Branche",
		Email:       "E-Mail",
		Phone:       "Telefonnummer",
		ProfileURL:  "URL Kandidatenprofil",
		Gender:      "Anrede",
		Honorific:   "Titel",
		FirstName:   "Vorname",
		LastName:    "Nachname",
	},
	Italian: {
		ProjectName: "Nome del progetto",
		CandidateID: "ID utente",
		Rating:      "Valutazione del progetto",
		JobTitle:    "Posizione attuale",
		Company:     "Azienda",
		Industry:    "Settore",
		Email:       "Indirizzo email",
		Phone:       "Numero di telefono",
		ProfileURL:  "URL del profilo del candidato",
		Gender:      "Titolo",
		Honorific:   "Posizione",
		FirstName:   "Nome",
		LastName:    "Cognome",
	},
}

// Fields returns the column headers for the given locale.
func Fields(loc Locale) (FieldMap, error) {
	fm, ok := fieldMaps[loc]
	if !ok {
		return FieldMap{}, fmt.Errorf("no field map for locale %q", loc)
	}
	return fm, nil
}

// All returns the headers as a list, for column-presence checks.
func (fm FieldMap) All() []string {
	return []string{
		fm.ProjectName,
		fm.CandidateID,
		fm.Rating,
		fm.JobTitle,
		fm.Company,
		fm.Industry,
		fm.Email,
		fm.Phone,
		fm.ProfileURL,
		fm.Gender,
		fm.Honorific,
		fm.FirstName,
		fm.LastName,
	}
}

var ratingRanks = map[Locale]map[string]int{
	German: {
		"Hervorragend": 1,
		"Sehr gut":     2,
		"Gut":          3,
	},
	Italian: {
		"Molto buono": 1,
		"Buono":       2,
	},
}

// RatingRank returns the rank of a rating label for sorting, lower is
// better. Labels outside the locale's vocabulary report ok=false and
// sort after all ranked labels.
func RatingRank(loc Locale, label string) (rank int, ok bool) {
	rank, ok = ratingRanks[loc][strings.TrimSpace(label)]
	return rank, ok
}

// AcceptedRatings returns the default accepted-rating set for the
// locale. The set is the union of labels the export format has used;
// callers may override it through configuration.
func AcceptedRatings(loc Locale) []string {
	ranks := ratingRanks[loc]
	labels := make([]string, 0, len(ranks))
	for label := range ranks {
		labels = append(labels, label)
	}
	// stable order: best rank first
	sort.Slice(labels, func(i, j int) bool {
		return ranks[labels[i]] < ranks[labels[j]]
	})
	return labels
}

var (
	maleHonorifics = map[Locale][]string{
		German:  {"Herr"},
		Italian: {"Signor"},
	}
	femaleHonorifics = map[Locale][]string{
		German:  {"Frau"},
		Italian: {"Signora"},
	}
)

// Gender is the category resolved from the locale's honorific column.
type Gender int

const (
	GenderUnknown Gender = iota
	GenderMale
	GenderFemale
)

// MatchGender resolves a gender column value by exact, trimmed,
// case-insensitive comparison against the locale's honorific strings.
// Anything else is GenderUnknown.
func MatchGender(loc Locale, value string) Gender {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, h := range maleHonorifics[loc] {
		if v == strings.ToLower(h) {
			return GenderMale
		}
	}
	for _, h := range femaleHonorifics[loc] {
		if v == strings.ToLower(h) {
			return GenderFemale
		}
	}
	return GenderUnknown
}
