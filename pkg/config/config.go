// Package config loads the per-run data the pipeline depends on: the
// candidate override table, the project logo map, and environment
// defaults. All of it is caller-supplied per run; nothing is embedded
// in source.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Override is one hand-maintained entry for a candidate: an optional
// replacement photo URL and a list of expertise tags.
type Override struct {
	URL        string   `json:"url,omitempty"`
	Expertises []string `json:"expertises,omitempty"`
}

// Overrides maps candidate id to its override entry.
type Overrides map[string]Override

// PhotoURLs extracts the id → photo URL subset for the extractor.
func (o Overrides) PhotoURLs() map[string]string {
	urls := make(map[string]string)
	for id, entry := range o {
		if entry.URL != "" {
			urls[id] = entry.URL
		}
	}
	return urls
}

// ExpertiseTags extracts the id → tags subset for the renderer.
func (o Overrides) ExpertiseTags() map[string][]string {
	tags := make(map[string][]string)
	for id, entry := range o {
		if len(entry.Expertises) > 0 {
			tags[id] = entry.Expertises
		}
	}
	return tags
}

// LoadOverrides reads and validates an override table from a JSON
// file. A malformed table is a configuration error and must abort
// before any export file is processed.
func LoadOverrides(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read override table: %w", err)
	}

	var overrides Overrides
	if err := json.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse override table: %w", err)
	}

	for id, entry := range overrides {
		if strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("override table contains a blank candidate id")
		}
		for _, tag := range entry.Expertises {
			if strings.TrimSpace(tag) == "" {
				return nil, fmt.Errorf("override entry %q contains an empty expertise tag", id)
			}
		}
	}
	return overrides, nil
}

// Logo is the branding entry for one project title. JobID is optional
// and, when present, links the rendered intro to the live position.
type Logo struct {
	URL   string `json:"logo_url"`
	JobID string `json:"job_id,omitempty"`
}

// Logos maps project title to its branding entry. Lookup is by exact
// title match.
type Logos map[string]Logo

// LoadLogos reads a project → logo map from a JSON file. Both the
// plain form ("Title": "//host/logo.png") and the object form
// ("Title": {"logo_url": ..., "job_id": ...}) are accepted.
func LoadLogos(path string) (Logos, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read logo map: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse logo map: %w", err)
	}

	logos := make(Logos, len(raw))
	for title, value := range raw {
		if strings.TrimSpace(title) == "" {
			return nil, fmt.Errorf("logo map contains a blank project title")
		}

		var plain string
		if err := json.Unmarshal(value, &plain); err == nil {
			logos[title] = Logo{URL: plain}
			continue
		}

		var entry Logo
		if err := json.Unmarshal(value, &entry); err != nil {
			return nil, fmt.Errorf("logo entry %q is neither a URL string nor an object: %w", title, err)
		}
		if entry.URL == "" {
			return nil, fmt.Errorf("logo entry %q has no logo_url", title)
		}
		logos[title] = entry
	}
	return logos, nil
}

// DefaultLogoURL is the placeholder used when a project title has no
// logo entry. Overridable via settings.
const DefaultLogoURL = "https://www.experteer.de/images/default_photos/default_logo.png"

// Settings are the environment-level defaults for a run. Flags take
// precedence over these.
type Settings struct {
	Locale       string
	InputFolder  string
	OutputFolder string
	Filter       bool
	DefaultLogo  string
}

// LoadSettings reads defaults from the environment, after loading a
// .env file when one exists.
func LoadSettings() Settings {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using built-in defaults")
	}

	return Settings{
		Locale:       getEnv("PRAMAIL_LOCALE", "DE"),
		InputFolder:  getEnv("PRAMAIL_INPUT", "projects"),
		OutputFolder: getEnv("PRAMAIL_OUTPUT", "projects_finished"),
		Filter:       getEnvAsBool("PRAMAIL_FILTER", false),
		DefaultLogo:  getEnv("PRAMAIL_DEFAULT_LOGO", DefaultLogoURL),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}
