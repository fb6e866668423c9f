package locale

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		want    Locale
		wantErr bool
	}{
		{name: "German upper", tag: "DE", want: German},
		{name: "German lower", tag: "de", want: German},
		{name: "Italian padded", tag: " it ", want: Italian},
		{name: "Unsupported", tag: "FR", wantErr: true},
		{name: "Empty", tag: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.tag)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) expected error, got %q", tt.tag, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.tag, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.tag, got, tt.want)
			}
		})
	}
}

func TestFieldsComplete(t *testing.T) {
	for _, loc := range []Locale{German, Italian} {
		fm, err := Fields(loc)
		if err != nil {
			t.Fatalf("Fields(%s) failed: %v", loc, err)
		}
		all := fm.All()
		if len(all) != 13 {
			t.Errorf("Fields(%s) returned %d headers, want 13", loc, len(all))
		}
		seen := make(map[string]bool)
		for _, h := range all {
			if h == "" {
				t.Errorf("Fields(%s) contains an empty header", loc)
			}
			if seen[h] {
				t.Errorf("Fields(%s) contains duplicate header %q", loc, h)
			}
			seen[h] = true
		}
	}
}

func TestFieldsUnknownLocale(t *testing.T) {
	if _, err := Fields(Locale("XX")); err == nil {
		t.Error("Fields on unknown locale should fail")
	}
}

func TestRatingRank(t *testing.T) {
	tests := []struct {
		loc   Locale
		label string
		rank  int
		ok    bool
	}{
		{German, "Hervorragend", 1, true},
		{German, "Sehr gut", 2, true},
		{German, "Gut", 3, true},
		{German, " Gut ", 3, true},
		{German, "Befriedigend", 0, false},
		{Italian, "Molto buono", 1, true},
		{Italian, "Buono", 2, true},
		{Italian, "Gut", 0, false},
	}

	for _, tt := range tests {
		rank, ok := RatingRank(tt.loc, tt.label)
		if ok != tt.ok {
			t.Errorf("RatingRank(%s, %q) ok = %v, want %v", tt.loc, tt.label, ok, tt.ok)
			continue
		}
		if ok && rank != tt.rank {
			t.Errorf("RatingRank(%s, %q) = %d, want %d", tt.loc, tt.label, rank, tt.rank)
		}
	}
}

func TestAcceptedRatingsOrderedByRank(t *testing.T) {
	de := AcceptedRatings(German)
	if len(de) != 3 {
		t.Fatalf("expected 3 German labels, got %v", de)
	}
	if de[0] != "Hervorragend" || de[1] != "Sehr gut" || de[2] != "Gut" {
		t.Errorf("unexpected German order: %v", de)
	}

	it := AcceptedRatings(Italian)
	if len(it) != 2 {
		t.Fatalf("expected 2 Italian labels, got %v", it)
	}
	if it[0] != "Molto buono" || it[1] != "Buono" {
		t.Errorf("unexpected Italian order: %v", it)
	}
}

func TestMatchGender(t *testing.T) {
	tests := []struct {
		loc   Locale
		value string
		want  Gender
	}{
		{German, "Herr", GenderMale},
		{German, "herr", GenderMale},
		{German, " HERR ", GenderMale},
		{German, "Frau", GenderFemale},
		{German, "Herr Dr.", GenderUnknown},
		{German, "", GenderUnknown},
		{Italian, "Signor", GenderMale},
		{Italian, "signora", GenderFemale},
		// German honorifics do not leak into the Italian locale
		{Italian, "Herr", GenderUnknown},
	}

	for _, tt := range tests {
		if got := MatchGender(tt.loc, tt.value); got != tt.want {
			t.Errorf("MatchGender(%s, %q) = %v, want %v", tt.loc, tt.value, got, tt.want)
		}
	}
}
