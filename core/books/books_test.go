package books

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCanonicalCatalog(t *testing.T) {
	list := Canonical()
	if len(list) != 66 || Count != 66 {
		t.Fatalf("len(Canonical()) = %d, Count = %d, want 66", len(list), Count)
	}
	if list[0].Name != "Genesis" || list[65].Name != "Revelation" {
		t.Errorf("first/last = %q/%q, want Genesis/Revelation", list[0].Name, list[65].Name)
	}

	var oldCount, newCount int
	for _, b := range list {
		if b.Chapters <= 0 {
			t.Errorf("%s has %d chapters", b.Name, b.Chapters)
		}
		switch b.Testament {
		case Old:
			oldCount++
		case New:
			newCount++
		}
	}
	if oldCount != 39 || newCount != 27 {
		t.Errorf("old/new = %d/%d, want 39/27", oldCount, newCount)
	}

	if b, ok := Lookup("Psalms"); !ok || b.Chapters != 150 {
		t.Errorf("Lookup(Psalms) = %+v, %v", b, ok)
	}
	if i, ok := Order("Matthew"); !ok || i != 39 {
		t.Errorf("Order(Matthew) = %d, %v; want 39, true", i, ok)
	}
	if IsCanonical("Tobit") {
		t.Error("Tobit should not be canonical")
	}
}

func TestCanonicalReturnsCopy(t *testing.T) {
	list := Canonical()
	list[0].Name = "Changed"
	if Canonical()[0].Name != "Genesis" {
		t.Error("mutating the returned slice changed the master list")
	}
}

func TestLocalized(t *testing.T) {
	display := map[string]string{"Genesis": "Mwanzo", "Exodus": ""}
	list := Localized(display)
	if list[0].Name != "Mwanzo" {
		t.Errorf("first name = %q, want Mwanzo", list[0].Name)
	}
	if list[1].Name != "Exodus" {
		t.Errorf("empty display name should keep canonical, got %q", list[1].Name)
	}
	if list[0].Chapters != 50 || list[0].Testament != Old {
		t.Errorf("metadata changed: %+v", list[0])
	}
	if Canonical()[0].Name != "Genesis" {
		t.Error("Localized mutated the master list")
	}
	if diff := cmp.Diff(Canonical(), Localized(nil)); diff != "" {
		t.Errorf("Localized(nil) mismatch (-want +got):\n%s", diff)
	}
}

func TestTestamentJSON(t *testing.T) {
	data, err := json.Marshal(Book{Name: "John", Testament: New, Chapters: 21})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), `{"name":"John","testament":"new","chapters":21}`; got != want {
		t.Errorf("json = %s, want %s", got, want)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Genesis", "Genesis"},
		{"Gen.", "Genesis"},
		{"gen", "Genesis"},
		{"MWANZO", "Genesis"},
		{"Mwanzo", "Genesis"},
		{"1 Corinthians", "1 Corinthians"},
		{"1co", "1 Corinthians"},
		{"1 Cor.", "1 Corinthians"},
		{"2 Samweli", "2 Samuel"},
		{"Kumbukumbu la Torati", "Deuteronomy"},
		{"Matendo", "Acts"},
		{"Ps", "Psalms"},
		{"Song of Songs", "Song of Solomon"},
		{"Jn", "John"},
		{"3 John", "3 John"},
		{"Yohana", "John"},
		{"1 Yohana", "1 John"},
		// first definition wins for "mat"
		{"mat", "Matthew"},
		// prefix scan walks keys in sorted order: "job" sorts before "joshua"
		{"jo", "Job"},
		{"Revel", "Revelation"},
		{"Philipp", "Philippians"},
		{"Ufunuo wa", "Revelation"},
		// unrecognized input passes through unchanged
		{"light", "light"},
		{"Jesus", "Jesus"},
		{"hi", "hi"},
		{"Q", "Q"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolveReportsMatch(t *testing.T) {
	if name, ok := Resolve("Luka"); !ok || name != "Luke" {
		t.Errorf("Resolve(Luka) = %q, %v", name, ok)
	}
	if name, ok := Resolve("Tobit"); ok || name != "Tobit" {
		t.Errorf("Resolve(Tobit) = %q, %v; want passthrough", name, ok)
	}
}

func TestEveryAliasResolvesToCanonical(t *testing.T) {
	for _, a := range Default().Aliases() {
		if !IsCanonical(a.Canonical) {
			t.Errorf("alias %q maps to non-canonical %q", a.Key, a.Canonical)
		}
		if got := Normalize(a.Key); got != a.Canonical {
			t.Errorf("Normalize(%q) = %q, want %q", a.Key, got, a.Canonical)
		}
		upper := strings.ToUpper(a.Key) + "."
		if got := Normalize(upper); got != a.Canonical {
			t.Errorf("Normalize(%q) = %q, want %q", upper, got, a.Canonical)
		}
	}
}

func TestEveryCanonicalNameIsAnAlias(t *testing.T) {
	for _, b := range Canonical() {
		if got := Normalize(b.Name); got != b.Name {
			t.Errorf("Normalize(%q) = %q", b.Name, got)
		}
	}
}

func TestNumberedBooksHaveCompactAndSpacedForms(t *testing.T) {
	keys := make(map[string]string)
	for _, a := range Default().Aliases() {
		keys[a.Key] = a.Canonical
	}
	for _, b := range Canonical() {
		if b.Name[0] < '1' || b.Name[0] > '3' {
			continue
		}
		spaced := strings.ToLower(b.Name)
		if keys[spaced] != b.Name {
			t.Errorf("missing spaced alias %q", spaced)
		}
		compact := strings.ToLower(strings.ReplaceAll(b.Name, " ", ""))[:3]
		if keys[compact] != b.Name {
			t.Errorf("missing compact alias %q for %s", compact, b.Name)
		}
	}
}

func TestAmbiguities(t *testing.T) {
	want := []Ambiguity{{Key: "mat", Winner: "Matthew", Ignored: []string{"Acts"}}}
	if diff := cmp.Diff(want, Default().Ambiguities()); diff != "" {
		t.Errorf("Ambiguities() mismatch (-want +got):\n%s", diff)
	}
}

func TestAliasesAreDeduplicated(t *testing.T) {
	seen := make(map[string]bool)
	for _, a := range Default().Aliases() {
		if seen[a.Key] {
			t.Errorf("duplicate key %q in Aliases()", a.Key)
		}
		seen[a.Key] = true
	}
}
