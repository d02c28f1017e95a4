// Package books holds the canonical 66-book catalog and the book name
// normalizer that maps abbreviations and localized names onto it.
package books

import "encoding/json"

// Testament classifies a canonical book.
type Testament int

const (
	// Old is the Old Testament.
	Old Testament = iota
	// New is the New Testament.
	New
)

// String returns "old" or "new".
func (t Testament) String() string {
	if t == New {
		return "new"
	}
	return "old"
}

// MarshalJSON encodes the testament as its string form.
func (t Testament) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// Book is one entry of the canonical catalog.
type Book struct {
	Name      string    `json:"name"`
	Testament Testament `json:"testament"`
	Chapters  int       `json:"chapters"`
}

// canonical is the master list in canonical order. Never hand it out directly.
var canonical = [...]Book{
	// Old Testament
	{"Genesis", Old, 50},
	{"Exodus", Old, 40},
	{"Leviticus", Old, 27},
	{"Numbers", Old, 36},
	{"Deuteronomy", Old, 34},
	{"Joshua", Old, 24},
	{"Judges", Old, 21},
	{"Ruth", Old, 4},
	{"1 Samuel", Old, 31},
	{"2 Samuel", Old, 24},
	{"1 Kings", Old, 22},
	{"2 Kings", Old, 25},
	{"1 Chronicles", Old, 29},
	{"2 Chronicles", Old, 36},
	{"Ezra", Old, 10},
	{"Nehemiah", Old, 13},
	{"Esther", Old, 10},
	{"Job", Old, 42},
	{"Psalms", Old, 150},
	{"Proverbs", Old, 31},
	{"Ecclesiastes", Old, 12},
	{"Song of Solomon", Old, 8},
	{"Isaiah", Old, 66},
	{"Jeremiah", Old, 52},
	{"Lamentations", Old, 5},
	{"Ezekiel", Old, 48},
	{"Daniel", Old, 12},
	{"Hosea", Old, 14},
	{"Joel", Old, 3},
	{"Amos", Old, 9},
	{"Obadiah", Old, 1},
	{"Jonah", Old, 4},
	{"Micah", Old, 7},
	{"Nahum", Old, 3},
	{"Habakkuk", Old, 3},
	{"Zephaniah", Old, 3},
	{"Haggai", Old, 2},
	{"Zechariah", Old, 14},
	{"Malachi", Old, 4},
	// New Testament
	{"Matthew", New, 28},
	{"Mark", New, 16},
	{"Luke", New, 24},
	{"John", New, 21},
	{"Acts", New, 28},
	{"Romans", New, 16},
	{"1 Corinthians", New, 16},
	{"2 Corinthians", New, 13},
	{"Galatians", New, 6},
	{"Ephesians", New, 6},
	{"Philippians", New, 4},
	{"Colossians", New, 4},
	{"1 Thessalonians", New, 5},
	{"2 Thessalonians", New, 3},
	{"1 Timothy", New, 6},
	{"2 Timothy", New, 4},
	{"Titus", New, 3},
	{"Philemon", New, 1},
	{"Hebrews", New, 13},
	{"James", New, 5},
	{"1 Peter", New, 5},
	{"2 Peter", New, 3},
	{"1 John", New, 5},
	{"2 John", New, 1},
	{"3 John", New, 1},
	{"Jude", New, 1},
	{"Revelation", New, 22},
}

// Count is the number of canonical books.
const Count = len(canonical)

var orderIndex = func() map[string]int {
	m := make(map[string]int, len(canonical))
	for i, b := range canonical {
		m[b.Name] = i
	}
	return m
}()

// Canonical returns a fresh copy of the catalog in canonical order.
func Canonical() []Book {
	out := make([]Book, len(canonical))
	copy(out, canonical[:])
	return out
}

// Localized returns a copy of the catalog where each name found in
// displayNames is replaced by its display form. Names without an entry
// keep the canonical English name.
func Localized(displayNames map[string]string) []Book {
	out := Canonical()
	if len(displayNames) == 0 {
		return out
	}
	for i := range out {
		if name, ok := displayNames[out[i].Name]; ok && name != "" {
			out[i].Name = name
		}
	}
	return out
}

// Order returns the zero-based canonical position of name and whether it
// is a canonical book at all.
func Order(name string) (int, bool) {
	i, ok := orderIndex[name]
	return i, ok
}

// IsCanonical reports whether name is one of the 66 canonical names.
func IsCanonical(name string) bool {
	_, ok := orderIndex[name]
	return ok
}

// Lookup returns the catalog entry for a canonical name.
func Lookup(name string) (Book, bool) {
	i, ok := orderIndex[name]
	if !ok {
		return Book{}, false
	}
	return canonical[i], true
}
