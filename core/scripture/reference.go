package scripture

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"golang.org/x/text/unicode/norm"

	"github.com/FocuswithJustin/ChurchProjection/core/errors"
)

// Reference is a parsed scripture reference. Zero means "not given" for
// Chapter, Verse and EndVerse.
type Reference struct {
	Book     string `json:"book"`
	Chapter  int    `json:"chapter,omitempty"`
	Verse    int    `json:"verse,omitempty"`
	EndVerse int    `json:"end_verse,omitempty"`
}

// referenceGrammar accepts "<book> [chapter] [:] [verse] [-] [end]".
// Examples: "John 3:16", "1 Cor 13:4-7", "Ps 23", "Mwanzo 1 1", "Rom 8-"
//
//nolint:govet // participle grammar tags are not standard struct tags
type referenceGrammar struct {
	Book    string `@Book`
	Chapter string `@Number?`
	Colon   bool   `@":"?`
	Verse   string `@Number?`
	Dash    bool   `@"-"?`
	End     string `@Number?`
}

// referenceLexer tokenizes references. A book token may carry a leading
// 1-3 ordinal and may span several words ("Song of Solomon", "Wimbo Ulio Bora").
var referenceLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Book", Pattern: `[1-3]?\s*[\p{L}\p{M}.]+(?:\s+[\p{L}\p{M}.]+)*`},
	{Name: "Number", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[:\-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var referenceParser = participle.MustBuild[referenceGrammar](
	participle.Lexer(referenceLexer),
	participle.Elide("Whitespace"),
)

// ParseReference splits a query into book, chapter and verse range. It
// fails for anything that is not shaped like a reference; the book token is
// not checked against the book catalog.
func ParseReference(query string) (Reference, error) {
	parsed, err := referenceParser.ParseString("", query)
	if err != nil {
		return Reference{}, errors.NewParse("reference", "", 0, err.Error())
	}
	return Reference{
		Book:     strings.Join(strings.Fields(parsed.Book), " "),
		Chapter:  number(parsed.Chapter),
		Verse:    number(parsed.Verse),
		EndVerse: number(parsed.End),
	}, nil
}

// number converts a captured digit run. Absent and out-of-range numbers
// both read as 0, "not given".
func number(digits string) int {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// fold prepares text for case-insensitive containment matching.
func fold(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}
