// Package repair rewrites Bible sources that use the legacy tag layout
// (<Mwanzo n=1> for books, <1> for chapters, <v n=1> for verses) into the
// <b n>, <c n>, <v n> structure the loader reads.
package repair

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/ChurchProjection/core/encoding"
	"github.com/FocuswithJustin/ChurchProjection/core/errors"
)

// Stats counts what a repair emitted.
type Stats struct {
	Books    int `json:"books"`
	Chapters int `json:"chapters"`
	Verses   int `json:"verses"`
	Dropped  int `json:"dropped"` // tags not carried into the output
}

// markupLexer splits a document into tags and the text between them. A
// lone "<" that never closes is treated as text.
var markupLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Tag", Pattern: `<[^<>]+>`},
	{Name: "Text", Pattern: `[^<]+`},
	{Name: "Stray", Pattern: `<`},
})

var (
	verseTag        = regexp.MustCompile(`^v\s+n\s*=\s*"?(\d+)"?\s*$`)
	chapterTag      = regexp.MustCompile(`^c\s+n\s*=\s*"?(\d+)"?\s*$`)
	legacyChapter   = regexp.MustCompile(`^\d+$`)
	bookTag         = regexp.MustCompile(`^b\s+n\s*=\s*"([^"]*)"\s*$`)
	legacyBook      = regexp.MustCompile(`^(.+?)\s+n=\d+`)
	wrapperOrPrelim = regexp.MustCompile(`^(?:\?.*\?|!.*|/?bible(?:\s[^>]*)?)$`)
)

const header = `<?xml version="1.0" encoding="UTF-8"?>` + "\n<bible>\n"

type writer struct {
	w       *bufio.Writer
	stats   Stats
	inBook  bool
	inCh    bool
	inVerse bool
}

func (w *writer) closeVerse() {
	if w.inVerse {
		w.w.WriteString("</v>")
		w.inVerse = false
	}
}

func (w *writer) closeChapter() {
	w.closeVerse()
	if w.inCh {
		w.w.WriteString("\n</c>\n")
		w.inCh = false
	}
}

func (w *writer) closeBook() {
	w.closeChapter()
	if w.inBook {
		w.w.WriteString("</b>\n")
		w.inBook = false
	}
}

func (w *writer) book(name string) {
	w.closeBook()
	fmt.Fprintf(w.w, "<b n=\"%s\">\n", encoding.ReescapeAttr(strings.TrimSpace(name)))
	w.inBook = true
	w.stats.Books++
}

func (w *writer) chapter(n string) {
	w.closeChapter()
	fmt.Fprintf(w.w, "<c n=\"%s\">\n", n)
	w.inCh = true
	w.stats.Chapters++
}

func (w *writer) verse(n string) {
	w.closeVerse()
	fmt.Fprintf(w.w, "<v n=\"%s\">", n)
	w.inVerse = true
	w.stats.Verses++
}

func (w *writer) tag(raw string) {
	content := strings.TrimSpace(raw[1 : len(raw)-1])

	if strings.HasPrefix(content, "/") {
		if strings.TrimSpace(content[1:]) == "v" && w.inVerse {
			w.closeVerse()
		} else {
			w.stats.Dropped++
		}
		return
	}

	switch {
	case wrapperOrPrelim.MatchString(content):
		w.stats.Dropped++
	case verseTag.MatchString(content):
		w.verse(verseTag.FindStringSubmatch(content)[1])
	case chapterTag.MatchString(content):
		w.chapter(chapterTag.FindStringSubmatch(content)[1])
	case legacyChapter.MatchString(content):
		w.chapter(content)
	case bookTag.MatchString(content):
		w.book(bookTag.FindStringSubmatch(content)[1])
	case legacyBook.MatchString(content):
		w.book(legacyBook.FindStringSubmatch(content)[1])
	default:
		// Inline markup is dropped; its text is kept.
		w.stats.Dropped++
	}
}

// Repair reads a legacy document from r and writes the rebuilt document to
// w. Book, chapter and verse elements are closed at the right nesting
// level, any other markup is stripped, text is re-escaped, and invalid UTF-8
// is dropped. Running Repair on its own output reproduces that output.
func Repair(r io.Reader, w io.Writer) (Stats, error) {
	lex, err := markupLexer.Lex("", r)
	if err != nil {
		return Stats{}, errors.NewIO("read", "", err)
	}
	symbols := markupLexer.Symbols()
	tagType := symbols["Tag"]

	out := &writer{w: bufio.NewWriter(w)}
	out.w.WriteString(header)

	for {
		tok, err := lex.Next()
		if err != nil {
			return out.stats, errors.NewParse("markup", "", tok.Pos.Line, err.Error())
		}
		if tok.EOF() {
			break
		}
		if tok.Type == tagType {
			out.tag(tok.Value)
			continue
		}
		text := tok.Value
		if !out.inVerse && strings.TrimSpace(text) == "" {
			continue
		}
		out.w.WriteString(encoding.ReescapeText(text))
	}

	out.closeBook()
	out.w.WriteString("</bible>\n")
	if err := out.w.Flush(); err != nil {
		return out.stats, errors.NewIO("write", "", err)
	}
	return out.stats, nil
}

// RepairFile repairs in and writes out. Either path may end in ".xz" to read
// or write xz-compressed data; compress forces xz output regardless of name.
func RepairFile(in, out string, compress bool) (Stats, error) {
	src, err := os.Open(in)
	if err != nil {
		return Stats{}, errors.NewIO("open", in, err)
	}
	defer src.Close()

	var r io.Reader = bufio.NewReader(src)
	if strings.HasSuffix(strings.ToLower(in), ".xz") {
		xr, err := xz.NewReader(r)
		if err != nil {
			return Stats{}, errors.NewParse("xz", in, 0, err.Error())
		}
		r = xr
	}

	dst, err := os.Create(out)
	if err != nil {
		return Stats{}, errors.NewIO("create", out, err)
	}

	var w io.Writer = dst
	var xw *xz.Writer
	if compress || strings.HasSuffix(strings.ToLower(out), ".xz") {
		if xw, err = xz.NewWriter(dst); err != nil {
			dst.Close()
			return Stats{}, errors.NewIO("compress", out, err)
		}
		w = xw
	}

	stats, err := Repair(r, w)
	if err != nil {
		dst.Close()
		return stats, errors.Wrapf(err, "repairing %s", in)
	}
	if xw != nil {
		if err := xw.Close(); err != nil {
			dst.Close()
			return stats, errors.NewIO("compress", out, err)
		}
	}
	if err := dst.Close(); err != nil {
		return stats, errors.NewIO("close", out, err)
	}
	return stats, nil
}
