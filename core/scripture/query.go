package scripture

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/FocuswithJustin/ChurchProjection/core/books"
	"github.com/FocuswithJustin/ChurchProjection/internal/logging"
)

// Search defaults.
const (
	DefaultMaxResults       = 50
	DefaultChapterPreview   = 20
	DefaultMinKeywordLength = 3
)

// Phase tells which strategy produced a search result.
type Phase string

const (
	PhaseNone      Phase = "none"
	PhaseReference Phase = "reference"
	PhaseKeyword   Phase = "keyword"
)

// SearchOptions tunes the engine. Zero fields take the defaults.
type SearchOptions struct {
	MaxResults int
	// ChapterPreview is how many verses a chapter-only reference returns.
	ChapterPreview int
	// Keyword search runs only for queries longer than MinKeywordLength.
	MinKeywordLength int
}

func (o SearchOptions) withDefaults() SearchOptions {
	if o.MaxResults <= 0 {
		o.MaxResults = DefaultMaxResults
	}
	if o.ChapterPreview <= 0 {
		o.ChapterPreview = DefaultChapterPreview
	}
	if o.MinKeywordLength <= 0 {
		o.MinKeywordLength = DefaultMinKeywordLength
	}
	return o
}

// Result is a search answer together with how it was produced.
type Result struct {
	Query    string        `json:"query"`
	Version  string        `json:"version,omitempty"`
	Phase    Phase         `json:"phase"`
	Verses   []Verse       `json:"verses"`
	Duration time.Duration `json:"duration"`
}

// Engine answers free-text queries against a Store.
type Engine struct {
	store *Store
	opts  SearchOptions
}

// NewEngine returns an engine reading from store.
func NewEngine(store *Store, opts SearchOptions) *Engine {
	return &Engine{store: store, opts: opts.withDefaults()}
}

// Store returns the store the engine reads.
func (e *Engine) Store() *Store { return e.store }

// Options returns the effective options.
func (e *Engine) Options() SearchOptions { return e.opts }

// Search returns at most MaxResults verses for query. Version restricts the
// search to one loaded version; "" or an unknown version searches them all.
func (e *Engine) Search(query, version string) []Verse {
	return e.SearchDetailed(query, version).Verses
}

// SearchDetailed runs a search in two phases. The query is first treated as
// a reference ("John 3:16", "Ps 23"); if that yields nothing and the query
// is long enough, every verse in scope is scanned for the query as a
// case-insensitive substring.
func (e *Engine) SearchDetailed(query, version string) Result {
	start := time.Now()
	snap := e.store.Snapshot()
	res := Result{Query: query, Version: version, Phase: PhaseNone, Verses: []Verse{}}

	scope := snap.versions
	if _, ok := snap.bibles[version]; ok {
		scope = []string{version}
	}

	if len(scope) > 0 {
		if out := e.byReference(snap, scope, query); len(out) > 0 {
			res.Phase, res.Verses = PhaseReference, out
		} else if utf8.RuneCountInString(query) > e.opts.MinKeywordLength {
			if out := e.byKeyword(snap, scope, query); len(out) > 0 {
				res.Phase, res.Verses = PhaseKeyword, out
			}
		}
	}

	res.Duration = time.Since(start)
	logging.SearchExecuted(query, version, string(res.Phase), len(res.Verses), res.Duration)
	return res
}

func (e *Engine) byReference(snap *Snapshot, scope []string, query string) []Verse {
	ref, err := ParseReference(query)
	if err != nil {
		return nil
	}
	name := books.Normalize(ref.Book)

	chapter := ref.Chapter
	if chapter == 0 {
		chapter = 1
	}

	var out []Verse
	for _, id := range scope {
		if len(out) >= e.opts.MaxResults {
			break
		}
		bible := snap.bibles[id]
		key, ok := bible.resolveBook(name)
		if !ok {
			continue
		}
		ch := bible.chapter(key, chapter)
		if ch == nil {
			continue
		}

		if ref.Chapter > 0 && ref.Verse > 0 {
			end := ref.EndVerse
			if end == 0 {
				end = ref.Verse
			}
			for _, v := range ch.order {
				if v < ref.Verse || v > end {
					continue
				}
				if len(out) >= e.opts.MaxResults {
					break
				}
				out = append(out, Verse{Book: key, Chapter: chapter, Verse: v, Text: ch.verses[v], Version: id})
			}
			continue
		}

		// A bare book or a book and chapter previews the start of the chapter.
		for i, v := range ch.order {
			if i >= e.opts.ChapterPreview || len(out) >= e.opts.MaxResults {
				break
			}
			out = append(out, Verse{Book: key, Chapter: chapter, Verse: v, Text: ch.verses[v], Version: id})
		}
	}
	return out
}

func (e *Engine) byKeyword(snap *Snapshot, scope []string, query string) []Verse {
	needle := fold(query)
	if strings.TrimSpace(needle) == "" {
		return nil
	}

	var out []Verse
	for _, id := range scope {
		bible := snap.bibles[id]
		for _, name := range bible.bookOrder {
			bk := bible.books[name]
			for _, c := range bk.order {
				ch := bk.chapters[c]
				for _, v := range ch.order {
					if !strings.Contains(ch.folded[v], needle) {
						continue
					}
					out = append(out, Verse{Book: name, Chapter: c, Verse: v, Text: ch.verses[v], Version: id})
					if len(out) >= e.opts.MaxResults {
						return out
					}
				}
			}
		}
	}
	return out
}
