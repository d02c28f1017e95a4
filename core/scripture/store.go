// Package scripture holds loaded Bible versions and answers scripture
// queries against them.
//
// A Store publishes an immutable Snapshot through an atomic pointer. A load
// pass builds a complete Snapshot off to the side and swaps it in, so readers
// never observe a half-loaded version and a reload never blocks a search.
package scripture

import (
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/FocuswithJustin/ChurchProjection/core/books"
)

// Verse is one verse returned by a query.
type Verse struct {
	Book    string `json:"book"`
	Chapter int    `json:"chapter"`
	Verse   int    `json:"verse"`
	Text    string `json:"text"`
	Version string `json:"version"`
}

// SourceInfo describes a file that contributed to a version.
type SourceInfo struct {
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	BLAKE3 string `json:"blake3"`
	Verses int    `json:"verses"`
}

type chapterText struct {
	verses map[int]string
	folded map[int]string // lowercased NFC text used for keyword matching
	order  []int
}

type bookText struct {
	chapters map[int]*chapterText
	order    []int
}

// Bible is one loaded version. It is read-only once part of a Snapshot.
type Bible struct {
	id           string
	books        map[string]*bookText
	bookOrder    []string
	displayNames map[string]string
	sources      []SourceInfo
}

func newBible(id string) *Bible {
	return &Bible{
		id:           id,
		books:        make(map[string]*bookText),
		displayNames: make(map[string]string),
	}
}

// ID returns the version identifier.
func (b *Bible) ID() string { return b.id }

func (b *Bible) setVerse(book string, chapter, verse int, text string) {
	b.putVerse(book, chapter, verse, text, fold(text))
}

func (b *Bible) putVerse(book string, chapter, verse int, text, folded string) {
	bk, ok := b.books[book]
	if !ok {
		bk = &bookText{chapters: make(map[int]*chapterText)}
		b.books[book] = bk
	}
	ch, ok := bk.chapters[chapter]
	if !ok {
		ch = &chapterText{verses: make(map[int]string), folded: make(map[int]string)}
		bk.chapters[chapter] = ch
	}
	ch.verses[verse] = text
	ch.folded[verse] = folded
}

// freeze computes iteration orders. Books follow canonical order, then any
// non-canonical names alphabetically.
func (b *Bible) freeze() {
	b.bookOrder = b.bookOrder[:0]
	for name, bk := range b.books {
		b.bookOrder = append(b.bookOrder, name)
		bk.order = bk.order[:0]
		for n, ch := range bk.chapters {
			bk.order = append(bk.order, n)
			ch.order = ch.order[:0]
			for v := range ch.verses {
				ch.order = append(ch.order, v)
			}
			sort.Ints(ch.order)
		}
		sort.Ints(bk.order)
	}
	sort.Slice(b.bookOrder, func(i, j int) bool {
		oi, iok := books.Order(b.bookOrder[i])
		oj, jok := books.Order(b.bookOrder[j])
		switch {
		case iok && jok:
			return oi < oj
		case iok != jok:
			return iok
		default:
			return b.bookOrder[i] < b.bookOrder[j]
		}
	})
}

// resolveBook maps a user-supplied name to a stored book key.
func (b *Bible) resolveBook(name string) (string, bool) {
	if _, ok := b.books[name]; ok {
		return name, true
	}
	normalized := books.Normalize(name)
	if _, ok := b.books[normalized]; ok {
		return normalized, true
	}
	for _, key := range b.bookOrder {
		if strings.EqualFold(key, normalized) {
			return key, true
		}
	}
	return "", false
}

// Books lists the version's book keys in canonical order.
func (b *Bible) Books() []string {
	return append([]string(nil), b.bookOrder...)
}

// DisplayName returns the name the source used for a canonical book.
func (b *Bible) DisplayName(book string) string {
	if name, ok := b.displayNames[book]; ok && name != "" {
		return name
	}
	return book
}

// Sources describes the files the version was loaded from.
func (b *Bible) Sources() []SourceInfo {
	return append([]SourceInfo(nil), b.sources...)
}

// Walk visits every verse in book, chapter, verse order until fn returns false.
func (b *Bible) Walk(fn func(book string, chapter, verse int, text string) bool) {
	for _, name := range b.bookOrder {
		bk := b.books[name]
		for _, c := range bk.order {
			ch := bk.chapters[c]
			for _, v := range ch.order {
				if !fn(name, c, v, ch.verses[v]) {
					return
				}
			}
		}
	}
}

func (b *Bible) chapter(book string, chapter int) *chapterText {
	bk, ok := b.books[book]
	if !ok {
		return nil
	}
	return bk.chapters[chapter]
}

func (b *Bible) verseCount() int {
	n := 0
	for _, bk := range b.books {
		for _, ch := range bk.chapters {
			n += len(ch.verses)
		}
	}
	return n
}

// Snapshot is an immutable view of every loaded version.
type Snapshot struct {
	bibles   map[string]*Bible
	versions []string
}

var emptySnapshot = &Snapshot{bibles: map[string]*Bible{}}

// Versions returns the loaded version identifiers in sorted order.
func (s *Snapshot) Versions() []string {
	out := make([]string, len(s.versions))
	copy(out, s.versions)
	return out
}

// Bible returns a loaded version.
func (s *Snapshot) Bible(version string) (*Bible, bool) {
	b, ok := s.bibles[version]
	return b, ok
}

// Builder accumulates verses for one load pass.
type Builder struct {
	bibles map[string]*Bible
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{bibles: make(map[string]*Bible)}
}

func (b *Builder) version(id string) *Bible {
	bible, ok := b.bibles[id]
	if !ok {
		bible = newBible(id)
		b.bibles[id] = bible
	}
	return bible
}

// AddVersion registers a version even if it ends up with no verses.
func (b *Builder) AddVersion(id string) {
	b.version(id)
}

// Add stores a verse, replacing any existing text at the same coordinates.
func (b *Builder) Add(version, book string, chapter, verse int, text string) {
	b.version(version).setVerse(book, chapter, verse, text)
}

// SetDisplayName records the display form of a canonical book name.
func (b *Builder) SetDisplayName(version, canonical, display string) {
	b.version(version).displayNames[canonical] = display
}

// merge copies one file's content into the pass. Later files overwrite
// earlier ones at identical coordinates.
func (b *Builder) merge(src *Bible) {
	dst := b.version(src.id)
	for name, bk := range src.books {
		for n, ch := range bk.chapters {
			for v, text := range ch.verses {
				dst.putVerse(name, n, v, text, ch.folded[v])
			}
		}
	}
	for canonical, display := range src.displayNames {
		dst.displayNames[canonical] = display
	}
	dst.sources = append(dst.sources, src.sources...)
}

// Snapshot freezes the builder's content. The builder is empty afterwards.
func (b *Builder) Snapshot() *Snapshot {
	s := &Snapshot{bibles: b.bibles}
	for id, bible := range s.bibles {
		bible.freeze()
		s.versions = append(s.versions, id)
	}
	sort.Strings(s.versions)
	b.bibles = make(map[string]*Bible)
	return s
}

// Store is the shared, concurrently readable set of loaded versions.
type Store struct {
	current    atomic.Pointer[Snapshot]
	loaded     chan struct{}
	loadedOnce sync.Once
}

// NewStore returns an empty store.
func NewStore() *Store {
	s := &Store{loaded: make(chan struct{})}
	s.current.Store(emptySnapshot)
	return s
}

// Snapshot returns the current content.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Replace publishes a new snapshot and marks the store loaded.
func (s *Store) Replace(snap *Snapshot) {
	if snap == nil {
		snap = emptySnapshot
	}
	s.current.Store(snap)
	s.markLoaded()
}

func (s *Store) markLoaded() {
	s.loadedOnce.Do(func() { close(s.loaded) })
}

// Loaded is closed once the first load pass has finished, whether or not it
// found any versions.
func (s *Store) Loaded() <-chan struct{} {
	return s.loaded
}

// IsLoaded reports whether the first load pass has finished.
func (s *Store) IsLoaded() bool {
	select {
	case <-s.loaded:
		return true
	default:
		return false
	}
}

// Versions lists loaded version identifiers in sorted order.
func (s *Store) Versions() []string {
	return s.Snapshot().Versions()
}

// HasVersion reports whether version is loaded.
func (s *Store) HasVersion(version string) bool {
	_, ok := s.Snapshot().bibles[version]
	return ok
}

// FirstVersion returns the first loaded version in sorted order, or "".
func (s *Store) FirstVersion() string {
	snap := s.Snapshot()
	if len(snap.versions) == 0 {
		return ""
	}
	return snap.versions[0]
}

// VerseText returns a single verse, or "" when any coordinate is missing.
func (s *Store) VerseText(book string, chapter, verse int, version string) string {
	bible, ok := s.Snapshot().bibles[version]
	if !ok {
		return ""
	}
	key, ok := bible.resolveBook(book)
	if !ok {
		return ""
	}
	ch := bible.chapter(key, chapter)
	if ch == nil {
		return ""
	}
	return ch.verses[verse]
}

// Books lists the books present in version. An unknown version falls back
// to the first loaded version; with nothing loaded the result is empty.
func (s *Store) Books(version string) []string {
	snap := s.Snapshot()
	bible, ok := snap.bibles[version]
	if !ok {
		if len(snap.versions) == 0 {
			return []string{}
		}
		bible = snap.bibles[snap.versions[0]]
	}
	out := make([]string, len(bible.bookOrder))
	copy(out, bible.bookOrder)
	return out
}

// LocalizedBookName returns the name version's source file used for book.
// When the version or display name is unknown, book is returned unchanged.
func (s *Store) LocalizedBookName(book, version string) string {
	bible, ok := s.Snapshot().bibles[version]
	if !ok {
		return book
	}
	if name, ok := bible.displayNames[books.Normalize(book)]; ok && name != "" {
		return name
	}
	return book
}

// ChapterCount returns the number of distinct chapters of book in version.
func (s *Store) ChapterCount(book, version string) int {
	bible, ok := s.Snapshot().bibles[version]
	if !ok {
		return 0
	}
	key, ok := bible.resolveBook(book)
	if !ok {
		return 0
	}
	return len(bible.books[key].chapters)
}

// VerseCount returns the number of distinct verses in a chapter of version.
func (s *Store) VerseCount(book string, chapter int, version string) int {
	bible, ok := s.Snapshot().bibles[version]
	if !ok {
		return 0
	}
	key, ok := bible.resolveBook(book)
	if !ok {
		return 0
	}
	ch := bible.chapter(key, chapter)
	if ch == nil {
		return 0
	}
	return len(ch.verses)
}

// CanonicalBooks returns the 66-book catalog with names localized to
// version. Unknown or empty versions yield the English catalog.
func (s *Store) CanonicalBooks(version string) []books.Book {
	bible, ok := s.Snapshot().bibles[version]
	if !ok {
		return books.Canonical()
	}
	return books.Localized(bible.displayNames)
}

// Sources describes the files version was loaded from.
func (s *Store) Sources(version string) []SourceInfo {
	bible, ok := s.Snapshot().bibles[version]
	if !ok {
		return nil
	}
	out := make([]SourceInfo, len(bible.sources))
	copy(out, bible.sources)
	return out
}

// VerseTotal returns the number of verses stored for version.
func (s *Store) VerseTotal(version string) int {
	bible, ok := s.Snapshot().bibles[version]
	if !ok {
		return 0
	}
	return bible.verseCount()
}
