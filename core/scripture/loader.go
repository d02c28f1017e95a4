package scripture

import (
	"bufio"
	"context"
	"encoding/hex"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"
	"golang.org/x/net/html/charset"
	"golang.org/x/sync/errgroup"

	"github.com/FocuswithJustin/ChurchProjection/core/books"
	"github.com/FocuswithJustin/ChurchProjection/core/errors"
	"github.com/FocuswithJustin/ChurchProjection/internal/logging"
)

// SourceRoot is the checkout the binary was built from. It is set at link
// time with -ldflags "-X .../core/scripture.SourceRoot=/path" and is the
// last place searched for assets/bible.
var SourceRoot string

// BibleSubdir is where Bible files live relative to each search root.
var BibleSubdir = filepath.Join("assets", "bible")

// FileResult reports how one source file loaded.
type FileResult struct {
	Path    string `json:"path"`
	Version string `json:"version"`
	Verses  int    `json:"verses"`
	Skipped int    `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`

	err error
}

// Err returns the load error, if any.
func (r FileResult) Err() error { return r.err }

// LoadReport summarizes one load pass.
type LoadReport struct {
	Dir      string        `json:"dir,omitempty"`
	Versions []string      `json:"versions"`
	Files    []FileResult  `json:"files"`
	Duration time.Duration `json:"duration"`
}

// Errors collects the per-file errors of the pass.
func (r LoadReport) Errors() []error {
	var errs []error
	for _, f := range r.Files {
		if f.err != nil {
			errs = append(errs, f.err)
		}
	}
	return errs
}

// Loader discovers Bible files and publishes their content to a Store.
// Load passes are serialized; each one replaces the store's content.
type Loader struct {
	store      *Store
	candidates []string

	mu sync.Mutex // one pass at a time

	subMu       sync.Mutex
	subscribers []func(LoadReport)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithCandidates replaces the default directory search list.
func WithCandidates(dirs ...string) LoaderOption {
	return func(l *Loader) {
		l.candidates = append([]string(nil), dirs...)
	}
}

// NewLoader returns a loader feeding store.
func NewLoader(store *Store, opts ...LoaderOption) *Loader {
	l := &Loader{store: store}
	for _, opt := range opts {
		opt(l)
	}
	if l.candidates == nil {
		l.candidates = DefaultCandidates("")
	}
	return l
}

// Candidates returns the directories searched by Load, in order.
func (l *Loader) Candidates() []string {
	return append([]string(nil), l.candidates...)
}

// Subscribe registers fn to run after every load pass, including passes that
// found no directory. Subscribers run on the loading goroutine.
func (l *Loader) Subscribe(fn func(LoadReport)) {
	l.subMu.Lock()
	defer l.subMu.Unlock()
	l.subscribers = append(l.subscribers, fn)
}

// DefaultCandidates lists the directories searched for Bible files: the
// configured directory first, then locations relative to the executable,
// the working directory, and finally SourceRoot.
func DefaultCandidates(configured string) []string {
	var dirs []string
	if configured != "" {
		dirs = append(dirs, configured)
	}
	if exe, err := os.Executable(); err == nil {
		base := filepath.Dir(exe)
		dirs = append(dirs,
			filepath.Join(base, BibleSubdir),
			filepath.Join(base, "..", BibleSubdir),
			filepath.Join(base, "..", "..", BibleSubdir),
			filepath.Join(base, "..", "Resources", BibleSubdir), // macOS bundle
		)
	}
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, filepath.Join(wd, BibleSubdir))
	}
	if SourceRoot != "" {
		dirs = append(dirs, filepath.Join(SourceRoot, BibleSubdir))
	}
	return dirs
}

// ResolveDir returns the first candidate that is an existing directory.
func (l *Loader) ResolveDir() (string, bool) {
	for _, dir := range l.candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return filepath.Clean(dir), true
		}
	}
	return "", false
}

// DiscoverSources lists the .xml and .xml.xz files directly inside dir in
// name order.
func DiscoverSources(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.NewIO("read directory", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !IsSource(e.Name()) || VersionID(e.Name()) == "" {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

// IsSource reports whether name looks like a loadable Bible file.
func IsSource(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".xml") || strings.HasSuffix(lower, ".xml.xz")
}

// VersionID derives a version identifier from a file name: everything
// before the first ".". "NKJV.xml" and "NKJV.xml.xz" both give "NKJV".
func VersionID(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	return base
}

// Load resolves the Bible directory and runs a load pass over it. When no
// candidate exists the store keeps its content, but the store is still
// marked loaded and subscribers are still notified.
func (l *Loader) Load(ctx context.Context) (LoadReport, error) {
	dir, ok := l.ResolveDir()
	if !ok {
		l.mu.Lock()
		defer l.mu.Unlock()
		logging.Warn("no bible directory found", "candidates", l.candidates)
		report := LoadReport{Versions: l.store.Versions()}
		l.store.markLoaded()
		l.notify(report)
		return report, nil
	}
	return l.LoadDir(ctx, dir)
}

// LoadDir runs a load pass over every source file in dir.
func (l *Loader) LoadDir(ctx context.Context, dir string) (LoadReport, error) {
	paths, err := DiscoverSources(dir)
	if err != nil {
		logging.Warn("bible directory unreadable", "dir", dir, "error", err)
	}
	report, err := l.LoadFiles(ctx, paths...)
	report.Dir = dir
	return report, err
}

// LoadFiles runs a load pass over paths. Files are decoded concurrently and
// merged in argument order, so a later file overwrites an earlier one at the
// same version, book, chapter and verse. A file that fails part-way keeps
// whatever it produced before the failure.
func (l *Loader) LoadFiles(ctx context.Context, paths ...string) (LoadReport, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()
	parts := make([]*Bible, len(paths))
	results := make([]FileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			parts[i], results[i] = decodeFile(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return LoadReport{Files: results}, err
	}

	builder := NewBuilder()
	for i, part := range parts {
		res := results[i]
		if res.err != nil {
			logging.BibleLoadFailed(res.Path, res.err, "version", res.Version, "verses", res.Verses)
		} else {
			logging.BibleLoaded(res.Version, res.Path, res.Verses, "skipped", res.Skipped)
		}
		if part != nil {
			builder.merge(part)
		}
	}

	snap := builder.Snapshot()
	l.store.Replace(snap)

	report := LoadReport{
		Versions: snap.Versions(),
		Files:    results,
		Duration: time.Since(start),
	}
	if len(report.Versions) == 0 {
		logging.Warn("no bible versions were loaded", "files", len(paths))
	}
	logging.BiblesLoaded(len(report.Versions), len(paths), report.Duration)
	l.notify(report)
	return report, nil
}

func (l *Loader) notify(report LoadReport) {
	l.subMu.Lock()
	subs := slices.Clone(l.subscribers)
	l.subMu.Unlock()
	for _, fn := range subs {
		fn(report)
	}
}

type countingWriter struct{ n int64 }

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += int64(len(p))
	return len(p), nil
}

// decodeFile reads one source file into a fresh Bible. It returns nil only
// when the file could not be opened; in that case the version is not
// registered by this file.
func decodeFile(path string) (*Bible, FileResult) {
	id := VersionID(path)
	res := FileResult{Path: path, Version: id}

	f, err := os.Open(path)
	if err != nil {
		res.err = errors.NewIO("open", path, err)
		res.Error = res.err.Error()
		return nil, res
	}
	defer f.Close()

	hasher := blake3.New()
	size := &countingWriter{}
	raw := io.TeeReader(f, io.MultiWriter(hasher, size))

	bible := newBible(id)
	var r io.Reader = bufio.NewReader(raw)
	if strings.HasSuffix(strings.ToLower(path), ".xz") {
		xr, err := xz.NewReader(r)
		if err != nil {
			res.err = errors.NewParse("xz", path, 0, err.Error())
		} else {
			r = xr
		}
	}
	if res.err == nil {
		res.Verses, res.Skipped, res.err = decode(r, path, bible)
	}

	// Hash the whole file even when decoding stopped early.
	if _, err := io.Copy(io.Discard, raw); err != nil && res.err == nil {
		res.err = errors.NewIO("read", path, err)
	}
	if res.err != nil {
		res.Error = res.err.Error()
	}

	bible.sources = append(bible.sources, SourceInfo{
		Path:   path,
		Size:   size.n,
		BLAKE3: hex.EncodeToString(hasher.Sum(nil)),
		Verses: res.Verses,
	})
	return bible, res
}

// decode streams <b n>, <c n> and <v n> elements into bible. Book names are
// normalized; the name as written is kept as the book's display name.
// Verses outside any book, or with a missing or non-numeric chapter or verse
// number, are counted as skipped.
func decode(r io.Reader, path string, bible *Bible) (verses, skipped int, err error) {
	decoder := xml.NewDecoder(r)
	// No DTD entity expansion beyond the five predefined XML entities.
	decoder.Entity = map[string]string{}
	decoder.CharsetReader = charset.NewReaderLabel

	var book string
	var chapter int
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return verses, skipped, nil
		}
		if err != nil {
			return verses, skipped, syntaxError(decoder, path, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "b":
			display := attr(start, "n")
			book = books.Normalize(display)
			// A new book never inherits the previous book's chapter.
			chapter = 0
			if book != "" {
				bible.displayNames[book] = display
			}
		case "c":
			chapter = attrInt(start, "n")
		case "v":
			n := attrInt(start, "n")
			text, err := elementText(decoder)
			if err != nil {
				return verses, skipped, syntaxError(decoder, path, err)
			}
			if book == "" || chapter <= 0 || n <= 0 {
				skipped++
				continue
			}
			bible.setVerse(book, chapter, n, text)
			verses++
		}
	}
}

// elementText returns the character data of the element just opened,
// including text inside nested markup.
func elementText(decoder *xml.Decoder) (string, error) {
	var sb strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return sb.String(), err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			sb.Write(t)
		}
	}
	return sb.String(), nil
}

func attr(start xml.StartElement, name string) string {
	for _, a := range start.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// attrInt parses a numeric attribute; anything unparsable is 0.
func attrInt(start xml.StartElement, name string) int {
	n, err := strconv.Atoi(strings.TrimSpace(attr(start, name)))
	if err != nil {
		return 0
	}
	return n
}

func syntaxError(decoder *xml.Decoder, path string, err error) error {
	line, _ := decoder.InputPos()
	if se, ok := err.(*xml.SyntaxError); ok {
		line = se.Line
	}
	pe := errors.NewParse("xml", path, line, err.Error())
	pe.Err = err
	return pe
}
