// Command projection searches and serves the scripture library used by the
// projection dashboard.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/ChurchProjection/core/scripture"
	"github.com/FocuswithJustin/ChurchProjection/core/sqlite"
	"github.com/FocuswithJustin/ChurchProjection/internal/config"
	"github.com/FocuswithJustin/ChurchProjection/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "0.1.0-dev"

// Globals are flags shared by every command.
type Globals struct {
	Config    string `name:"config" short:"c" help:"Configuration file (default: $PROJECTION_CONFIG or the user config dir)" type:"path"`
	BibleDir  string `name:"bible-dir" help:"Directory holding Bible sources" type:"path"`
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" help:"Log format (json, text)"`
	JSON      bool   `name:"json" help:"Print machine-readable JSON"`

	stdout io.Writer
	stderr io.Writer
	cfg    *config.Config
}

// CLI defines the command-line interface for projection.
type CLI struct {
	Globals

	Search   SearchCmd   `cmd:"" help:"Search by reference (John 3:16) or keyword"`
	Verse    VerseCmd    `cmd:"" help:"Print a single verse"`
	Books    BooksCmd    `cmd:"" help:"List the books of a version"`
	Versions VersionsCmd `cmd:"" help:"List loaded versions"`
	Bibles   BiblesGroup `cmd:"" help:"Bible source file tools"`
	Serve    ServeCmd    `cmd:"" help:"Start the dashboard API server"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// BiblesGroup contains source file maintenance commands.
type BiblesGroup struct {
	Inspect InspectCmd `cmd:"" help:"Validate a source file and summarize its structure"`
	Repair  RepairCmd  `cmd:"" help:"Rewrite a legacy-layout source into <b>/<c>/<v> markup"`
	Export  ExportCmd  `cmd:"" help:"Export a loaded version to SQLite"`
}

// setup loads configuration, applies flag overrides and starts logging on
// stderr so command output stays clean.
func (g *Globals) setup() (*config.Config, error) {
	if g.cfg != nil {
		return g.cfg, nil
	}
	cfg, err := config.Load(config.Locate(g.Config))
	if err != nil {
		return nil, err
	}
	if g.BibleDir != "" {
		cfg.BibleDir = g.BibleDir
	}
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
	}
	if g.LogFormat != "" {
		cfg.LogFormat = g.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level, format, _ := cfg.Logging()
	logging.InitLoggerWithWriter(g.stderr, level, format)
	g.cfg = cfg
	return cfg, nil
}

// open loads every discovered Bible into a fresh store.
func (g *Globals) open(ctx context.Context) (*config.Config, *scripture.Store, *scripture.Loader, error) {
	cfg, err := g.setup()
	if err != nil {
		return nil, nil, nil, err
	}
	store := scripture.NewStore()
	loader := scripture.NewLoader(store, scripture.WithCandidates(scripture.DefaultCandidates(cfg.BibleDir)...))
	if _, err := loader.Load(ctx); err != nil {
		return nil, nil, nil, err
	}
	return cfg, store, loader, nil
}

func (g *Globals) printJSON(v any) error {
	enc := json.NewEncoder(g.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (g *Globals) table() *tabwriter.Writer {
	return tabwriter.NewWriter(g.stdout, 0, 4, 2, ' ', 0)
}

// SearchCmd runs the two-phase search.
type SearchCmd struct {
	Query   []string `arg:"" help:"Reference or keywords"`
	Version string   `short:"v" help:"Restrict to one version (default: all)"`
}

func (c *SearchCmd) Run(g *Globals) error {
	cfg, store, _, err := g.open(context.Background())
	if err != nil {
		return err
	}
	res := scripture.NewEngine(store, cfg.SearchOptions()).SearchDetailed(strings.Join(c.Query, " "), c.Version)
	if g.JSON {
		return g.printJSON(res)
	}
	if len(res.Verses) == 0 {
		fmt.Fprintln(g.stdout, "No results.")
		return nil
	}
	for _, v := range res.Verses {
		fmt.Fprintf(g.stdout, "%s %d:%d (%s) %s\n",
			store.LocalizedBookName(v.Book, v.Version), v.Chapter, v.Verse, v.Version, v.Text)
	}
	fmt.Fprintf(g.stdout, "\n%d result(s) by %s\n", len(res.Verses), res.Phase)
	return nil
}

// VerseCmd prints one verse.
type VerseCmd struct {
	Book    string `arg:"" help:"Book name or abbreviation"`
	Chapter int    `arg:"" help:"Chapter number"`
	Verse   int    `arg:"" help:"Verse number"`
	Version string `short:"v" help:"Version (default: default_version from config)"`
}

func (c *VerseCmd) Run(g *Globals) error {
	cfg, store, _, err := g.open(context.Background())
	if err != nil {
		return err
	}
	ver := c.Version
	if ver == "" {
		ver = cfg.DefaultVersion
	}
	text := store.VerseText(c.Book, c.Chapter, c.Verse, ver)
	if text == "" {
		return fmt.Errorf("%s %d:%d not found in %s", c.Book, c.Chapter, c.Verse, ver)
	}
	if g.JSON {
		return g.printJSON(scripture.Verse{Book: c.Book, Chapter: c.Chapter, Verse: c.Verse, Text: text, Version: ver})
	}
	fmt.Fprintln(g.stdout, text)
	return nil
}

// BooksCmd lists books of a version.
type BooksCmd struct {
	Version   string `short:"v" help:"Version (default: default_version from config)"`
	Canonical bool   `help:"List the full 66-book catalog with localized names"`
}

func (c *BooksCmd) Run(g *Globals) error {
	cfg, store, _, err := g.open(context.Background())
	if err != nil {
		return err
	}
	ver := c.Version
	if ver == "" {
		ver = cfg.DefaultVersion
	}

	if c.Canonical {
		list := store.CanonicalBooks(ver)
		if g.JSON {
			return g.printJSON(list)
		}
		tw := g.table()
		for _, b := range list {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", b.Name, b.Testament, b.Chapters)
		}
		return tw.Flush()
	}

	names := store.Books(ver)
	if !store.HasVersion(ver) {
		ver = store.FirstVersion()
	}
	if g.JSON {
		return g.printJSON(names)
	}
	tw := g.table()
	for _, name := range names {
		fmt.Fprintf(tw, "%s\t%s\t%d chapters\n", name, store.LocalizedBookName(name, ver), store.ChapterCount(name, ver))
	}
	return tw.Flush()
}

// VersionsCmd lists loaded versions.
type VersionsCmd struct{}

type versionRow struct {
	ID      string                 `json:"id"`
	Books   int                    `json:"books"`
	Verses  int                    `json:"verses"`
	Sources []scripture.SourceInfo `json:"sources"`
}

func (c *VersionsCmd) Run(g *Globals) error {
	_, store, _, err := g.open(context.Background())
	if err != nil {
		return err
	}
	rows := make([]versionRow, 0)
	for _, id := range store.Versions() {
		rows = append(rows, versionRow{
			ID:      id,
			Books:   len(store.Books(id)),
			Verses:  store.VerseTotal(id),
			Sources: store.Sources(id),
		})
	}
	if g.JSON {
		return g.printJSON(rows)
	}
	if len(rows) == 0 {
		fmt.Fprintln(g.stdout, "No versions loaded.")
		return nil
	}
	tw := g.table()
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d books\t%d verses\n", r.ID, r.Books, r.Verses)
	}
	return tw.Flush()
}

// VersionCmd prints the build version and the linked SQLite driver.
type VersionCmd struct{}

type versionOutput struct {
	Version string      `json:"version"`
	SQLite  sqlite.Info `json:"sqlite"`
}

func (c *VersionCmd) Run(g *Globals) error {
	out := versionOutput{Version: version, SQLite: sqlite.GetInfo()}
	if g.JSON {
		return g.printJSON(out)
	}
	fmt.Fprintf(g.stdout, "projection version %s\n", out.Version)
	fmt.Fprintf(g.stdout, "sqlite driver: %s (%s, %s)\n", out.SQLite.DriverName, out.SQLite.DriverType, out.SQLite.Package)
	return nil
}

func newParser(cli *CLI, stdout, stderr io.Writer, exit func(int)) (*kong.Kong, error) {
	cli.stdout, cli.stderr = stdout, stderr
	return kong.New(cli,
		kong.Name("projection"),
		kong.Description("Scripture search for the church projection dashboard"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Writers(stdout, stderr),
		kong.Exit(exit),
		kong.Bind(&cli.Globals),
	)
}

// run parses args and executes the selected command.
func run(args []string, stdout, stderr io.Writer) error {
	var cli CLI
	parser, err := newParser(&cli, stdout, stderr, os.Exit)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return kctx.Run()
}

func main() {
	var cli CLI
	parser, err := newParser(&cli, os.Stdout, os.Stderr, os.Exit)
	if err != nil {
		panic(err)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	kctx.FatalIfErrorf(kctx.Run())
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
