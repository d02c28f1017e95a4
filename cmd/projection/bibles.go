package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/ChurchProjection/core/errors"
	"github.com/FocuswithJustin/ChurchProjection/core/repair"
	"github.com/FocuswithJustin/ChurchProjection/core/sqlite"
	corexml "github.com/FocuswithJustin/ChurchProjection/core/xml"
)

// InspectCmd validates a source file and prints its structure.
type InspectCmd struct {
	File string `arg:"" help:"Source file (.xml or .xml.xz)" type:"existingfile"`
}

type inspectOutput struct {
	File       string                   `json:"file"`
	Validation corexml.ValidationResult `json:"validation"`
	Report     *corexml.Report          `json:"report,omitempty"`
}

func (c *InspectCmd) Run(g *Globals) error {
	if _, err := g.setup(); err != nil {
		return err
	}
	data, err := readSource(c.File)
	if err != nil {
		return err
	}

	out := inspectOutput{File: c.File, Validation: corexml.Validate(data)}
	if out.Validation.Valid {
		if out.Report, err = corexml.Inspect(data); err != nil {
			return err
		}
	}

	if g.JSON {
		if err := g.printJSON(out); err != nil {
			return err
		}
	} else {
		printInspect(g.stdout, out)
	}
	if !out.Validation.Valid {
		return fmt.Errorf("%s is not well-formed", c.File)
	}
	return nil
}

func printInspect(w io.Writer, out inspectOutput) {
	if !out.Validation.Valid {
		for _, e := range out.Validation.Errors {
			fmt.Fprintf(w, "%s:%d:%d: %s\n", out.File, e.Line, e.Column, e.Message)
		}
		return
	}
	r := out.Report
	fmt.Fprintf(w, "root <%s>: %d books, %d chapters, %d verses (%d empty)\n",
		r.Root, r.Books, r.Chapters, r.Verses, r.EmptyText)
	for _, b := range r.BookList {
		canonical := b.Canonical
		if !b.Resolved {
			canonical = "?"
		}
		fmt.Fprintf(w, "  %-20s %-16s %3d ch %5d v\n", b.Name, canonical, b.Chapters, b.Verses)
	}
	if len(r.Unresolved) > 0 {
		fmt.Fprintf(w, "unresolved book names: %s\n", strings.Join(r.Unresolved, ", "))
	}
}

// readSource reads a file, decompressing .xz.
func readSource(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	var r io.Reader = bufio.NewReader(f)
	if strings.HasSuffix(strings.ToLower(path), ".xz") {
		if r, err = xz.NewReader(r); err != nil {
			return nil, errors.NewParse("xz", path, 0, err.Error())
		}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	return data, nil
}

// RepairCmd rewrites a legacy-layout source file.
type RepairCmd struct {
	In  string `arg:"" help:"Legacy source file" type:"existingfile"`
	Out string `arg:"" help:"Output file (.xz suffix compresses)" type:"path"`
	XZ  bool   `name:"xz" help:"Compress the output with xz"`
}

func (c *RepairCmd) Run(g *Globals) error {
	if _, err := g.setup(); err != nil {
		return err
	}
	stats, err := repair.RepairFile(c.In, c.Out, c.XZ)
	if err != nil {
		return err
	}
	if g.JSON {
		return g.printJSON(stats)
	}
	fmt.Fprintf(g.stdout, "wrote %s: %d books, %d chapters, %d verses (%d tags dropped)\n",
		c.Out, stats.Books, stats.Chapters, stats.Verses, stats.Dropped)
	return nil
}

// ExportCmd writes one version to SQLite.
type ExportCmd struct {
	Version string `arg:"" help:"Version to export"`
	Out     string `arg:"" help:"SQLite database path" type:"path"`
}

func (c *ExportCmd) Run(g *Globals) error {
	_, store, _, err := g.open(context.Background())
	if err != nil {
		return err
	}
	ctx := context.Background()
	stats, err := sqlite.Export(ctx, store, c.Version, c.Out)
	if err != nil {
		return err
	}
	if err := sqlite.Verify(ctx, c.Out, stats); err != nil {
		return err
	}
	if g.JSON {
		return g.printJSON(stats)
	}
	fmt.Fprintf(g.stdout, "exported %s to %s: %d books, %d verses (%s driver)\n",
		stats.Version, stats.Path, stats.Books, stats.Verses, sqlite.DriverName())
	return nil
}
