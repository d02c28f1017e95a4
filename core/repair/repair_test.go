package repair

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/ChurchProjection/core/scripture"
	corexml "github.com/FocuswithJustin/ChurchProjection/core/xml"
)

const legacy = `<bible><Mwanzo n=1>
<1>
<v n=1>Hapo mwanzo Mungu aliziumba mbingu na nchi.</v>
<v n=2>Nayo nchi ilikuwa ukiwa & utupu</v>
</1>
<2>
<v n=1>Basi <i>mbingu</i> na nchi zikamalizika.
<v n=2>Siku ya saba
</Mwanzo>
<1 Wafalme n=11>
<1><v n=1>Mfalme Daudi alikuwa mzee</v></1>
</bible>`

func TestRepairLegacyLayout(t *testing.T) {
	var out bytes.Buffer
	stats, err := Repair(strings.NewReader(legacy), &out)
	if err != nil {
		t.Fatal(err)
	}

	if stats.Books != 2 || stats.Chapters != 3 || stats.Verses != 5 {
		t.Errorf("stats = %+v, want 2 books, 3 chapters, 5 verses", stats)
	}
	if v := corexml.Validate(out.Bytes()); !v.Valid {
		t.Fatalf("repaired output is not well-formed: %+v\n%s", v.Errors, out.String())
	}

	got := out.String()
	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<b n="Mwanzo">`,
		`<b n="1 Wafalme">`,
		`<c n="2">`,
		`<v n="2">Nayo nchi ilikuwa ukiwa &amp; utupu</v>`,
		`<v n="1">Basi mbingu na nchi zikamalizika.`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Count(got, "<bible>") != 1 {
		t.Errorf("wrapper duplicated:\n%s", got)
	}
}

func TestRepairIsIdempotent(t *testing.T) {
	var once, twice bytes.Buffer
	if _, err := Repair(strings.NewReader(legacy), &once); err != nil {
		t.Fatal(err)
	}
	if _, err := Repair(bytes.NewReader(once.Bytes()), &twice); err != nil {
		t.Fatal(err)
	}
	if once.String() != twice.String() {
		t.Errorf("second pass changed output:\n--- once\n%s\n--- twice\n%s", once.String(), twice.String())
	}
}

func TestRepairHandlesStrayMarkup(t *testing.T) {
	in := "<?xml version=\"1.0\"?><!-- legacy --><Zaburi n=19><23><v n=1>a < b \xff</v></23>"
	var out bytes.Buffer
	if _, err := Repair(strings.NewReader(in), &out); err != nil {
		t.Fatal(err)
	}
	if v := corexml.Validate(out.Bytes()); !v.Valid {
		t.Fatalf("output is not well-formed: %+v\n%s", v.Errors, out.String())
	}
	if !strings.Contains(out.String(), `<v n="1">a &lt; b </v>`) {
		t.Errorf("stray < not escaped:\n%s", out.String())
	}
}

func TestRepairFileLoadsIntoStore(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "SWAB.xml.bak")
	if err := os.WriteFile(in, []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}
	bibleDir := filepath.Join(dir, "bible")
	if err := os.Mkdir(bibleDir, 0o755); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(bibleDir, "SWAB.xml.xz")

	if _, err := RepairFile(in, out, false); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := xz.NewReader(f); err != nil {
		t.Fatalf("output is not xz: %v", err)
	}

	store := scripture.NewStore()
	if _, err := scripture.NewLoader(store, scripture.WithCandidates(bibleDir)).Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := store.VerseText("Genesis", 1, 2, "SWAB"); got != "Nayo nchi ilikuwa ukiwa & utupu" {
		t.Errorf("Genesis 1:2 = %q", got)
	}
	if got := store.VerseText("1 Kings", 1, 1, "SWAB"); got != "Mfalme Daudi alikuwa mzee" {
		t.Errorf("1 Kings 1:1 = %q", got)
	}
	if got := store.LocalizedBookName("1 Kings", "SWAB"); got != "1 Wafalme" {
		t.Errorf("display name = %q", got)
	}
}

func TestRepairFileMissingInput(t *testing.T) {
	dir := t.TempDir()
	if _, err := RepairFile(filepath.Join(dir, "nope.xml"), filepath.Join(dir, "out.xml"), false); err == nil {
		t.Fatal("expected error for missing input")
	}
}
