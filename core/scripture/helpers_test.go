package scripture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ulikunitz/xz"
)

const (
	john316 = "For God so loved the world that He gave His only begotten Son, that whoever believes in Him should not perish but have everlasting life."
	john317 = "For God did not send His Son into the world to condemn the world, but that the world through Him might be saved."
	john319 = "And this is the condemnation, that the light has come into the world, and men loved darkness rather than light, because their deeds were evil."
)

// nkjvFixture has John 3:16-17 and 3:19 (no 3:18), Genesis 1 with 31
// verses, and Psalm 23.
func nkjvFixture() string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n<bible>\n")
	sb.WriteString(`<b n="Genesis"><c n="1">`)
	for v := 1; v <= 31; v++ {
		fmt.Fprintf(&sb, `<v n="%d">Genesis one verse %d</v>`, v, v)
	}
	sb.WriteString("</c></b>\n")
	sb.WriteString(`<b n="Psalms"><c n="23">`)
	sb.WriteString(`<v n="1">The LORD is my shepherd; I shall not want.</v>`)
	sb.WriteString(`<v n="4">Yea, though I walk through the valley of the shadow of death, I will fear no evil.</v>`)
	sb.WriteString("</c></b>\n")
	sb.WriteString(`<b n="John"><c n="1"><v n="5">And the light shines in the darkness, and the darkness did not comprehend it.</v></c>`)
	sb.WriteString(`<c n="3">`)
	fmt.Fprintf(&sb, `<v n="16">%s</v><v n="17">%s</v><v n="19">%s</v>`, john316, john317, john319)
	sb.WriteString("</c></b>\n</bible>\n")
	return sb.String()
}

// swabFixture uses Swahili book names.
const swabFixture = `<?xml version="1.0" encoding="UTF-8"?>
<bible>
  <b n="Mwanzo">
    <c n="1">
      <v n="1">Hapo mwanzo Mungu aliziumba mbingu na nchi.</v>
      <v n="3">Mungu akasema, Iwe nuru; ikawa nuru.</v>
    </c>
  </b>
  <b n="Yohana">
    <c n="3">
      <v n="16">Kwa maana jinsi hii Mungu aliupenda ulimwengu.</v>
    </c>
  </b>
</bible>
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeXZ(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w, err := xz.NewWriter(f)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

// loadFixtures writes files into a temp dir and loads it into a new store.
func loadFixtures(t *testing.T, files map[string]string) (*Store, LoadReport) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		writeFile(t, dir, name, content)
	}
	store := NewStore()
	report, err := NewLoader(store, WithCandidates(dir)).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return store, report
}

func standardStore(t *testing.T) *Store {
	t.Helper()
	store, _ := loadFixtures(t, map[string]string{
		"NKJV.xml": nkjvFixture(),
		"SWAB.xml": swabFixture,
	})
	return store
}
