//go:build property

package books

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestNormalizerProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1611)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)
	aliases := Default().Aliases()

	properties.Property("every alias resolves regardless of case and periods", prop.ForAll(
		func(i int, upper bool, cut int) bool {
			a := aliases[i]
			input := a.Key
			if upper {
				input = strings.ToUpper(input)
			}
			cut %= len(input) + 1
			input = input[:cut] + "." + input[cut:] + "."
			return Normalize(input) == a.Canonical
		},
		gen.IntRange(0, len(aliases)-1),
		gen.Bool(),
		gen.IntRange(0, 32),
	))

	properties.Property("short unrecognized input is returned unchanged", prop.ForAll(
		func(s string) bool {
			if utf8.RuneCountInString(s) >= minPrefixLength {
				return true
			}
			if _, ok := defaultNormalizer.exact[strings.ToLower(strings.ReplaceAll(s, ".", ""))]; ok {
				return true
			}
			return Normalize(s) == s
		},
		gen.AnyString(),
	))

	properties.Property("result is canonical or the untouched input", prop.ForAll(
		func(s string) bool {
			got := Normalize(s)
			return got == s || IsCanonical(got)
		},
		gen.AlphaString(),
	))

	properties.Property("normalizing is idempotent on canonical names", prop.ForAll(
		func(i int) bool {
			name := Canonical()[i].Name
			return Normalize(Normalize(name)) == name
		},
		gen.IntRange(0, Count-1),
	))

	properties.TestingRun(t)
}
