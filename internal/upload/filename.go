package upload

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fallbackFilename is used when sanitizing leaves nothing.
const fallbackFilename = "upload"

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

var nonASCII = runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })

// SecureFilename reduces a client-supplied name to a safe single path
// element: accents are folded to ASCII, path separators and whitespace
// become underscores, and anything outside [A-Za-z0-9_.-] is dropped.
// Leading and trailing dots and underscores are trimmed.
func SecureFilename(name string) string {
	// Chained transformers carry state, so each call builds its own.
	fold := transform.Chain(norm.NFKD, runes.Remove(nonASCII))
	folded, _, err := transform.String(fold, name)
	if err != nil {
		folded = ""
	}

	folded = strings.NewReplacer("/", " ", `\`, " ").Replace(folded)
	folded = strings.Join(strings.Fields(folded), "_")
	folded = unsafeFilenameChars.ReplaceAllString(folded, "")
	folded = strings.Trim(folded, "._")

	if folded == "" {
		return fallbackFilename
	}
	return folded
}

// workingName returns a unique file name for an upload.
func workingName(original string) string {
	return uuid.NewString() + "_" + SecureFilename(original)
}
