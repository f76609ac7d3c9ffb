package reference

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidDoc is returned when a document reference cannot be turned
// into a document page address.
var ErrInvalidDoc = errors.New("invalid document reference")

var docParts = regexp.MustCompile(`^(RC-)?([ABC])([0-9]+)-([0-9]{4})/([0-9]{4})$`)

// DocumentURL returns the page address of a document under base, e.g.
// "A9-0100/2024" becomes base+"A-9-2024-0100_FR.html". Joint motions
// ("RC-B9-...") are published under the RC prefix.
func DocumentURL(base, ref, lang string) (string, error) {
	m := docParts.FindStringSubmatch(strings.TrimSpace(ref))
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDoc, ref)
	}
	kind := m[2]
	if m[1] != "" {
		kind = "RC"
	}
	return fmt.Sprintf("%s%s-%s-%s-%s_%s.html", base, kind, m[3], m[5], m[4], strings.ToUpper(lang)), nil
}
