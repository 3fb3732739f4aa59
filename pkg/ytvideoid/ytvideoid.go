package ytvideoid

import (
	"errors"
	"regexp"
	"strings"
)

const (
	queryMarker     = "v="
	shortLinkMarker = "youtu.be/"
)

var ErrInvalidReference = errors.New("invalid video reference")

// idRegexp is the only accepted id shape: exactly 11 ASCII characters.
var idRegexp = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// Parse extracts the video id from a watch URL (`...watch?v=<id>&...`) or a short link
// (`youtu.be/<id>?...`). The query form wins when both markers are present.
func Parse(rawURL string) (string, error) {
	var id string
	switch {
	case strings.Contains(rawURL, queryMarker):
		id = after(rawURL, queryMarker)
		id = cut(id, "&")
		id = cut(id, "?")
	case strings.Contains(rawURL, shortLinkMarker):
		id = after(rawURL, shortLinkMarker)
		id = cut(id, "?")
	default:
		return "", ErrInvalidReference
	}

	if !idRegexp.MatchString(id) {
		return "", ErrInvalidReference
	}

	return id, nil
}

// IsID reports whether s already is a bare video id.
func IsID(s string) bool {
	return idRegexp.MatchString(s)
}

// Resolve accepts either a bare id or a URL understood by Parse.
func Resolve(s string) (string, error) {
	s = strings.TrimSpace(s)
	if IsID(s) {
		return s, nil
	}

	return Parse(s)
}

func after(s, marker string) string {
	_, rest, _ := strings.Cut(s, marker)
	return rest
}

func cut(s, sep string) string {
	before, _, _ := strings.Cut(s, sep)
	return before
}
