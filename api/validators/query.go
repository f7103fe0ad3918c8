package validators

import (
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	pkgerrors "github.com/repairdepot/storefront/pkg/errors"
)

// IntRange bounds an integer query parameter. Default applies when the
// parameter is absent.
type IntRange struct {
	Default int
	Min     int
	Max     int
}

// QueryInt parses key from the query string within bounds.
func QueryInt(r *http.Request, key string, bounds IntRange) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return bounds.Default, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, key+" must be numeric").
			WithDetails(map[string]any{"field": key})
	}
	if value < bounds.Min || value > bounds.Max {
		return 0, pkgerrors.Newf(pkgerrors.CodeValidation, "%s must be between %d and %d", key, bounds.Min, bounds.Max).
			WithDetails(map[string]any{"field": key, "min": bounds.Min, "max": bounds.Max})
	}
	return value, nil
}

// QueryText returns key from the query string cleaned by Clean.
func QueryText(r *http.Request, key string, maxRunes int) string {
	return Clean(r.URL.Query().Get(key), maxRunes)
}

// Clean trims input, collapses inner whitespace runs to one space and cuts
// it to maxRunes without splitting a character. maxRunes <= 0 means no cap.
func Clean(input string, maxRunes int) string {
	cleaned := strings.Join(strings.Fields(input), " ")
	if maxRunes <= 0 || utf8.RuneCountInString(cleaned) <= maxRunes {
		return cleaned
	}
	runes := []rune(cleaned)
	return strings.TrimSpace(string(runes[:maxRunes]))
}
