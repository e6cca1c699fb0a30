package operation

import (
	"regexp"

	"github.com/PGijsbers/croissant/internal/structure"
)

// applyTransform rewrites a single value with one transform. Regex extraction
// matches at the start of the value, like the declared patterns expect, and
// replaces it with the first non-empty capture group; a value that does not
// match passes through unchanged, which makes re-application harmless.
func applyTransform(value string, t structure.Transform) string {
	if t.Regex == "" {
		return value
	}
	re, err := regexp.Compile(`\A(?:` + t.Regex + `)`)
	if err != nil {
		return value
	}
	matches := re.FindStringSubmatch(value)
	if matches == nil {
		return value
	}
	for _, group := range matches[1:] {
		if group != "" {
			return group
		}
	}
	return value
}

// applyTransforms applies a source's transforms in order. Non-string values
// pass through untouched.
func applyTransforms(value any, source structure.Source) any {
	s, ok := value.(string)
	if !ok {
		return value
	}
	for _, t := range source.Transforms {
		s = applyTransform(s, t)
	}
	return s
}
