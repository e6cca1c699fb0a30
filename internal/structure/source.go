package structure

import (
	"fmt"
	"regexp"

	"github.com/PGijsbers/croissant/internal/document"
)

// Transform is a single value rewrite applied to a source column before use.
// Only regex extraction is supported: the first non-empty capture group of a
// match replaces the value, and a value that does not match passes through
// unchanged.
type Transform struct {
	Regex string
}

// Source points from a field to a node elsewhere in the graph, optionally
// down to one column of that node, with an ordered list of transforms.
type Source struct {
	// Node is the uid of the referenced node.
	Node string
	// Column is the column or field within the referenced node. Empty when
	// the reference targets the node as a whole.
	Column string
	// Transforms are applied in order to every value read through this
	// source.
	Transforms []Transform
}

// IsEmpty reports whether the source references nothing.
func (s Source) IsEmpty() bool {
	return s.Node == ""
}

// String renders the reference back in its document form.
func (s Source) String() string {
	if s.Column == "" {
		return fmt.Sprintf("#{%s}", s.Node)
	}
	return fmt.Sprintf("#{%s/%s}", s.Node, s.Column)
}

// refPattern matches "#{node}" and "#{node/column}".
var refPattern = regexp.MustCompile(`^#\{([^/#}]+)(?:/([^#}]+))?\}$`)

// ParseSource decodes a source or references value. The document accepts
// either a plain reference string "#{node/column}" or an object carrying the
// reference under "data" plus transforms under "applyTransform".
func ParseSource(raw any) (Source, error) {
	switch v := raw.(type) {
	case string:
		return parseRef(v)
	case map[string]any:
		source, err := parseRef(document.String(v, "data"))
		if err != nil {
			return Source{}, err
		}
		for _, t := range document.Objects(v, "applyTransform") {
			if regex := document.String(t, "regex"); regex != "" {
				if _, err := regexp.Compile(regex); err != nil {
					return Source{}, fmt.Errorf("invalid regex transform %q: %w", regex, err)
				}
				source.Transforms = append(source.Transforms, Transform{Regex: regex})
			}
		}
		return source, nil
	default:
		return Source{}, fmt.Errorf("Malformed source data: %v.", raw)
	}
}

func parseRef(ref string) (Source, error) {
	matches := refPattern.FindStringSubmatch(ref)
	if matches == nil {
		return Source{}, fmt.Errorf("Malformed source data: %s.", ref)
	}
	return Source{Node: matches[1], Column: matches[2]}, nil
}
