package tree

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cmdvault/cmdvault/pkg/models"
)

// queryKind selects which fields a query inspects.
type queryKind int

const (
	queryGeneral queryKind = iota
	queryTag         // #tag
	queryDescription // d:text
	queryFolder      // f:text
	queryCommand     // c:text
)

var searchFolder = cases.Lower(language.Und)

// Query is a parsed search filter.
type Query struct {
	kind queryKind
	text string
}

// ParseQuery interprets the prefix grammar: "#" matches tags, "d:" matches
// descriptions, "f:" folder names, "c:" command bodies; anything else is a
// general match over name, cmd, description and tags. Matching is
// case-insensitive substring.
func ParseQuery(raw string) Query {
	q := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(q, "#"):
		return Query{kind: queryTag, text: fold(q[1:])}
	case strings.HasPrefix(q, "d:"):
		return Query{kind: queryDescription, text: fold(q[2:])}
	case strings.HasPrefix(q, "f:"):
		return Query{kind: queryFolder, text: fold(q[2:])}
	case strings.HasPrefix(q, "c:"):
		return Query{kind: queryCommand, text: fold(q[2:])}
	default:
		return Query{kind: queryGeneral, text: fold(q)}
	}
}

func fold(s string) string {
	return searchFolder.String(strings.TrimSpace(s))
}

// Empty reports whether the query filters nothing.
func (q Query) Empty() bool {
	return q.text == ""
}

// Matches reports whether the node itself satisfies the query, ignoring
// descendants.
func (q Query) Matches(n *models.Node) bool {
	if q.Empty() {
		return true
	}
	contains := func(s string) bool {
		return strings.Contains(fold(s), q.text)
	}
	switch q.kind {
	case queryTag:
		for _, t := range n.Tags {
			if contains(t) {
				return true
			}
		}
		return false
	case queryDescription:
		return contains(n.Description)
	case queryFolder:
		return n.IsFolder() && contains(n.Name)
	case queryCommand:
		return !n.IsFolder() && contains(n.Cmd)
	default:
		if contains(n.Name) || contains(n.Cmd) || contains(n.Description) {
			return true
		}
		for _, t := range n.Tags {
			if contains(t) {
				return true
			}
		}
		return false
	}
}

// subtreeMatches reports whether n or anything below it matches, so ancestor
// folders of a hit stay visible.
func (q Query) subtreeMatches(n *models.Node) bool {
	if q.Matches(n) {
		return true
	}
	for _, c := range n.Children {
		if q.subtreeMatches(c) {
			return true
		}
	}
	return false
}
