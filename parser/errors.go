package parser

import (
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/titpetric/lessfront/token"
)

// UnexpectedTokenError reports a token that did not satisfy the
// grammar production being parsed at the point it was encountered.
type UnexpectedTokenError struct {
	Found    token.Kind
	Expected []token.Kind
	Pos      int

	// AtRule is set when the error surfaced while parsing an at-rule's
	// prelude or body, so Error can offer a fuzzy-matched suggestion.
	AtRule string
}

func (e *UnexpectedTokenError) Error() string {
	var msg strings.Builder
	fmt.Fprintf(&msg, "unexpected %s at byte %d", e.Found, e.Pos)
	if len(e.Expected) > 0 {
		names := make([]string, len(e.Expected))
		for i, k := range e.Expected {
			names[i] = k.String()
		}
		fmt.Fprintf(&msg, " (expected %s)", strings.Join(names, " or "))
	}
	if e.AtRule != "" {
		if suggestion, ok := nearestKnownAtRule(e.AtRule); ok {
			fmt.Fprintf(&msg, "; did you mean @%s?", suggestion)
		}
	}
	return msg.String()
}

// knownAtRules seeds the fuzzy-suggestion search. It is not a
// validation allowlist — any at-keyword still parses as an AtRule;
// this only shapes a diagnostic when something else goes wrong while
// parsing one.
var knownAtRules = []string{
	"media", "import", "charset", "supports", "keyframes", "font-face",
	"page", "document", "namespace", "plugin", "viewport",
}

func nearestKnownAtRule(name string) (string, bool) {
	if contains(knownAtRules, name) {
		return "", false
	}
	ranks := fuzzy.RankFindNormalizedFold(name, knownAtRules)
	if len(ranks) == 0 {
		return "", false
	}
	best := ranks[0]
	for _, r := range ranks[1:] {
		if r.Distance < best.Distance {
			best = r
		}
	}
	if best.Distance > 2 {
		return "", false
	}
	return best.Target, true
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
