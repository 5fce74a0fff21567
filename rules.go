package dbg

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// Compile turns a comma-separated wildcard configuration (like "app.*,worker")
// into enablement rules. All whitespace is removed first, each '*' becomes
// ".+" and every token is anchored at both ends.
//
// Nothing else is escaped: a '.' in a token matches any character and a '+'
// is a quantifier ("app.db" also enables "app-db"). Tokens are compiled with
// ECMAScript semantics. A token that does not compile yields a rule matching
// nothing; Compile never fails.
func Compile(config string) []*Rule {
	config = strings.Map(func(r rune) rune {
		if isPatternSpace(r) {
			return -1
		}
		return r
	}, config)
	if len(config) == 0 {
		return nil
	}
	config = strings.ReplaceAll(config, "*", ".+")
	tokens := strings.Split(config, ",")
	rules := make([]*Rule, 0, len(tokens))
	for _, token := range tokens {
		rules = append(rules, newRule(token, "^"+token+"$"))
	}
	return rules
}

// isPatternSpace reports whether r is removed from configuration strings:
// the ECMAScript WhiteSpace and LineTerminator characters. Unlike
// unicode.IsSpace this includes U+FEFF and excludes U+0085.
func isPatternSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ',
		'\u00a0', '\u1680', '\u2028', '\u2029', '\u202f', '\u205f', '\u3000', '\ufeff':
		return true
	}
	return r >= '\u2000' && r <= '\u200a'
}

// NewRule wraps an already written regular expression. It is matched as is,
// so anchoring is up to the caller.
func NewRule(expr string) *Rule {
	return newRule(expr, expr)
}

func newRule(source, expr string) *Rule {
	re, err := regexp2.Compile(expr, regexp2.ECMAScript)
	if err != nil {
		re = nil
	}
	return &Rule{source: source, expr: expr, re: re}
}

// Match reports whether the rule enables the namespace.
func (r *Rule) Match(namespace string) bool {
	if r == nil || r.re == nil {
		return false
	}
	ok, err := r.re.MatchString(namespace)
	return err == nil && ok
}

// Source returns the token the rule was compiled from.
func (r *Rule) Source() string { return r.source }

// Expr returns the regular expression the rule evaluates.
func (r *Rule) Expr() string { return r.expr }

// Valid is false when the expression did not compile (the rule never matches).
func (r *Rule) Valid() bool { return r.re != nil }

// matchAny reports whether at least one rule enables the namespace.
func matchAny(rules []*Rule, namespace string) bool {
	for _, r := range rules {
		if r.Match(namespace) {
			return true
		}
	}
	return false
}
