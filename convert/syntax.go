package convert

import (
	"fmt"
	"regexp"
)

// Syntax names the identifiers used on both sides of the conversion: the
// global namespace that owns the legacy provide/require/cache calls, and the
// loader that receives the registration calls.
type Syntax struct {
	// Namespace owns the legacy declarations, as in dojo.provide("a.b").
	Namespace string
	// Loader is the registration function emitted for each module, as in run("a.b", ...).
	Loader string
	// RuntimeAliases are injected into every wrapper after the loader itself.
	RuntimeAliases []string
	// TextPlugin prefixes synthetic text-resource dependencies.
	TextPlugin string
}

// DefaultSyntax converts dojo.provide/dojo.require modules into run() modules.
func DefaultSyntax() Syntax {
	return Syntax{
		Namespace:      "dojo",
		Loader:         "run",
		RuntimeAliases: []string{"dojo", "dijit", "dojox"},
		TextPlugin:     "text",
	}
}

// Validate reports whether the syntax can be turned into matching patterns.
func (s Syntax) Validate() error {
	if !isIdentifier(s.Namespace) {
		return fmt.Errorf("invalid namespace %q", s.Namespace)
	}
	if !isIdentifier(s.Loader) {
		return fmt.Errorf("invalid loader name %q", s.Loader)
	}
	for _, alias := range s.RuntimeAliases {
		if !isIdentifier(alias) {
			return fmt.Errorf("invalid runtime alias %q", alias)
		}
	}
	if s.TextPlugin == "" {
		return fmt.Errorf("text plugin name cannot be empty")
	}
	return nil
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)

func isIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// patterns holds the compiled matchers for one Syntax. Regexp values keep no
// scan position between calls, so a single set is shared by every file.
type patterns struct {
	declaration *regexp.Regexp
	require     *regexp.Regexp
	cache       *regexp.Regexp
	namespace   string
}

func compilePatterns(s Syntax) *patterns {
	ns := regexp.QuoteMeta(s.Namespace)
	return &patterns{
		declaration: regexp.MustCompile(ns + `\s*\.\s*(provide|require)\s*\(\s*["']([\w\-.]+)["']\s*\)`),
		require:     regexp.MustCompile(ns + `\s*\.\s*require\s*\(\s*["']([\w\-.]+)["']\s*\)`),
		cache:       regexp.MustCompile(ns + `\s*\.\s*cache\s*\(\s*['"]([^'"]+)['"]\s*,\s*['"]([^'"]+)['"]\s*\)`),
		namespace:   ns,
	}
}

// provide builds the matcher for the provide declaration of one exact module name.
func (p *patterns) provide(name string) *regexp.Regexp {
	return regexp.MustCompile(p.namespace + `\s*\.\s*provide\s*\(\s*["']` +
		regexp.QuoteMeta(name) + `["']\s*\)`)
}
