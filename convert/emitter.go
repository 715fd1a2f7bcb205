package convert

import (
	"strconv"
	"strings"
)

// WrapBlock carries a module's registration header from its provide
// declaration to the segment that follows it.
type WrapBlock struct {
	Provide string
	// Reqs are the external dependencies, in declaration order.
	Reqs []string
	// Match is the provide declaration text, re-emitted inside the wrapper.
	Match string
}

// newWrapBlock builds the block governing the text after module's provide
// declaration. Dependencies provided by the same file are left out.
func newWrapBlock(module ModuleDescriptor, deps FileDependencySet, match string) *WrapBlock {
	return &WrapBlock{
		Provide: module.Provide,
		Reqs:    deps.ExternalRequires(module),
		Match:   match,
	}
}

// Emit wraps segment in a registration call for block. Without a governing
// block the segment precedes every module and is returned unchanged.
// Inline text lookups in segment become positional dependencies; block
// itself is not modified.
func (c *Converter) Emit(block *WrapBlock, segment string) string {
	if block == nil {
		return segment
	}

	reqs := append([]string(nil), block.Reqs...)
	segment = c.patterns.cache.ReplaceAllStringFunc(segment, func(lookup string) string {
		m := c.patterns.cache.FindStringSubmatch(lookup)
		reqs = append(reqs, TextDependencyName(c.syntax.TextPlugin, m[1], m[2]))
		return placeholder(len(reqs) - 1)
	})

	runtime := append([]string{c.syntax.Loader}, c.syntax.RuntimeAliases...)

	var b strings.Builder
	b.WriteString(c.syntax.Loader)
	b.WriteString(`("`)
	b.WriteString(block.Provide)
	b.WriteString(`", [`)
	for i, name := range runtime {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(`"` + name + `"`)
	}
	for _, req := range reqs {
		b.WriteString(`, "` + req + `"`)
	}
	b.WriteString("], function(")
	b.WriteString(strings.Join(runtime, ", "))
	for i := range reqs {
		b.WriteString(", " + placeholder(i))
	}
	b.WriteString(") {\n")
	b.WriteString(block.Match)
	b.WriteString(segment)
	b.WriteString("\nreturn ")
	b.WriteString(returnValue(block.Provide))
	b.WriteString("; });\n")

	return b.String()
}

// TextDependencyName derives the dependency that replaces an inline text
// lookup of fileName relative to module, e.g. ("dijit.form",
// "templates/Button.html") becomes "text!dijit/form/templates/Button!html".
func TextDependencyName(plugin, module, fileName string) string {
	name := plugin + "!" + strings.ReplaceAll(module, ".", "/") + "/" + fileName
	return strings.ReplaceAll(name, ".", "!")
}

func placeholder(i int) string {
	return "_R" + strconv.Itoa(i)
}

// returnValue is the expression a wrapper returns. Hyphenated names are not
// valid JavaScript references.
func returnValue(provide string) string {
	if strings.Contains(provide, "-") {
		return "null"
	}
	return provide
}

func (c *Converter) pauseCall() string {
	return c.syntax.Loader + ".pause();\n"
}

func (c *Converter) resumeCall() string {
	return c.syntax.Loader + ".resume();\n"
}
