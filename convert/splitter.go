package convert

import "fmt"

// Boundary locates one provide declaration in the original text. The text
// in [Start, MatchStart) precedes the declaration and belongs to the module
// declared before it.
type Boundary struct {
	Start      int
	MatchStart int
	MatchEnd   int
}

// Split finds the provide declaration of every module of deps in text, in
// order, each search starting where the previous match ended.
//
// The search is textual: a provide call for the same name appearing earlier
// in a string literal or comment is matched first.
func (c *Converter) Split(text string, deps FileDependencySet) ([]Boundary, error) {
	bounds := make([]Boundary, 0, len(deps.Modules))
	cursor := 0

	for _, module := range deps.Modules {
		loc := c.patterns.provide(module.Provide).FindStringIndex(text[cursor:])
		if loc == nil {
			return nil, fmt.Errorf("%w: %q after offset %d", ErrBoundaryNotFound, module.Provide, cursor)
		}

		bounds = append(bounds, Boundary{
			Start:      cursor,
			MatchStart: cursor + loc[0],
			MatchEnd:   cursor + loc[1],
		})
		cursor += loc[1]
	}

	return bounds, nil
}
