package convert

// ModuleDescriptor is one provide declaration and the require declarations
// that follow it up to the next provide.
type ModuleDescriptor struct {
	Provide  string
	Requires []string
}

// FileDependencySet lists the modules declared by one file in source order.
type FileDependencySet struct {
	Modules []ModuleDescriptor
	// Provided holds every module name declared by the file.
	Provided map[string]bool
}

// ExternalRequires returns the requires of m that are not provided by the
// same file, in declaration order.
func (s FileDependencySet) ExternalRequires(m ModuleDescriptor) []string {
	var reqs []string
	for _, name := range m.Requires {
		if !s.Provided[name] {
			reqs = append(reqs, name)
		}
	}
	return reqs
}

// Scan collects the provide and require declarations of normalized source.
// A require seen before any provide has no module to attach to and is dropped.
func (c *Converter) Scan(normalized []byte) FileDependencySet {
	deps := FileDependencySet{Provided: make(map[string]bool)}

	for _, m := range c.patterns.declaration.FindAllSubmatch(normalized, -1) {
		verb, name := string(m[1]), string(m[2])
		switch verb {
		case "provide":
			deps.Modules = append(deps.Modules, ModuleDescriptor{Provide: name})
			deps.Provided[name] = true
		case "require":
			if len(deps.Modules) == 0 {
				continue
			}
			current := &deps.Modules[len(deps.Modules)-1]
			current.Requires = append(current.Requires, name)
		}
	}

	return deps
}
