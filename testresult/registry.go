package testresult

// Registry holds the known report formats.
type Registry struct {
	formats []Format
}

// NewRegistry ...
func NewRegistry(formats ...Format) Registry {
	return Registry{formats: formats}
}

// Match returns the first format that accepts the given file name.
func (r Registry) Match(fileName string) (Format, bool) {
	for _, format := range r.formats {
		if format.Accepts(fileName) {
			return format, true
		}
	}
	return nil, false
}

// Default returns the first registered format. Files that are selected by a
// user-supplied pattern instead of a format's own file name rules are parsed
// with this format.
func (r Registry) Default() (Format, bool) {
	if len(r.formats) == 0 {
		return nil, false
	}
	return r.formats[0], true
}
