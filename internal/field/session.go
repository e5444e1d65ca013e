package field

// Session is the editing triple of one field. Its transitions are pure:
// each returns the next session and never touches timers or callbacks.
type Session struct {
	// Value is what the field shows.
	Value string
	// Unformatted is the last raw value: the upstream value's text, or the
	// buffer once the user has typed.
	Unformatted string
	// Formatted is the formatted projection of Unformatted.
	Formatted string
}

// formatFunc renders raw input as a display string.
type formatFunc func(raw string) string

// mount builds the session shown for an upstream value.
func mount(upstream string, format formatFunc) Session {
	formatted := format(upstream)
	return Session{
		Value:       formatted,
		Unformatted: upstream,
		Formatted:   formatted,
	}
}

// focus swaps the display to the raw value so it can be edited.
func (s Session) focus() Session {
	s.Value = s.Unformatted
	return s
}

// input records a keystroke. The buffer is kept verbatim; only the
// projection is formatted.
func (s Session) input(raw string, format formatFunc) Session {
	return Session{
		Value:       raw,
		Unformatted: raw,
		Formatted:   format(raw),
	}
}

// blur swaps the display back to the formatted projection.
func (s Session) blur() Session {
	s.Value = s.Formatted
	return s
}

// sync rebuilds the session when the upstream value no longer matches.
// It reports whether anything changed.
func (s Session) sync(upstream string, format formatFunc) (Session, bool) {
	if upstream == s.Unformatted {
		return s, false
	}
	return mount(upstream, format), true
}
