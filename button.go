package irrx

// Poll is the per-iteration entry point for callers reacting to button
// presses: decode the pending frame, debounce protocol repeats, and invoke
// the bound action. It reports whether an action fired.
//
// A fresh code that matches a binding fires immediately and becomes the
// remembered value for repeat processing. Repeat frames are swallowed until
// the same button has repeated a few times, so a deliberate single press is
// never amplified; after that the remembered action fires on every repeat.
// Binding the Repeat sentinel itself overrides the repeat handling.
//
// Whenever a frame was consumed — handled or not — capture is reset so the
// next transmission can be recorded. With no frame pending Poll returns
// immediately and leaves the capture alone: one may still be arriving.
func (r *Receiver) Poll(bindings []Binding) bool {
	code, ok := r.Decode()
	if !ok {
		// nothing any matcher could use; throw it away and keep capturing
		r.Reset()
		return false
	}
	idx := findBinding(bindings, code.Value)
	if idx >= 0 {
		r.repeats = 0
		r.lastValue = code.Value
	} else if code.Value == Repeat {
		r.repeats++
		if r.repeats < repeatPause {
			r.Reset()
			return false
		}
		idx = findBinding(bindings, r.lastValue)
	}
	if idx < 0 {
		r.Reset()
		return false
	}
	bindings[idx].Action()
	r.Reset()
	return true
}

// findBinding returns the index of the first binding for value, or -1.
func findBinding(bindings []Binding, value uint64) int {
	for i := range bindings {
		if bindings[i].Code == value {
			return i
		}
	}
	return -1
}
