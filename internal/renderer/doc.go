// Package renderer draws the keyboard onto a terminal backend.
//
// Key geometry comes from a geometry.HitTester in pixels. A Scale maps
// pixels to terminal cells, and the same Scale maps mouse positions back to
// pixels, so what is drawn under the pointer is what the hit tester finds.
//
// Key faces are coloured by pointer state (pressed, latched, locked) and
// labels show the value the key would produce under the current modifiers.
// Labels are cut on grapheme cluster boundaries, so accents and emoji are
// never split.
//
// Usage:
//
//	kb := renderer.New(term, renderer.DefaultScale, theme)
//	kb.Draw(view.HitTester(), view.Tracker(), top)
//	term.Show()
package renderer
