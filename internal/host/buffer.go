package host

// Buffer is a single-cursor text buffer with an optional selection. The
// selection runs between the anchor and the cursor.
type Buffer struct {
	text   []rune
	cursor int
	anchor int
}

// NewBuffer creates an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) String() string { return string(b.text) }

// Len returns the length in runes.
func (b *Buffer) Len() int { return len(b.text) }

// Cursor returns the cursor position in runes.
func (b *Buffer) Cursor() int { return b.cursor }

// Selection returns the selected range, start <= end.
func (b *Buffer) Selection() (start, end int) {
	if b.anchor < b.cursor {
		return b.anchor, b.cursor
	}
	return b.cursor, b.anchor
}

// HasSelection reports whether any text is selected.
func (b *Buffer) HasSelection() bool {
	return b.anchor != b.cursor
}

// Selected returns the selected text.
func (b *Buffer) Selected() string {
	start, end := b.Selection()
	return string(b.text[start:end])
}

// BeforeCursor returns the text before the cursor.
func (b *Buffer) BeforeCursor() string {
	return string(b.text[:b.cursor])
}

// Insert replaces the selection with s.
func (b *Buffer) Insert(s string) {
	b.deleteSelection()
	rs := []rune(s)
	text := make([]rune, 0, len(b.text)+len(rs))
	text = append(text, b.text[:b.cursor]...)
	text = append(text, rs...)
	text = append(text, b.text[b.cursor:]...)
	b.text = text
	b.cursor += len(rs)
	b.anchor = b.cursor
}

// Backspace deletes the selection or the rune before the cursor.
func (b *Buffer) Backspace() {
	if b.deleteSelection() || b.cursor == 0 {
		return
	}
	b.text = append(b.text[:b.cursor-1], b.text[b.cursor:]...)
	b.cursor--
	b.anchor = b.cursor
}

// Delete deletes the selection or the rune after the cursor.
func (b *Buffer) Delete() {
	if b.deleteSelection() || b.cursor == len(b.text) {
		return
	}
	b.text = append(b.text[:b.cursor], b.text[b.cursor+1:]...)
}

// MoveTo moves the cursor to pos, clamped to the text. With extend the
// selection grows from the anchor; without it the selection collapses.
func (b *Buffer) MoveTo(pos int, extend bool) {
	b.cursor = max(0, min(pos, len(b.text)))
	if !extend {
		b.anchor = b.cursor
	}
}

// MoveBy moves the cursor by delta runes.
func (b *Buffer) MoveBy(delta int, extend bool) {
	b.MoveTo(b.cursor+delta, extend)
}

// SelectAll selects the whole text.
func (b *Buffer) SelectAll() {
	b.anchor = 0
	b.cursor = len(b.text)
}

// Collapse clears the selection, keeping the cursor.
func (b *Buffer) Collapse() {
	b.anchor = b.cursor
}

// Reset empties the buffer.
func (b *Buffer) Reset() {
	b.text = nil
	b.cursor = 0
	b.anchor = 0
}

func (b *Buffer) deleteSelection() bool {
	if !b.HasSelection() {
		return false
	}
	start, end := b.Selection()
	b.text = append(b.text[:start], b.text[end:]...)
	b.cursor = start
	b.anchor = start
	return true
}
