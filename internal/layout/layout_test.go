package layout

import "testing"

func TestValueIdentityIgnoresFlagsAndMeta(t *testing.T) {
	a := MakeChar('a').WithFlags(FlagSecondary).WithMeta(MetaCtrl)
	b := MakeChar('a')

	if a == b {
		t.Fatal("values with different flags compared equal")
	}
	if !a.SameAs(b) {
		t.Error("SameAs() = false for values differing only in flags and meta")
	}
	if CapsLock.Identity() != Shift.Identity() {
		t.Error("CapsLock and Shift should share an identity")
	}
}

func TestValueLabel(t *testing.T) {
	tests := []struct {
		value Value
		want  string
	}{
		{MakeChar('x'), "x"},
		{MakeString("://"), "://"},
		{Enter, "⏎"},
		{Shift, "⇧"},
		{SwitchNumeric, "123"},
		{Placeholder(), ""},
		{Value{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.value.String(), func(t *testing.T) {
			if got := tt.value.Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValueString(t *testing.T) {
	v := MakeChar('c').WithMeta(MetaCtrl)
	if got, want := v.String(), `char 'c' [Ctrl]`; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	v = MakeKeyevent(KeycodeLeft).WithMeta(MetaShift | MetaCtrl)
	if got, want := v.String(), "keyevent Left [Ctrl+Shift]"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := MakeChar('c').String(), "char 'c'"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := (Value{}).String(); got != "none" {
		t.Errorf("zero String() = %q, want none", got)
	}
}

func TestKeycodeString(t *testing.T) {
	tests := []struct {
		code Keycode
		want string
	}{
		{KeycodeNone, "None"},
		{KeycodeEnter, "Enter"},
		{KeycodeLeft, "Left"},
		{KeycodeF1, "F1"},
		{KeycodeF12, "F12"},
		{Keycode(999), "Keycode(999)"},
	}

	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("Keycode(%d).String() = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestFunctionKey(t *testing.T) {
	if FunctionKey(1) != KeycodeF1 || FunctionKey(12) != KeycodeF12 {
		t.Error("FunctionKey() returned wrong keycode for valid input")
	}
	if FunctionKey(0) != KeycodeNone || FunctionKey(13) != KeycodeNone {
		t.Error("FunctionKey() should return KeycodeNone out of range")
	}
}

func TestMetaStateString(t *testing.T) {
	tests := []struct {
		meta  MetaState
		want  string
		short string
	}{
		{MetaNone, "", ""},
		{MetaCtrl, "Ctrl", "C"},
		{MetaCtrl | MetaShift, "Ctrl+Shift", "C-S"},
		{MetaCtrl | MetaAlt | MetaShift | MetaMeta, "Ctrl+Alt+Shift+Meta", "C-A-S-M"},
	}

	for _, tt := range tests {
		if got := tt.meta.String(); got != tt.want {
			t.Errorf("MetaState(%d).String() = %q, want %q", tt.meta, got, tt.want)
		}
		if got := tt.meta.ShortString(); got != tt.short {
			t.Errorf("MetaState(%d).ShortString() = %q, want %q", tt.meta, got, tt.short)
		}
	}
}

func TestNewComputesDimensions(t *testing.T) {
	l := New("test",
		&Row{Keys: []*Key{{Width: 1}, {Width: 2, Shift: 0.5}}, Height: 1},
		&Row{Keys: []*Key{{Width: 1}}, Height: 0.8, Shift: 0.2},
	)

	if l.KeysWidth != 3.5 {
		t.Errorf("KeysWidth = %v, want 3.5", l.KeysWidth)
	}
	if l.KeysHeight != 2 {
		t.Errorf("KeysHeight = %v, want 2", l.KeysHeight)
	}
}

func TestFindKeyWithValue(t *testing.T) {
	l := QWERTY()

	shift := l.FindKeyWithValue(Shift)
	if shift == nil || shift.Main() != Shift {
		t.Fatalf("FindKeyWithValue(Shift) = %v", shift)
	}

	// Digits live on swipe slots.
	one := l.FindKeyWithValue(MakeChar('1'))
	if one == nil || one.Main() != MakeChar('q') {
		t.Errorf("FindKeyWithValue('1') should return the q key")
	}

	if l.FindKeyWithValue(MakeChar('€')) != nil {
		t.Error("FindKeyWithValue() should return nil for a missing value")
	}
	if !l.Contains(shift) {
		t.Error("Contains() = false for a layout key")
	}
	if l.Contains(EmptyKey) {
		t.Error("Contains(EmptyKey) = true")
	}
}

func TestKeyValue(t *testing.T) {
	k := NewKey(MakeChar('a')).At(SlotN, MakeChar('b')).Build()

	if v, ok := k.Value(SlotN); !ok || v != MakeChar('b') {
		t.Errorf("Value(SlotN) = %v, %v", v, ok)
	}
	if _, ok := k.Value(SlotS); ok {
		t.Error("Value(SlotS) reported an empty slot as set")
	}
	if _, ok := k.Value(Slot(42)); ok {
		t.Error("Value() accepted an out-of-range slot")
	}
}

func TestQWERTYRowsFitWidth(t *testing.T) {
	l := QWERTY()
	if len(l.Rows) != 4 {
		t.Fatalf("len(Rows) = %d, want 4", len(l.Rows))
	}
	for i, r := range l.Rows {
		if w := r.Width(); w > l.KeysWidth {
			t.Errorf("row %d width %v exceeds KeysWidth %v", i, w, l.KeysWidth)
		}
	}
	if l.KeysWidth != 10 {
		t.Errorf("KeysWidth = %v, want 10", l.KeysWidth)
	}
}

func TestLocate(t *testing.T) {
	l := QWERTY()
	shift := l.FindKeyWithValue(Shift)
	row, index, ok := l.Locate(shift)
	if !ok || row != 2 || index != 0 {
		t.Errorf("Locate(shift) = %d, %d, %v, want 2, 0, true", row, index, ok)
	}
	if got := l.KeyAt(row, index); got != shift {
		t.Errorf("KeyAt(%d, %d) = %p, want %p", row, index, got, shift)
	}
	if _, _, ok := l.Locate(EmptyKey); ok {
		t.Error("Locate(EmptyKey) found a key")
	}
	if l.KeyAt(9, 0) != nil || l.KeyAt(0, -1) != nil {
		t.Error("KeyAt() returned a key out of range")
	}
}

func TestParseMod(t *testing.T) {
	for m := ModGrave; m <= ModCompose; m++ {
		got, ok := ParseMod(m.String())
		if !ok || got != m {
			t.Errorf("ParseMod(%q) = %v, %v, want %v", m.String(), got, ok, m)
		}
	}
	if _, ok := ParseMod("hyper"); ok {
		t.Error(`ParseMod("hyper") succeeded`)
	}
}
