package layout

import "strings"

// MetaState is the meta mask a value carries once a modifier has turned it
// into a chord, such as the Ctrl in Ctrl+c or the Alt in Alt+Left.
type MetaState uint8

const (
	MetaNone  MetaState = 0
	MetaShift MetaState = 1 << iota
	MetaCtrl
	MetaAlt
	MetaMeta
)

// metaNames is in display order: long name, short name.
var metaNames = []struct {
	bit         MetaState
	long, short string
}{
	{MetaCtrl, "Ctrl", "C"},
	{MetaAlt, "Alt", "A"},
	{MetaShift, "Shift", "S"},
	{MetaMeta, "Meta", "M"},
}

// Has reports whether m contains bit.
func (m MetaState) Has(bit MetaState) bool {
	return m&bit != 0
}

// IsEmpty reports whether no bit is set.
func (m MetaState) IsEmpty() bool {
	return m == MetaNone
}

// String returns a form like "Ctrl+Alt".
func (m MetaState) String() string {
	return m.join("+", false)
}

// ShortString returns a form like "C-A".
func (m MetaState) ShortString() string {
	return m.join("-", true)
}

func (m MetaState) join(sep string, short bool) string {
	var parts []string
	for _, n := range metaNames {
		if !m.Has(n.bit) {
			continue
		}
		if short {
			parts = append(parts, n.short)
		} else {
			parts = append(parts, n.long)
		}
	}
	return strings.Join(parts, sep)
}
