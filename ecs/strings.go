package ecs

// StringTable interns strings as dense uint32 ids so that string data can be
// stored in numeric component fields (typically ui32). Ids start at 0 and
// are never reused.
type StringTable struct {
	ids     map[string]uint32
	strings []string
}

// NewStringTable creates an empty table.
func NewStringTable() *StringTable {
	return &StringTable{ids: make(map[string]uint32)}
}

// Intern returns the id of s, assigning the next id on first sight.
func (t *StringTable) Intern(s string) uint32 {
	if id, ok := t.ids[s]; ok {
		return id
	}
	id := uint32(len(t.strings))
	t.ids[s] = id
	t.strings = append(t.strings, s)
	return id
}

// Lookup returns the string interned under id.
func (t *StringTable) Lookup(id uint32) (string, bool) {
	if int(id) >= len(t.strings) {
		return "", false
	}
	return t.strings[id], true
}

// Len returns the number of distinct strings.
func (t *StringTable) Len() int {
	return len(t.strings)
}
