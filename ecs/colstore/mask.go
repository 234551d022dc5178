package colstore

import "encoding/binary"

// MaxComponents is the number of distinct handles one world can track.
const MaxComponents = 256

// mask is a set of up to 256 per-world component bits.
type mask [4]uint64

func (m *mask) set(bit uint8) {
	m[bit>>6] |= uint64(1) << (bit & 63)
}

func (m *mask) unset(bit uint8) {
	m[bit>>6] &^= uint64(1) << (bit & 63)
}

func (m mask) has(bit uint8) bool {
	return m[bit>>6]&(uint64(1)<<(bit&63)) != 0
}

// containsAll reports whether every bit of sub is set in m.
func (m mask) containsAll(sub mask) bool {
	return m[0]&sub[0] == sub[0] &&
		m[1]&sub[1] == sub[1] &&
		m[2]&sub[2] == sub[2] &&
		m[3]&sub[3] == sub[3]
}

// containsNone reports whether m shares no bit with other.
func (m mask) containsNone(other mask) bool {
	return m[0]&other[0] == 0 &&
		m[1]&other[1] == 0 &&
		m[2]&other[2] == 0 &&
		m[3]&other[3] == 0
}

func (m mask) appendBytes(b []byte) []byte {
	for _, w := range m {
		b = binary.LittleEndian.AppendUint64(b, w)
	}
	return b
}
