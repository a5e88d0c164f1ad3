package pt2go

import (
	"encoding/binary"
	"testing"

	clone "github.com/huandu/go-clone/generic"
)

// testSampleSpec describes one of a fixture module's 31 sample slots, in the
// same spirit as the teacher's testSong fixture: a small set of canned
// instruments cloned fresh for every subtest via go-clone rather than built
// from scratch each time.
type testSampleSpec struct {
	name      string
	data      []byte // signed PCM bytes
	fineTune  byte
	volume    byte
	loopStart uint16 // words
	loopLen   uint16 // words
}

// testBaseSamples is the canned 31-slot sample table that buildModule turns
// into a byte-exact 31-sample MOD file together with an order list and raw
// pattern bytes. Building modules this way (rather than hand-writing binary MOD
// fixtures on disk) is grounded on the teacher's own pattern of assembling
// a canned `testSong` fixture object in Go and cloning it per test.
var testBaseSamples = [numSamples]testSampleSpec{
	0: {name: "square", data: []byte{0xC0, 0xC0, 0x40, 0x40}, volume: 64, loopLen: 2},
}

// buildModule assembles a minimal valid 31-sample MOD byte buffer: title,
// 31 sample headers, song length + order table, "M.K." signature, pattern
// data and sample PCM, laid out exactly per the format §3 of the design.
func buildModule(orders []byte, patterns [][]byte, samples [numSamples]testSampleSpec) []byte {
	buf := make([]byte, 0, 4096)

	title := make([]byte, titleSz)
	buf = append(buf, title...)

	for i := 0; i < numSamples; i++ {
		s := samples[i]
		hdr := make([]byte, sampleHeaderSz)
		copy(hdr[:22], s.name)
		binary.BigEndian.PutUint16(hdr[22:24], uint16(len(s.data)/2))
		hdr[24] = s.fineTune
		hdr[25] = s.volume
		binary.BigEndian.PutUint16(hdr[26:28], s.loopStart)
		binary.BigEndian.PutUint16(hdr[28:30], s.loopLen)
		buf = append(buf, hdr...)
	}

	buf = append(buf, byte(len(orders)), 0x7F)
	orderTable := make([]byte, 128)
	copy(orderTable, orders)
	buf = append(buf, orderTable...)

	buf = append(buf, []byte("M.K.")...)

	for _, p := range patterns {
		pat := make([]byte, patternBytes)
		copy(pat, p)
		buf = append(buf, pat...)
	}

	for i := 0; i < numSamples; i++ {
		data := samples[i].data
		// pad odd-length sample data out to a whole word, as a real MOD
		// sample's length is always declared (and stored) in words.
		if len(data)%2 != 0 {
			data = append(append([]byte{}, data...), 0)
		}
		buf = append(buf, data...)
	}

	return buf
}

// cell encodes one 4-byte pattern entry: sample number (1-31, 0 = none),
// a 12-bit Amiga period (0 = no note) and an effect command+param.
func cell(sample byte, period uint16, effect, param byte) [4]byte {
	var c [4]byte
	c[0] = (sample & 0xF0) | byte(period>>8)
	c[1] = byte(period)
	c[2] = (sample << 4 & 0xF0) | (effect & 0x0F)
	c[3] = param
	return c
}

// row packs up to 4 cells into one pattern row's 16 bytes.
func row(cells ...[4]byte) []byte {
	out := make([]byte, 16)
	for i, c := range cells {
		if i >= 4 {
			break
		}
		copy(out[i*4:i*4+4], c[:])
	}
	return out
}

// onePattern builds a single 64-row, 4-channel pattern (1024 bytes) from a
// sparse map of row index to that row's 16 bytes; every other row is silent.
func onePattern(rows map[int][]byte) []byte {
	pat := make([]byte, patternBytes)
	for r, data := range rows {
		copy(pat[r*16:r*16+16], data)
	}
	return pat
}

// freshState returns a *State cloned from a shared baseline via go-clone,
// the way the teacher's newPlayerWithMODTestPattern clones testSong per
// subtest instead of re-deriving filter coefficients from scratch every
// time.
var baselineState = NewState(48000)

func freshState() *State {
	return clone.Clone(baselineState)
}

func mustPlay(t *testing.T, s *State, mod []byte, mode TempoMode) {
	t.Helper()
	if !s.PlaySong(mod, mode) {
		t.Fatalf("PlaySong failed to parse a fixture module")
	}
}
