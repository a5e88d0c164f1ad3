package pt2go

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestParseModule_RejectsTruncated(t *testing.T) {
	if _, err := ParseModule(make([]byte, 10)); !errors.Is(err, ErrTruncatedModule) {
		t.Fatalf("expected ErrTruncatedModule, got %v", err)
	}
}

func TestParseModule_RejectsUnknownSignature(t *testing.T) {
	mod := buildModule([]byte{0}, [][]byte{onePattern(nil)}, testBaseSamples)
	sigOff := titleSz + numSamples*sampleHeaderSz + 2 + 128
	copy(mod[sigOff:sigOff+4], "XXXX")

	_, err := ParseModule(mod)
	if !errors.Is(err, ErrUnrecognizedSignature) {
		t.Fatalf("expected ErrUnrecognizedSignature, got %v", err)
	}
}

func TestParseModule_AcceptsKnownSignatures(t *testing.T) {
	for _, sig := range []string{"M.K.", "M!K!", "FLT4", "4CHN"} {
		mod := buildModule([]byte{0}, [][]byte{onePattern(nil)}, testBaseSamples)
		sigOff := titleSz + numSamples*sampleHeaderSz + 2 + 128
		copy(mod[sigOff:sigOff+4], sig)

		if _, err := ParseModule(mod); err != nil {
			t.Errorf("signature %q: unexpected error %v", sig, err)
		}
	}
}

func TestParseModule_PatternCountFromOrderTable(t *testing.T) {
	mod := buildModule([]byte{0, 2, 1}, [][]byte{onePattern(nil), onePattern(nil), onePattern(nil)}, testBaseSamples)
	m, err := ParseModule(mod)
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}
	if m.NumPatterns != 3 {
		t.Errorf("expected 3 patterns (max order 2 + 1), got %d", m.NumPatterns)
	}
}

// buildHeaderOnlyModule constructs a module with a single sample whose
// header fields are set directly (bypassing buildModule's data-length
// derivation), to exercise loop-sanitization edge cases against the exact
// literal scenarios from spec.md's Testable Properties section.
func buildHeaderOnlyModule(lengthWords, loopStartWords, loopLenWords uint16) []byte {
	var samples [numSamples]testSampleSpec
	samples[0] = testSampleSpec{
		data:   make([]byte, int(lengthWords)*2),
		volume: 64,
	}
	mod := buildModule([]byte{0}, [][]byte{onePattern(nil)}, samples)

	hdrOff := titleSz
	binary.BigEndian.PutUint16(mod[hdrOff+22:hdrOff+24], lengthWords)
	binary.BigEndian.PutUint16(mod[hdrOff+26:hdrOff+28], loopStartWords)
	binary.BigEndian.PutUint16(mod[hdrOff+28:hdrOff+30], loopLenWords)

	return mod
}

func TestParseModule_LoopOverflowExtendsLength(t *testing.T) {
	// spec.md §8: length=10, loop-start=8, loop-length=4 is extended to
	// length=12 words (24 bytes).
	mod := buildHeaderOnlyModule(10, 8, 4)
	m, err := ParseModule(mod)
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}
	if got, want := m.Samples[0].Length, 24; got != want {
		t.Errorf("expected extended length %d bytes, got %d", want, got)
	}
}

func TestParseModule_ZeroLoopLenForcedToOne(t *testing.T) {
	// spec.md §8: length=10, loop-length=0 has loop-length forced to 1 word.
	mod := buildHeaderOnlyModule(10, 0, 0)
	m, err := ParseModule(mod)
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}
	if got, want := m.Samples[0].LoopLen, 2; got != want {
		t.Errorf("expected loop length forced to 1 word (2 bytes), got %d", got)
	}
}

func TestParseModule_NoLoopZerosFirstTwoBytes(t *testing.T) {
	samples := testBaseSamples
	samples[0].data = []byte{0x7F, 0x7F, 0x40, 0x40}
	samples[0].loopStart = 0
	samples[0].loopLen = 0
	mod := buildModule([]byte{0}, [][]byte{onePattern(nil)}, samples)

	m, err := ParseModule(mod)
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}
	if m.Samples[0].Data[0] != 0 || m.Samples[0].Data[1] != 0 {
		t.Errorf("expected anti-click zeroing of first two bytes, got %v", m.Samples[0].Data[:2])
	}
}
