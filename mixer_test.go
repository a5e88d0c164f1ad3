package pt2go

import "testing"

// buildFixtureModule assembles a small module with one looping voice and a
// handful of slide/vibrato effects active, used by the mixer tests below to
// exercise the full render path rather than a silent channel.
func buildFixtureModule() []byte {
	pat := onePattern(map[int][]byte{
		0:  row(cell(1, 428, 0, 0)),
		8:  row(cell(0, 0, 4, 0xA2)), // vibrato
		32: row(cell(0, 0, 0xA, 0x15)), // volume slide
	})
	return buildModule([]byte{0}, [][]byte{pat}, testBaseSamples)
}

func TestMixAudio_OutputStaysWithinInt16Range(t *testing.T) {
	s := freshState()
	mustPlay(t, s, buildFixtureModule(), CIATempo)

	buf := make([]int16, 8192*2)
	s.FillAudio(buf, 8192)

	for i, v := range buf {
		if v < -32768 || v > 32767 {
			t.Fatalf("sample %d = %d out of int16 range", i, v)
		}
	}
}

func TestMixAudio_PausedSongIsSilent(t *testing.T) {
	s := freshState()
	mustPlay(t, s, buildFixtureModule(), CIATempo)

	// let the voice actually start before pausing, so a silent buffer is
	// actually evidence of the pause and not just an unstarted voice.
	warmup := make([]int16, s.CurrSpeed*s.samplesPerTick*2)
	s.FillAudio(warmup, len(warmup)/2)

	s.PauseSong(true)

	buf := make([]int16, 512*2)
	s.FillAudio(buf, 512)

	for i, v := range buf {
		if v != 0 {
			t.Fatalf("sample %d = %d, expected silence while paused", i, v)
		}
	}
}

func TestFillAudio_IsDeterministicAcrossReplays(t *testing.T) {
	mod := buildFixtureModule()

	render := func() []int16 {
		s := freshState()
		mustPlay(t, s, mod, CIATempo)
		buf := make([]int16, 16384*2)
		s.FillAudio(buf, 16384)
		return buf
	}

	a := render()
	b := render()

	if len(a) != len(b) {
		t.Fatalf("length mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("diverged at sample %d: %d vs %d", i, a[i], b[i])
		}
	}
}
