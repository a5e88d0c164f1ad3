package pt2go

import "testing"

func TestFillAudio_EmptyModuleIsSilent(t *testing.T) {
	s := freshState()
	var blank [numSamples]testSampleSpec
	mod := buildModule([]byte{0}, [][]byte{onePattern(nil)}, blank)
	mustPlay(t, s, mod, CIATempo)

	buf := make([]int16, 4800*2)
	s.FillAudio(buf, 4800)

	// an unplayed module still runs the dithering stage, so "silence" means
	// bounded to the dither's own tiny range rather than a literal all-zero
	// buffer.
	for i, v := range buf {
		if v < -1 || v > 1 {
			t.Fatalf("frame byte %d = %d, want near-silence", i, v)
		}
	}
}

func TestFillAudio_LoopedSampleProducesAudibleOutput(t *testing.T) {
	s := freshState()
	pat := onePattern(map[int][]byte{
		0: row(cell(1, 428, 0, 0)), // C-2 on sample 1, channel 0
	})
	mod := buildModule([]byte{0}, [][]byte{pat}, testBaseSamples)
	mustPlay(t, s, mod, CIATempo)

	// CurrSpeed starts at 6: the row is only read on the tick where the
	// counter wraps, so the first 5 ticks render silence while the 6th
	// triggers the note and starts the voice.
	ticksPerRow := s.CurrSpeed
	lead := make([]int16, (ticksPerRow-1)*s.samplesPerTick*2)
	if len(lead) > 0 {
		s.FillAudio(lead, len(lead)/2)
	}

	buf := make([]int16, 256*2)
	s.FillAudio(buf, 256)

	nonZero := false
	for _, v := range buf {
		if v != 0 {
			nonZero = true
			break
		}
	}
	if !nonZero {
		t.Fatalf("expected audible output once the looping sample's voice starts")
	}
}

func TestTickReplayer_SpeedChangeShortensRow(t *testing.T) {
	s := freshState()
	pat := onePattern(map[int][]byte{
		0: row(cell(0, 0, 0xF, 0x03)), // F03: set speed to 3
	})
	mod := buildModule([]byte{0, 0}, [][]byte{pat}, testBaseSamples)
	mustPlay(t, s, mod, CIATempo)

	if s.CurrSpeed != 6 {
		t.Fatalf("expected default speed 6 before F03 is read, got %d", s.CurrSpeed)
	}

	// the default speed (6) governs row 0 itself; F03 only takes effect for
	// the rows that follow.
	for i := 0; i < 6; i++ {
		s.tickReplayer()
	}
	if s.CurrSpeed != 3 {
		t.Fatalf("expected CurrSpeed 3 after F03 is processed, got %d", s.CurrSpeed)
	}
	if s.PatternPos != 16 {
		t.Fatalf("expected row to have advanced once, PatternPos = %d", s.PatternPos)
	}

	// two more ticks (less than the new speed of 3) must not advance the row.
	s.tickReplayer()
	s.tickReplayer()
	if s.PatternPos != 16 {
		t.Fatalf("row advanced early: PatternPos = %d after 2 ticks at speed 3", s.PatternPos)
	}

	// the third tick completes the row at the new, shorter speed.
	s.tickReplayer()
	if s.PatternPos != 32 {
		t.Fatalf("expected row to advance after 3 ticks at speed 3, PatternPos = %d", s.PatternPos)
	}
}

func TestTickReplayer_PatternBreakJumpsToNextOrderRow(t *testing.T) {
	s := freshState()
	pat0 := onePattern(map[int][]byte{
		10: row(cell(0, 0, 0xD, 0x05)), // D05: break to row 5 of the next order entry
	})
	pat1 := onePattern(nil)
	mod := buildModule([]byte{0, 1}, [][]byte{pat0, pat1}, testBaseSamples)
	mustPlay(t, s, mod, CIATempo)

	// fast-forward straight to the tick that reads row 10, as if the five
	// preceding ticks (and ten preceding rows) had already elapsed.
	s.PatternPos = 10 * 16
	s.Counter = s.CurrSpeed - 1

	s.tickReplayer()

	if s.SongPosition != 1 {
		t.Errorf("expected SongPosition 1 after the break, got %d", s.SongPosition)
	}
	if s.PatternPos != 5*16 {
		t.Errorf("expected PatternPos at row 5 (%d), got %d", 5*16, s.PatternPos)
	}
	if s.Counter != 0 {
		t.Errorf("expected the tick counter to reset, got %d", s.Counter)
	}
}

func TestTickReplayer_PositionJumpWrapsToOrderZero(t *testing.T) {
	s := freshState()
	pat := onePattern(map[int][]byte{
		3: row(cell(0, 0, 0xB, 0x00)), // B00: jump to order 0
	})
	// order entry 2 resolves to pattern 2 (the third supplied pattern), so
	// the jump command has to live there, not in pattern 0.
	mod := buildModule([]byte{0, 1, 2}, [][]byte{onePattern(nil), onePattern(nil), pat}, testBaseSamples)
	mustPlay(t, s, mod, CIATempo)

	s.SongPosition = 2
	s.PatternPos = 3 * 16
	s.Counter = s.CurrSpeed - 1

	s.tickReplayer()

	if s.SongPosition != 0 {
		t.Errorf("expected SongPosition to wrap to 0, got %d", s.SongPosition)
	}
	if s.PatternPos != 0 {
		t.Errorf("expected PatternPos reset to row 0, got %d", s.PatternPos)
	}
}

func TestVibrato_NeverDropsPeriodBelowTheFloor(t *testing.T) {
	s := freshState()
	ch := &channel{index: 0, period: 113, vibratoCmd: 0xFF} // max speed, max depth
	s.oldPeriod = -1

	for i := 0; i < 64; i++ {
		s.vibrato2(ch)
	}

	// paulaSetPeriod clamps any period (including the vibrato's negative
	// excursions) at the Paula hardware floor of 113.
	floor := s.dPeriodToDeltaDiv / 113.0
	if s.paula[0].dDelta > floor*1.0000001 {
		t.Errorf("voice delta %v implies a period below the 113 floor (floor delta %v)", s.paula[0].dDelta, floor)
	}
}
