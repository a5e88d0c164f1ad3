package pt2go

// tickReplayer advances the state machine by one tick: on the tick that
// completes a row (Counter wraps at CurrSpeed) it reads the next row's four
// notes and re-triggers voices; on every other tick it only re-evaluates
// the continuous per-tick effects (vibrato, slides, arpeggio, ...).
func (s *State) tickReplayer() {
	if !s.songPlaying {
		return
	}

	// PT quirk: the CIA doesn't refresh its timer until the next
	// interrupt, so a pending BPM change only takes effect here.
	if s.SetBPMFlag != 0 {
		s.setReplayerBPM(s.SetBPMFlag)
		s.SetBPMFlag = 0
	}

	s.Counter++
	if s.Counter >= s.CurrSpeed {
		s.Counter = 0

		if s.PattDelTime2 == 0 {
			s.PattPosOff = int(s.module.Orders[s.SongPosition])*patternBytes + s.PatternPos
			for i := 0; i < amigaVoices; i++ {
				s.playVoice(&s.chans[i])
				s.paulaSetVolume(i, s.chans[i].volume)

				// these take effect after the current playback cycle wraps
				s.paulaSetData(i, s.chans[i].loopStart)
				s.paulaSetLength(i, s.chans[i].replen)
			}
		} else {
			for i := 0; i < amigaVoices; i++ {
				s.checkEffects(&s.chans[i])
			}
		}

		s.PatternPos += 16

		if s.PattDelTime > 0 {
			s.PattDelTime2 = s.PattDelTime
			s.PattDelTime = 0
		}

		if s.PattDelTime2 > 0 {
			s.PattDelTime2--
			if s.PattDelTime2 > 0 {
				s.PatternPos -= 16
			}
		}

		if s.PBreakFlag {
			s.PBreakFlag = false
			s.PatternPos = s.PBreakPosition * 16
			s.PBreakPosition = 0
		}

		if s.PatternPos >= 1024 || s.PosJumpAssert {
			s.nextPosition()
		}
	} else {
		for i := 0; i < amigaVoices; i++ {
			s.checkEffects(&s.chans[i])
		}

		if s.PosJumpAssert {
			s.nextPosition()
		}
	}
}

// playVoice reads one channel's note/command word pair for the current
// row from the pattern data and dispatches the row-trigger effects.
func (s *State) playVoice(ch *channel) {
	if ch.note == 0 && ch.cmd == 0 {
		s.paulaSetPeriod(ch.index, ch.period)
	}

	pat := s.module.Patterns
	off := s.PattPosOff
	b0, b1, b2, b3 := pat[off], pat[off+1], pat[off+2], pat[off+3]

	ch.note = int(b0)<<8 | int(b1)
	ch.cmd = int(b2)<<8 | int(b3)

	sample := int(b0&0xF0) | int(b2>>4)
	if sample >= 1 && sample <= 31 { // SAFETY BUG FIX: ignore sample-numbers >31
		sample--
		smp := &s.module.Samples[sample]

		ch.fineTune = smp.FineTune
		ch.volume = smp.Volume
		ch.length = smp.Length / 2 // words, matching the replayer's n_length unit
		ch.replen = smp.LoopLen / 2

		if smp.Data != nil {
			ch.start = samplePtr{data: smp.Data, offset: 0}
		} else {
			// zero-length sample: the original replayer substitutes its
			// shared silent buffer for this slot at load time, so a channel
			// that has already played it is never left with a NULL start.
			ch.start = emptySamplePtr()
		}

		repeat := smp.LoopStart / 2
		if repeat > 0 {
			ch.loopStart = ch.start.add(repeat * 2)
			ch.waveStart = ch.loopStart
			ch.length = repeat + ch.replen
		} else {
			ch.loopStart = ch.start
			ch.waveStart = ch.start
		}

		// non-PT2 quirk: guard against an empty sample's loop pointers
		// ever being dereferenced.
		if ch.length == 0 {
			ch.loopStart = emptySamplePtr()
			ch.waveStart = emptySamplePtr()
		}
	}

	if ch.note&0xFFF > 0 {
		if ch.cmd&0xFF0 == 0xE50 { // set finetune
			s.setFineTune(ch)
			s.setPeriod(ch)
		} else {
			cmd := (ch.cmd & 0xF00) >> 8
			switch {
			case cmd == 3 || cmd == 5:
				s.setTonePorta(ch)
				s.checkMoreEffects(ch)
			default:
				if cmd == 9 {
					s.checkMoreEffects(ch)
				}
				s.setPeriod(ch)
			}
		}
	} else {
		s.checkMoreEffects(ch)
	}

	s.PattPosOff += 4
}

func (s *State) nextPosition() {
	s.PatternPos = (s.PBreakPosition & 0xFF) << 4
	s.PBreakPosition = 0
	s.PosJumpAssert = false

	s.SongPosition = (s.SongPosition + 1) & 0x7F
	if s.SongPosition >= s.module.SongLength {
		s.SongPosition = 0
	}
}

// sinApx/cosApx are cheap polynomial approximations used to derive an
// equal-power stereo pan law from a linear position in [0,1].
func sinApx(x float64) float64 {
	x = x * (2.0 - x)
	return x*1.09742972 + x*x*0.31678383
}

func cosApx(x float64) float64 {
	x = (1.0 - x) * (1.0 + x)
	return x*1.09742972 + x*x*0.31678383
}

// calculatePans derives the four voices' equal-power left/right gains from
// the stereo separation percentage, pairing channels 0&3 and 1&2 the way
// the Amiga's fixed hardware panning does.
func (s *State) calculatePans() {
	sep := s.stereoSep
	if sep > 100 {
		sep = 100
	}

	scaledPanPos := (sep * 128) / 100

	p := float64(128-scaledPanPos) * (1.0 / 256.0)
	s.paula[0].dPanL = cosApx(p)
	s.paula[0].dPanR = sinApx(p)
	s.paula[3].dPanL = cosApx(p)
	s.paula[3].dPanR = sinApx(p)

	p = float64(128+scaledPanPos) * (1.0 / 256.0)
	s.paula[1].dPanL = cosApx(p)
	s.paula[1].dPanR = sinApx(p)
	s.paula[2].dPanL = cosApx(p)
	s.paula[2].dPanR = sinApx(p)
}

func (s *State) resetAudioDithering() {
	s.randSeed = initialDitherSeed
	s.dPrngStateL = 0.0
	s.dPrngStateR = 0.0
}

func (s *State) random32() int32 {
	s.randSeed = s.randSeed*134775813 + 1
	return s.randSeed
}
