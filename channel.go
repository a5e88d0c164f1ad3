package pt2go

// channel holds one of the four replayer voices' tracker-level state: the
// tracker note/command words last read from the pattern, and all of the
// per-effect memory (vibrato/tremolo position, tone-porta target, retrigger
// and funk counters) that persists between ticks. This is distinct from
// paulaVoice, which only models what the hardware DMA channel is doing.
type channel struct {
	index int

	start     samplePtr
	waveStart samplePtr
	loopStart samplePtr

	volume int

	toneportDirection int
	toneportSpeed     int
	wantedPeriod      int

	pattPos   int
	loopCount int

	waveControl int // low nibble: vibrato waveform, high nibble: tremolo waveform
	glissFunk   int // low nibble: glissando on/off, high nibble: funk speed

	sampleOffset int

	vibratoCmd  int
	tremoloCmd  int
	vibratoPos  int
	tremoloPos  int

	fineTune   int
	funkOffset int

	period int
	note   int // raw 16-bit word from the pattern: sample high nibble in bits 12-15, 12-bit period below
	cmd    int // raw 16-bit word from the pattern: sample low nibble in bits 12-15, then (effect<<8)|param

	length int
	replen int
}

// updateFunk implements the EFx "funk it" periodic sample inversion. Pure
// bug-for-bug reproduction of the original, including the safety check that
// stops it from touching the shared silent buffer.
func (s *State) updateFunk(ch *channel) {
	funkSpeed := ch.glissFunk >> 4
	if funkSpeed == 0 {
		return
	}

	ch.funkOffset += int(funkTable[funkSpeed])
	if ch.funkOffset >= 128 {
		ch.funkOffset = 0

		if ch.loopStart.valid() && ch.waveStart.valid() && !ch.waveStart.empty {
			ch.waveStart.offset++
			if ch.waveStart.offset >= ch.loopStart.offset+(ch.replen<<1) {
				ch.waveStart = ch.loopStart
			}
			v := ch.waveStart.at(0)
			ch.waveStart.set(0, -1-v)
		}
	}
}

func (s *State) setGlissControl(ch *channel) {
	ch.glissFunk = (ch.glissFunk & 0xF0) | (ch.cmd & 0x0F)
}

func (s *State) setVibratoControl(ch *channel) {
	ch.waveControl = (ch.waveControl & 0xF0) | (ch.cmd & 0x0F)
}

func (s *State) setFineTune(ch *channel) {
	ch.fineTune = ch.cmd & 0xF
}

// jumpLoop implements E6x pattern loop: E60 marks the loop start row, E6x
// (x>0) repeats from that row x times.
func (s *State) jumpLoop(ch *channel) {
	if s.Counter != 0 {
		return
	}

	if ch.cmd&0xF == 0 {
		ch.pattPos = (s.PatternPos >> 4) & 63
		return
	}

	if ch.loopCount == 0 {
		ch.loopCount = ch.cmd & 0xF
	} else {
		ch.loopCount--
		if ch.loopCount == 0 {
			return
		}
	}

	s.PBreakPosition = ch.pattPos
	s.PBreakFlag = true
}

func (s *State) setTremoloControl(ch *channel) {
	ch.waveControl = ((ch.cmd & 0xF) << 4) | (ch.waveControl & 0xF)
}

// karplusStrong implements E8x. Off by default (State.EnableKarplusStrong),
// matching the reference replayer where this effect is compiled out unless
// ENABLE_E8_EFFECT is defined.
func (s *State) karplusStrong(ch *channel) {
	if !s.EnableKarplusStrong {
		return
	}
	if !ch.loopStart.valid() || ch.loopStart.empty {
		return
	}

	length := ((ch.replen * 2) & 0xFFFF) - 1
	p := ch.loopStart
	for n := 0; n < length; n++ {
		avg := int8((int(p.at(n+1)) + int(p.at(n))) >> 1)
		p.set(n, avg)
	}
	avg := int8((int(ch.loopStart.at(0)) + int(p.at(length))) >> 1)
	p.set(length, avg)
}

func (s *State) doRetrig(ch *channel) {
	s.paulaSetData(ch.index, ch.start)
	s.paulaSetLength(ch.index, ch.length)
	s.paulaSetPeriod(ch.index, ch.period)
	s.paulaStartDMA(ch.index)

	s.paulaSetData(ch.index, ch.loopStart)
	s.paulaSetLength(ch.index, ch.replen)
}

func (s *State) retrigNote(ch *channel) {
	n := ch.cmd & 0xF
	if n <= 0 {
		return
	}

	if s.Counter == 0 && (ch.note&0xFFF) > 0 {
		return
	}

	if s.Counter%n == 0 {
		s.doRetrig(ch)
	}
}

func (s *State) volumeSlide(ch *channel) {
	cmd := ch.cmd & 0xFF
	if cmd&0xF0 == 0 {
		ch.volume -= cmd & 0xF
		if ch.volume < 0 {
			ch.volume = 0
		}
	} else {
		ch.volume += cmd >> 4
		if ch.volume > 64 {
			ch.volume = 64
		}
	}
}

func (s *State) volumeFineUp(ch *channel) {
	if s.Counter == 0 {
		ch.volume += ch.cmd & 0xF
		if ch.volume > 64 {
			ch.volume = 64
		}
	}
}

func (s *State) volumeFineDown(ch *channel) {
	if s.Counter == 0 {
		ch.volume -= ch.cmd & 0xF
		if ch.volume < 0 {
			ch.volume = 0
		}
	}
}

func (s *State) noteCut(ch *channel) {
	if s.Counter == ch.cmd&0xF {
		ch.volume = 0
	}
}

func (s *State) noteDelay(ch *channel) {
	if s.Counter == ch.cmd&0xF && (ch.note&0xFFF) > 0 {
		s.doRetrig(ch)
	}
}

func (s *State) patternDelay(ch *channel) {
	if s.Counter == 0 && s.PattDelTime2 == 0 {
		s.PattDelTime = (ch.cmd & 0xF) + 1
	}
}

func (s *State) funkIt(ch *channel) {
	if s.Counter != 0 {
		return
	}
	ch.glissFunk = ((ch.cmd & 0xF) << 4) | (ch.glissFunk & 0xF)
	if ch.glissFunk&0xF0 > 0 {
		s.updateFunk(ch)
	}
}

func (s *State) positionJump(ch *channel) {
	s.SongPosition = (ch.cmd & 0xFF) - 1 // -1 for B00: nextPosition's increment lands on order 0
	s.PBreakPosition = 0
	s.PosJumpAssert = true
}

func (s *State) volumeChange(ch *channel) {
	ch.volume = ch.cmd & 0xFF
	if ch.volume > 64 {
		ch.volume = 64
	}
}

func (s *State) patternBreak(ch *channel) {
	s.PBreakPosition = (((ch.cmd & 0xF0) >> 4) * 10) + (ch.cmd & 0x0F)
	if s.PBreakPosition > 63 {
		s.PBreakPosition = 0
	}
	s.PosJumpAssert = true
}

func (s *State) setSpeed(ch *channel) {
	param := ch.cmd & 0xFF
	if param == 0 {
		return
	}

	if s.TempoMode == VBlankTempo || param < 32 {
		s.Counter = 0
		s.CurrSpeed = param
	} else {
		// the CIA doesn't refresh its timer registers until the next
		// interrupt, so the real tempo change is deferred a tick.
		s.SetBPMFlag = param
	}
}

func (s *State) arpeggio(ch *channel) {
	arpTick := arpTickTable[s.Counter]

	var arpNote int
	switch arpTick {
	case 1:
		arpNote = (ch.cmd & 0xFF) >> 4
	case 2:
		arpNote = ch.cmd & 0xF
	default:
		s.paulaSetPeriod(ch.index, ch.period)
		return
	}

	periods := periodTable[ch.fineTune*37:]
	for baseNote := 0; baseNote < 37; baseNote++ {
		if ch.period >= int(periods[baseNote]) {
			s.paulaSetPeriod(ch.index, int(periods[baseNote+arpNote]))
			break
		}
	}
}

func (s *State) portaUp(ch *channel) {
	ch.period -= (ch.cmd & 0xFF) & s.lowMask
	s.lowMask = 0xFF

	if ch.period&0xFFF < 113 {
		ch.period = (ch.period & 0xF000) | 113
	}

	s.paulaSetPeriod(ch.index, ch.period&0xFFF)
}

func (s *State) portaDown(ch *channel) {
	ch.period += (ch.cmd & 0xFF) & s.lowMask
	s.lowMask = 0xFF

	if ch.period&0xFFF > 856 {
		ch.period = (ch.period & 0xF000) | 856
	}

	s.paulaSetPeriod(ch.index, ch.period&0xFFF)
}

func (s *State) filterOnOff(ch *channel) {
	s.LEDFilterOn = ch.cmd&1 == 0
}

func (s *State) finePortaUp(ch *channel) {
	if s.Counter == 0 {
		s.lowMask = 0xF
		s.portaUp(ch)
	}
}

func (s *State) finePortaDown(ch *channel) {
	if s.Counter == 0 {
		s.lowMask = 0xF
		s.portaDown(ch)
	}
}

func (s *State) setTonePorta(ch *channel) {
	note := ch.note & 0xFFF
	portaPointer := periodTable[ch.fineTune*37:]

	i := 0
	for {
		if note >= int(portaPointer[i]) {
			break
		}
		i++
		if i >= 37 {
			i = 35
			break
		}
	}

	if ch.fineTune&8 != 0 && i > 0 {
		i--
	}

	ch.wantedPeriod = int(portaPointer[i])
	ch.toneportDirection = 0

	if ch.period == ch.wantedPeriod {
		ch.wantedPeriod = 0
	} else if ch.period > ch.wantedPeriod {
		ch.toneportDirection = 1
	}
}

func (s *State) tonePortNoChange(ch *channel) {
	if ch.wantedPeriod <= 0 {
		return
	}

	if ch.toneportDirection > 0 {
		ch.period -= ch.toneportSpeed
		if ch.period <= ch.wantedPeriod {
			ch.period = ch.wantedPeriod
			ch.wantedPeriod = 0
		}
	} else {
		ch.period += ch.toneportSpeed
		if ch.period >= ch.wantedPeriod {
			ch.period = ch.wantedPeriod
			ch.wantedPeriod = 0
		}
	}

	if ch.glissFunk&0xF == 0 {
		s.paulaSetPeriod(ch.index, ch.period)
		return
	}

	portaPointer := periodTable[ch.fineTune*37:]
	i := 0
	for {
		if ch.period >= int(portaPointer[i]) {
			break
		}
		i++
		if i >= 37 {
			i = 35
			break
		}
	}

	s.paulaSetPeriod(ch.index, int(portaPointer[i]))
}

func (s *State) tonePortamento(ch *channel) {
	if ch.cmd&0xFF > 0 {
		ch.toneportSpeed = ch.cmd & 0xFF
		ch.cmd &= 0xFF00
	}
	s.tonePortNoChange(ch)
}

// vibrato2 applies the current vibrato waveform/depth to the period and
// advances the vibrato phase. Shared by the 4xx and 6xx effect handlers.
func (s *State) vibrato2(ch *channel) {
	vibratoPos := (ch.vibratoPos >> 2) & 0x1F
	vibratoType := ch.waveControl & 3

	var vibratoData int
	switch vibratoType {
	case 0: // sine
		vibratoData = int(vibratoTable[vibratoPos])
	case 1: // ramp
		if ch.vibratoPos < 128 {
			vibratoData = vibratoPos << 3
		} else {
			vibratoData = 255 - (vibratoPos << 3)
		}
	default: // square
		vibratoData = 255
	}

	vibratoData = (vibratoData * (ch.vibratoCmd & 0xF)) >> 7

	if ch.vibratoPos < 128 {
		vibratoData = ch.period + vibratoData
	} else {
		vibratoData = ch.period - vibratoData
	}

	s.paulaSetPeriod(ch.index, vibratoData)

	ch.vibratoPos = (ch.vibratoPos + ((ch.vibratoCmd >> 2) & 0x3C)) & 0xFF
}

func (s *State) vibrato(ch *channel) {
	if ch.cmd&0x0F > 0 {
		ch.vibratoCmd = (ch.vibratoCmd & 0xF0) | (ch.cmd & 0x0F)
	}
	if ch.cmd&0xF0 > 0 {
		ch.vibratoCmd = (ch.cmd & 0xF0) | (ch.vibratoCmd & 0x0F)
	}
	s.vibrato2(ch)
}

func (s *State) tonePlusVolSlide(ch *channel) {
	s.tonePortNoChange(ch)
	s.volumeSlide(ch)
}

func (s *State) vibratoPlusVolSlide(ch *channel) {
	s.vibrato2(ch)
	s.volumeSlide(ch)
}

// tremolo applies the current tremolo waveform/depth to the volume. The
// ramp-waveform branch tests n_vibratopos rather than n_tremolopos in the
// original PT2 replayer; QuirkTremoloRampUsesVibratoPos reproduces that
// mistake by default and can be disabled for a "corrected" rendering.
func (s *State) tremolo(ch *channel) {
	if ch.cmd&0x0F > 0 {
		ch.tremoloCmd = (ch.tremoloCmd & 0xF0) | (ch.cmd & 0x0F)
	}
	if ch.cmd&0xF0 > 0 {
		ch.tremoloCmd = (ch.cmd & 0xF0) | (ch.tremoloCmd & 0x0F)
	}

	tremoloPos := (ch.tremoloPos >> 2) & 0x1F
	tremoloType := (ch.waveControl >> 4) & 3

	var tremoloData int
	switch tremoloType {
	case 0: // sine
		tremoloData = int(vibratoTable[tremoloPos])
	case 1: // ramp
		rampTestPos := ch.tremoloPos
		if s.Quirks&QuirkTremoloRampUsesVibratoPos != 0 {
			rampTestPos = ch.vibratoPos
		}
		if rampTestPos < 128 {
			tremoloData = tremoloPos << 3
		} else {
			tremoloData = 255 - (tremoloPos << 3)
		}
	default: // square
		tremoloData = 255
	}

	tremoloData = (tremoloData * (ch.tremoloCmd & 0xF)) >> 6

	if ch.tremoloPos < 128 {
		tremoloData = ch.volume + tremoloData
		if tremoloData > 64 {
			tremoloData = 64
		}
	} else {
		tremoloData = ch.volume - tremoloData
		if tremoloData < 0 {
			tremoloData = 0
		}
	}

	s.paulaSetVolume(ch.index, tremoloData)

	ch.tremoloPos = (ch.tremoloPos + ((ch.tremoloCmd >> 2) & 0x3C)) & 0xFF
}

func (s *State) sampleOffsetEffect(ch *channel) {
	if ch.cmd&0xFF > 0 {
		ch.sampleOffset = ch.cmd & 0xFF
	}

	newOffset := ch.sampleOffset << 7
	if newOffset < ch.length {
		ch.length -= newOffset
		ch.start.offset += newOffset << 1
	} else {
		ch.length = 1
	}
}

// eCommands dispatches the E0-EFx sub-effects.
func (s *State) eCommands(ch *channel) {
	switch (ch.cmd & 0xF0) >> 4 {
	case 0x0:
		s.filterOnOff(ch)
	case 0x1:
		s.finePortaUp(ch)
	case 0x2:
		s.finePortaDown(ch)
	case 0x3:
		s.setGlissControl(ch)
	case 0x4:
		s.setVibratoControl(ch)
	case 0x5:
		s.setFineTune(ch)
	case 0x6:
		s.jumpLoop(ch)
	case 0x7:
		s.setTremoloControl(ch)
	case 0x8:
		s.karplusStrong(ch)
	case 0x9:
		s.retrigNote(ch)
	case 0xA:
		s.volumeFineUp(ch)
	case 0xB:
		s.volumeFineDown(ch)
	case 0xC:
		s.noteCut(ch)
	case 0xD:
		s.noteDelay(ch)
	case 0xE:
		s.patternDelay(ch)
	case 0xF:
		s.funkIt(ch)
	}
}

// checkMoreEffects dispatches the command-word-level effects (9/B/D/E/F/C)
// checked after a note's period/sample has already been asserted.
func (s *State) checkMoreEffects(ch *channel) {
	switch (ch.cmd & 0xF00) >> 8 {
	case 0x9:
		s.sampleOffsetEffect(ch)
	case 0xB:
		s.positionJump(ch)
	case 0xD:
		s.patternBreak(ch)
	case 0xE:
		s.eCommands(ch)
	case 0xF:
		s.setSpeed(ch)
	case 0xC:
		s.volumeChange(ch)
	default:
		s.paulaSetPeriod(ch.index, ch.period)
	}
}

// checkEffects dispatches the intra-tick effects (0-7, A, E) run on every
// tick of a row, including the non-row-trigger ticks.
func (s *State) checkEffects(ch *channel) {
	s.updateFunk(ch)

	effect := (ch.cmd & 0xF00) >> 8
	if ch.cmd&0xFFF > 0 {
		switch effect {
		case 0x0:
			s.arpeggio(ch)
		case 0x1:
			s.portaUp(ch)
		case 0x2:
			s.portaDown(ch)
		case 0x3:
			s.tonePortamento(ch)
		case 0x4:
			s.vibrato(ch)
		case 0x5:
			s.tonePlusVolSlide(ch)
		case 0x6:
			s.vibratoPlusVolSlide(ch)
		case 0xE:
			s.eCommands(ch)
		case 0x7:
			s.paulaSetPeriod(ch.index, ch.period)
			s.tremolo(ch)
		case 0xA:
			s.paulaSetPeriod(ch.index, ch.period)
			s.volumeSlide(ch)
		default:
			s.paulaSetPeriod(ch.index, ch.period)
		}
	}

	if effect != 0x7 {
		s.paulaSetVolume(ch.index, ch.volume)
	}
}

// setPeriod looks up the period for the channel's current note and,
// outside of a pending note-delay (EDx), (re)triggers Paula playback.
func (s *State) setPeriod(ch *channel) {
	note := ch.note & 0xFFF

	i := 0
	for ; i < 37; i++ {
		if note >= int(periodTable[i]) {
			break
		}
	}

	ch.period = int(periodTable[ch.fineTune*37+i])

	if ch.cmd&0xFF0 != 0xED0 { // no pending note delay
		if ch.waveControl&0x04 == 0 {
			ch.vibratoPos = 0
		}
		if ch.waveControl&0x40 == 0 {
			ch.tremoloPos = 0
		}

		s.paulaSetLength(ch.index, ch.length)
		s.paulaSetData(ch.index, ch.start)

		if !ch.start.valid() {
			ch.loopStart = samplePtr{}
			s.paulaSetLength(ch.index, 1)
			ch.replen = 1
		}

		s.paulaSetPeriod(ch.index, ch.period)
		s.paulaStartDMA(ch.index)
	}

	s.checkMoreEffects(ch)
}
