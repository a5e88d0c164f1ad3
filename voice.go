package pt2go

// samplePtr emulates a raw pointer into a sample's data, the way the
// reference replayer walks int8_t* pointers directly into sample memory.
// empty marks a pointer that resolved to the shared, silent scratch buffer
// rather than real sample data (PT2's EmptySample) — writes through such a
// pointer are suppressed so that one channel's funk/Karplus-Strong effect
// can never corrupt the silence every other channel relies on.
type samplePtr struct {
	data   []int8
	offset int
	empty  bool
}

func emptySamplePtr() samplePtr {
	return samplePtr{data: emptySampleData, offset: 0, empty: true}
}

func (p samplePtr) valid() bool {
	return p.data != nil
}

// add returns a pointer n bytes further into the same buffer, the way the
// reference replayer does plain pointer arithmetic on n_start/n_loopstart.
func (p samplePtr) add(n int) samplePtr {
	p.offset += n
	return p
}

func (p samplePtr) at(n int) int8 {
	idx := p.offset + n
	if idx < 0 || idx >= len(p.data) {
		return 0
	}
	return p.data[idx]
}

func (p *samplePtr) set(n int, v int8) {
	if p.empty {
		return
	}
	idx := p.offset + n
	if idx < 0 || idx >= len(p.data) {
		return
	}
	p.data[idx] = v
}

// emptySampleData is the shared silent buffer substituted for any sample
// pointer the loader or replayer would otherwise leave nil, sized to the
// largest loop extension the loader can ever produce.
var emptySampleData = make([]int8, maxSampleLen)

// paulaVoice models one of the four Paula DMA channels: a double-buffered
// sample pointer/length (the "pending" register pair takes effect only once
// the current playback position wraps) plus the running phase/delta used to
// fetch samples at an arbitrary (non-integer) rate.
type paulaVoice struct {
	active bool

	data    samplePtr
	newData samplePtr

	length    int
	newLength int

	pos int

	dVolume float64
	dPanL   float64
	dPanR   float64

	dDelta    float64
	dPhase    float64
	dDeltaMul float64

	dLastDelta    float64
	dLastPhase    float64
	dLastDeltaMul float64
}

// blep holds the ring-buffer correction state for one BLEP stream (either a
// voice's sample-value stream or its volume-step stream).
type blep struct {
	index       int
	samplesLeft int
	buffer      [blepRNS + 1]float64
	lastValue   float64
}

func lerp(x, y, t float64) float64 {
	return x + (y-x)*t
}

// add injects a step discontinuity of the given amplitude at a sub-sample
// offset into the ring buffer, using the minBLEP table to band-limit it.
func (b *blep) add(offset, amplitude float64) {
	f := offset * blepSP

	i := int(f)
	f -= float64(i)

	idx := b.index
	for n := 0; n < blepNS; n++ {
		lo := minblepTable[i]
		hi := minblepTable[i+1]
		b.buffer[idx] += amplitude * lerp(lo, hi, f)
		i += blepSP

		idx = (idx + 1) & blepRNS
	}

	b.samplesLeft = blepNS
}

// volAdd is the simplified form of add used for volume steps, where the
// sub-sample offset is always exactly zero so no interpolation is needed.
func (b *blep) volAdd(amplitude float64) {
	idx := b.index
	tap := 0
	for n := 0; n < blepNS; n++ {
		b.buffer[idx] += amplitude * minblepTable[tap]
		tap += blepSP

		idx = (idx + 1) & blepRNS
	}

	b.samplesLeft = blepNS
}

// run consumes one sample's worth of correction from the ring buffer.
func (b *blep) run(input float64) float64 {
	out := input + b.buffer[b.index]
	b.buffer[b.index] = 0.0

	b.index = (b.index + 1) & blepRNS
	b.samplesLeft--
	return out
}

// paulaStartDMA latches the voice's pending data/length pair and restarts
// its playback position, as if Paula's DMA engine had just begun a new
// fetch cycle for this channel.
func (s *State) paulaStartDMA(ch int) {
	v := &s.paula[ch]

	data := v.newData
	if !data.valid() {
		data = emptySamplePtr()
	}

	length := v.newLength
	if length < 2 {
		length = 2
	}

	v.dPhase = 0.0
	v.pos = 0
	v.data = data
	v.length = length
	v.active = true
}

// paulaSetPeriod converts an Amiga period into a phase increment, caching
// the division result across calls with the same period — the replayer
// reasserts the period every tick even when nothing changed.
func (s *State) paulaSetPeriod(ch int, period int) {
	v := &s.paula[ch]

	var realPeriod int
	switch {
	case period == 0:
		realPeriod = 1 + 65535
	case period < 113:
		realPeriod = 113
	default:
		realPeriod = period
	}

	if realPeriod != s.oldPeriod {
		s.oldPeriod = realPeriod
		s.dOldVoiceDelta = s.dPeriodToDeltaDiv / float64(realPeriod)
		s.dOldVoiceDeltaMul = 1.0 / s.dOldVoiceDelta
	}

	v.dDelta = s.dOldVoiceDelta
	v.dDeltaMul = s.dOldVoiceDeltaMul
	if v.dLastDelta == 0.0 {
		v.dLastDelta = v.dDelta
	}
	if v.dLastDeltaMul == 0.0 {
		v.dLastDeltaMul = v.dDeltaMul
	}
}

// paulaSetVolume maps a 0..64 PT volume to Paula's 0.0..1.0 amplitude scale.
func (s *State) paulaSetVolume(ch int, vol int) {
	vol &= 127
	if vol > 64 {
		vol = 64
	}
	s.paula[ch].dVolume = float64(vol) * (1.0 / 64.0)
}

// paulaSetLength stores a pending length in bytes (the mixer works in
// bytes, not Amiga words).
func (s *State) paulaSetLength(ch int, lengthWords int) {
	s.paula[ch].newLength = lengthWords << 1
}

// paulaSetData stores a pending sample pointer, substituting the shared
// silent buffer for an invalid one.
func (s *State) paulaSetData(ch int, src samplePtr) {
	if !src.valid() {
		src = emptySamplePtr()
	}
	s.paula[ch].newData = src
}
