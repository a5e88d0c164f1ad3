package pt2go

import "math"

// TempoMode selects which hardware timer the replayer simulates for the Fxx
// speed/tempo command: the CIA timer (continuous BPM) or the VBLANK
// interrupt (fixed-rate, speed-only).
type TempoMode int

const (
	CIATempo TempoMode = iota
	VBlankTempo
)

// Quirks is a bitmask of optional bug-for-bug reproductions of ProTracker
// 2.3D's own known replayer quirks. All bits are set by default so that
// playback matches a real Amiga; clearing a bit opts into the "corrected"
// behavior for A/B comparison.
type Quirks uint32

const (
	// QuirkTremoloRampUsesVibratoPos reproduces the original replayer's
	// ramp-waveform tremolo bug, which tests the vibrato position instead
	// of the tremolo position.
	QuirkTremoloRampUsesVibratoPos Quirks = 1 << iota
)

const allQuirks = QuirkTremoloRampUsesVibratoPos

// State is a fully self-contained replayer instance: one module, four
// voices, the tick/row state machine and the mixer's filter/dither state.
// All of its exported control-surface methods are safe to call between
// FillAudio calls but not concurrently with one: a State has no internal
// locking and assumes a single-threaded cooperative caller.
type State struct {
	module *Module

	EnableKarplusStrong bool
	Quirks              Quirks

	audioRate         int
	dPeriodToDeltaDiv float64

	oldPeriod         int
	dOldVoiceDelta    float64
	dOldVoiceDeltaMul float64

	paula [amigaVoices]paulaVoice
	blep  [amigaVoices]blep
	blepV [amigaVoices]blep

	filterLo  rcFilter
	filterHi  rcFilter
	filterLED ledFilter

	LEDFilterOn bool

	stereoSep int
	masterVol int

	randSeed                 int32
	dPrngStateL, dPrngStateR float64

	mixBufL, mixBufR []float64 // scratch accumulation buffers, sized once

	samplesPerTick     int
	samplesPerTickLeft int
	bpmTab             [256 - 32]int

	musicPaused bool
	songPlaying bool

	SongPosition   int
	PatternPos     int
	PattPosOff     int
	PBreakPosition int
	PBreakFlag     bool
	PosJumpAssert  bool
	TempoMode      TempoMode

	PattDelTime  int
	PattDelTime2 int

	SetBPMFlag int
	lowMask    int
	Counter    int
	CurrSpeed  int

	chans [amigaVoices]channel

	sampleCounter uint64
}

// NewState constructs a replayer clamped to a sane sample rate (rates
// below 32kHz would alias the BLEP synthesis; rates above 96kHz gain
// nothing a real Amiga ever produced) and precomputes its BPM table and
// filter coefficients once, up front, the way pt2play_initPlayer does.
func NewState(sampleRate int) *State {
	if sampleRate < 32000 {
		sampleRate = 32000
	} else if sampleRate > 96000 {
		sampleRate = 96000
	}

	s := &State{
		audioRate: sampleRate,
		Quirks:    allQuirks,
	}
	s.dPeriodToDeltaDiv = float64(paulaPALClock) / float64(sampleRate)

	for bpm := 32; bpm <= 255; bpm++ {
		s.bpmTab[bpm-32] = bpm2SmpsPerTick(bpm, sampleRate)
	}

	const (
		lowpassHz  = 1.0 / (2.0 * math.Pi * 360.0 * 1e-7)
		highpassHz = 1.0 / (2.0 * math.Pi * 1390.0 * 2.2e-5)
	)
	s.filterLo = calcRCFilterCoeffs(float64(sampleRate), lowpassHz)
	s.filterHi = calcRCFilterCoeffs(float64(sampleRate), highpassHz)

	r1, r2, c1, c2 := 10000.0, 10000.0, 6.8e-9, 3.9e-9
	ledFc := 1.0 / (2.0 * math.Pi * math.Sqrt(r1*r2*c1*c2))
	s.filterLED = calcLEDFilterCoeffs(float64(sampleRate), ledFc, 0.125)

	s.mixBufL = make([]float64, mixBufSamples)
	s.mixBufR = make([]float64, mixBufSamples)

	return s
}

// bpm2SmpsPerTick reproduces the reference replayer's truncating integer
// arithmetic exactly: ciaVal = trunc(1773447 / bpm), which is not the same
// as first converting to floating point.
func bpm2SmpsPerTick(bpm, audioFreq int) int {
	if bpm == 0 {
		return 0
	}
	ciaVal := 1773447 / bpm
	freqMul := float64(ciaVal) * (1.0 / float64(ciaPALClock))
	return int(float64(audioFreq)*freqMul + 0.5)
}

// PlaySong loads a 31-sample MOD and resets the replayer to the start of
// the song. It returns false on any parse failure, matching the narrow
// boolean error surface of the reference implementation; use ParseModule
// directly when a diagnosable error is wanted.
func (s *State) PlaySong(moduleBytes []byte, tempoMode TempoMode) bool {
	mod, err := ParseModule(moduleBytes)
	if err != nil {
		return false
	}

	s.stereoSep = defaultStereoSep
	s.randSeed = initialDitherSeed
	s.masterVol = defaultMasterVol
	s.musicPaused = true

	s.oldPeriod = -1
	s.sampleCounter = 0
	s.songPlaying = false

	s.module = mod

	for i := range s.chans {
		s.chans[i] = channel{index: i}
	}

	s.paula = [amigaVoices]paulaVoice{}
	s.calculatePans()

	s.blep = [amigaVoices]blep{}
	s.blepV = [amigaVoices]blep{}

	s.filterLo.clear()
	s.filterHi.clear()
	s.filterLED.clear()

	s.resetAudioDithering()

	s.CurrSpeed = 6
	s.Counter = 0
	s.SongPosition = 0
	s.PatternPos = 0
	s.PattDelTime = 0
	s.PattDelTime2 = 0
	s.PBreakPosition = 0
	s.PosJumpAssert = false
	s.PBreakFlag = false
	s.lowMask = 0xFF
	s.TempoMode = tempoMode
	s.songPlaying = true
	s.musicPaused = false
	s.LEDFilterOn = false

	s.setReplayerBPM(125)
	s.musicPaused = false
	return true
}

func (s *State) setReplayerBPM(bpm int) {
	if bpm < 32 {
		return
	}
	s.samplesPerTick = s.bpmTab[bpm-32]
}

// FillAudio renders frames stereo frames (2*frames int16 samples,
// interleaved L/R) into buf, advancing the replayer tick state as needed.
func (s *State) FillAudio(buf []int16, frames int) {
	out := buf
	remaining := frames
	for remaining > 0 {
		if s.samplesPerTickLeft == 0 {
			if !s.musicPaused {
				s.tickReplayer()
			}
			s.samplesPerTickLeft = s.samplesPerTick
		}

		n := remaining
		if n > s.samplesPerTickLeft {
			n = s.samplesPerTickLeft
		}
		if n > mixBufSamples {
			n = mixBufSamples
		}

		s.mixAudio(out[:n*2])
		out = out[n*2:]

		remaining -= n
		s.samplesPerTickLeft -= n
	}

	s.sampleCounter += uint64(frames)
}

func (s *State) SetStereoSep(percentage int) {
	if percentage > 100 {
		percentage = 100
	}
	s.stereoSep = percentage
	s.calculatePans()
}

func (s *State) SetMasterVol(vol int) {
	if vol < 0 {
		vol = 0
	} else if vol > 256 {
		vol = 256
	}
	s.masterVol = vol
}

func (s *State) GetMasterVol() int {
	return s.masterVol
}

func (s *State) GetMixerTicks() uint64 {
	if s.audioRate < 1000 {
		return 0
	}
	return s.sampleCounter / uint64(s.audioRate/1000)
}

func (s *State) PauseSong(flag bool) {
	s.musicPaused = flag
}

func (s *State) TogglePause() {
	s.musicPaused = !s.musicPaused
}
