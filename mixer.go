package pt2go

import "math"

const int16Max = math.MaxInt16

// mixAudio renders n stereo frames into out (interleaved L/R int16),
// accumulating all active voices in double precision, running them through
// the optional LED filter and the always-on low/high-pass pair, then
// dithering and clamping down to 16 bits. When paused it simply emits
// silence, matching the reference replayer's early-out.
func (s *State) mixAudio(out []int16) {
	n := len(out) / 2
	if n == 0 {
		return
	}

	if s.musicPaused {
		for i := range out {
			out[i] = 0
		}
		return
	}

	mixL := s.mixBufL[:n]
	mixR := s.mixBufR[:n]
	for i := range mixL {
		mixL[i] = 0
		mixR[i] = 0
	}

	for vi := range s.paula {
		v := &s.paula[vi]
		if !v.active {
			continue
		}

		bSmp := &s.blep[vi]
		bVol := &s.blepV[vi]

		for j := 0; j < n; j++ {
			dSmp := float64(v.data.at(v.pos)) * (1.0 / 128.0)
			dVol := v.dVolume

			if dSmp != bSmp.lastValue {
				if v.dLastDelta > v.dLastPhase {
					bSmp.add(v.dLastPhase*v.dLastDeltaMul, bSmp.lastValue-dSmp)
				}
				bSmp.lastValue = dSmp
			}

			if dVol != bVol.lastValue {
				bVol.volAdd(bVol.lastValue - dVol)
				bVol.lastValue = dVol
			}

			if bSmp.samplesLeft > 0 {
				dSmp = bSmp.run(dSmp)
			}
			if bVol.samplesLeft > 0 {
				dVol = bVol.run(dVol)
			}

			dSmp *= dVol

			mixL[j] += dSmp * v.dPanL
			mixR[j] += dSmp * v.dPanR

			v.dPhase += v.dDelta
			if v.dPhase >= 1.0 {
				v.dPhase -= 1.0
				v.dLastPhase = v.dPhase
				v.dLastDelta = v.dDelta
				v.dLastDeltaMul = v.dDeltaMul

				v.pos++
				if v.pos >= v.length {
					v.pos = 0
					v.length = v.newLength
					v.data = v.newData
				}
			}
		}
	}

	for i := 0; i < n; i++ {
		dOut := [2]float64{mixL[i], mixR[i]}

		if s.LEDFilterOn {
			dOut = s.filterLo.lowPass(dOut)
			dOut = s.filterLED.apply(dOut)
			dOut = s.filterHi.highPass(dOut)
		} else {
			dOut = s.filterLo.lowPass(dOut)
			dOut = s.filterHi.highPass(dOut)
		}

		// normalize and flip phase (A500/A1200 has an inverted audio signal)
		dOut[0] *= -int16Max / float64(amigaVoices)
		dOut[1] *= -int16Max / float64(amigaVoices)

		dPrng := float64(s.random32()) * (0.5 / math.MaxInt32)
		dOut[0] = (dOut[0] + dPrng) - s.dPrngStateL
		s.dPrngStateL = dPrng
		smp32 := int32(dOut[0])
		smp32 = (smp32 * int32(s.masterVol)) >> 8
		out[i*2] = clampInt16(smp32)

		dPrng = float64(s.random32()) * (0.5 / math.MaxInt32)
		dOut[1] = (dOut[1] + dPrng) - s.dPrngStateR
		s.dPrngStateR = dPrng
		smp32 = int32(dOut[1])
		smp32 = (smp32 * int32(s.masterVol)) >> 8
		out[i*2+1] = clampInt16(smp32)
	}
}

func clampInt16(v int32) int16 {
	if int32(int16(v)) != v {
		return int16(0x7FFF ^ (v >> 31))
	}
	return int16(v)
}
