package pt2go

import "math"

// rcFilter is a one-pole RC filter, used in both low-pass and high-pass
// configuration (high-pass is computed as input minus the low-pass output).
// Coefficients are derived once from the component values of the emulated
// circuit via calcRCFilterCoeffs.
type rcFilter struct {
	buffer [2]float64 // per-channel state
	c, c2  float64
	g, cg  float64
}

func calcRCFilterCoeffs(sampleRate, hz float64) rcFilter {
	var f rcFilter
	f.c = math.Tan((math.Pi * hz) / sampleRate)
	f.c2 = f.c * 2.0
	f.g = 1.0 / (1.0 + f.c)
	f.cg = f.c * f.g
	return f
}

func (f *rcFilter) clear() {
	f.buffer[0] = 0.0
	f.buffer[1] = 0.0
}

// lowpassOutput implements the shared low-pass transfer function; input1 is
// always zero for a pure low-pass and is only non-zero conceptually in the
// high-pass derivation, kept separate to mirror the reference's signature.
func (f *rcFilter) lowpassOutput(input0, input1, buffer float64) float64 {
	return buffer*f.g + input0*f.cg + input1*(1.0-f.cg)
}

func (f *rcFilter) lowPass(in [2]float64) (out [2]float64) {
	output := f.lowpassOutput(in[0], 0.0, f.buffer[0])
	f.buffer[0] += (in[0] - output) * f.c2
	out[0] = output

	output = f.lowpassOutput(in[1], 0.0, f.buffer[1])
	f.buffer[1] += (in[1] - output) * f.c2
	out[1] = output

	return out
}

func (f *rcFilter) highPass(in [2]float64) (out [2]float64) {
	low := f.lowPass(in)
	out[0] = in[0] - low[0]
	out[1] = in[1] - low[1]
	return out
}

// ledFilter is the Amiga A500/A1200 two-pole Sallen-Key "LED" filter,
// toggled on/off by the E0x command. Coefficients include a sigmoid-shaped
// feedback term and a small dirty-compensation factor, following the
// construction posted by mystran on the kvraudio.com forum that the
// reference replayer itself credits.
type ledFilter struct {
	buffer [4]float64
	c      float64
	ci     float64
	fb     float64
	bg     float64
	cg     float64
	c2     float64
}

func sigmoid(x, coefficient float64) float64 {
	return x / (x + coefficient) * (coefficient + 1.0)
}

func calcLEDFilterCoeffs(sampleRate, hz, fb float64) ledFilter {
	var f ledFilter

	c := 1.0
	if hz < sampleRate/2.0 {
		c = math.Tan((math.Pi * hz) / sampleRate)
	}
	g := 1.0 / (1.0 + c)

	const s, t = 0.5, 0.5
	ic := 1.0
	if c > t {
		ic = 1.0 / ((1.0 - s*t) + s*c)
	}
	cg := c * g
	fbg := 1.0 / (1.0 + fb*cg*cg)

	f.c = c
	f.ci = g
	f.fb = 2.0 * sigmoid(fb, 0.5)
	f.bg = fbg * f.fb * ic
	f.cg = cg
	f.c2 = c * 2.0
	return f
}

func (f *ledFilter) clear() {
	f.buffer = [4]float64{}
}

func (f *ledFilter) apply(in [2]float64) (out [2]float64) {
	const in1 = denormalOffset
	const in2 = denormalOffset

	c, g, cg, bg, c2 := f.c, f.ci, f.cg, f.bg, f.c2
	v := &f.buffer

	estimateL := in2 + g*(v[1]+c*(in1+g*(v[0]+c*in[0])))
	y0L := v[0]*g + in[0]*cg + in1 + estimateL*bg
	y1L := v[1]*g + y0L*cg + in2

	v[0] += c2 * (in[0] - y0L)
	v[1] += c2 * (y0L - y1L)
	out[0] = y1L

	estimateR := in2 + g*(v[3]+c*(in1+g*(v[2]+c*in[1])))
	y0R := v[2]*g + in[1]*cg + in1 + estimateR*bg
	y1R := v[3]*g + y0R*cg + in2

	v[2] += c2 * (in[1] - y0R)
	v[3] += c2 * (y0R - y1R)
	out[1] = y1R

	return out
}
