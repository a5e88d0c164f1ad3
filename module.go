package pt2go

import "fmt"

const (
	numSamples     = 31
	sampleHeaderSz = 30
	titleSz        = 20
	patternBytes   = 1024
)

// Sample is one of a module's 31 instrument slots. Data is a signed 8-bit
// copy of the sample's region of the raw module bytes, owned by the Module;
// every channel playing this slot shares that one slice, so the funk and
// Karplus-Strong effects, which mutate sample data in place, are heard on
// all of them. The caller's byte buffer does not see those mutations.
type Sample struct {
	Name      string
	Length    int // bytes
	FineTune  int // 0..15, signed nibble (0 == finetune 0, 8 == finetune -8, wraps like an int4)
	Volume    int // 0..64
	LoopStart int // bytes, offset from sample start
	LoopLen   int // bytes
	Data      []int8
}

// Module is a parsed 31-sample MOD file: the order list, the raw pattern
// bytes (read directly at tick time, the way the original replayer reads
// SongDataPtr rather than pre-decoding notes), and the 31 samples.
type Module struct {
	Title      string
	Orders     [128]byte
	SongLength int // number of valid entries in Orders
	Patterns   []byte
	NumPatterns int
	Samples    [numSamples]Sample
}

func be16(b []byte) int {
	return int(b[0])<<8 | int(b[1])
}

// ParseModule decodes a 31-sample MOD file, applying the same loop
// sanitization the reference replayer's moduleInit performs: a zero loop
// length is forced to 1, a loop that overflows its sample is either
// absorbed by extending the sample (if the result still fits in the
// largest loop PT2 will ever extend to) or discarded, and a sample with no
// loop has its first two bytes zeroed to suppress Paula's DC click.
func ParseModule(data []byte) (*Module, error) {
	if len(data) < titleSz+numSamples*sampleHeaderSz+2+128+4 {
		return nil, ErrTruncatedModule
	}

	sigOff := titleSz + numSamples*sampleHeaderSz + 2 + 128
	sig := string(data[sigOff : sigOff+4])
	switch sig {
	case "M.K.", "M!K!", "FLT4", "4CHN":
	default:
		return nil, fmt.Errorf("%w: got %q", ErrUnrecognizedSignature, sig)
	}

	m := &Module{}
	m.Title = string(data[:titleSz])

	songLenOff := titleSz + numSamples*sampleHeaderSz
	m.SongLength = int(data[songLenOff])
	if m.SongLength > 128 {
		m.SongLength = 128
	}

	orderOff := songLenOff + 2
	copy(m.Orders[:], data[orderOff:orderOff+128])

	patNum := 0
	for i := 0; i < 128; i++ {
		if int(m.Orders[i]) > patNum {
			patNum = int(m.Orders[i])
		}
	}
	patNum++
	m.NumPatterns = patNum

	patternsOff := sigOff + 4
	patternsEnd := patternsOff + patNum*patternBytes
	if patternsEnd > len(data) {
		return nil, ErrTooManyPatterns
	}
	m.Patterns = data[patternsOff:patternsEnd]

	sampleData := data[patternsEnd:]
	cursor := 0
	for i := 0; i < numSamples; i++ {
		hdrOff := titleSz + i*sampleHeaderSz
		name := data[hdrOff : hdrOff+22]
		lengthWords := be16(data[hdrOff+22 : hdrOff+24])
		fineTuneByte := data[hdrOff+24]
		volume := int(data[hdrOff+25])
		loopStartWords := be16(data[hdrOff+26 : hdrOff+28])
		loopLenWords := be16(data[hdrOff+28 : hdrOff+30])

		if loopLenWords == 0 {
			loopLenWords = 1 // fix illegal loop length (e.g. FastTracker II MODs)
		}

		if loopLenWords > 1 && loopStartWords+loopLenWords > lengthWords {
			overflow := (loopStartWords + loopLenWords) - lengthWords
			if lengthWords+overflow <= maxSampleLen/2 {
				lengthWords += overflow
			} else {
				loopStartWords = 0
				loopLenWords = 1
			}
		}

		lengthBytes := lengthWords * 2
		var sampleBytes []byte
		if lengthBytes > 0 {
			end := cursor + lengthBytes
			if end > len(sampleData) {
				end = len(sampleData)
			}
			sampleBytes = sampleData[cursor:end]
			cursor += lengthBytes
		}

		if lengthWords >= 1 && loopStartWords+loopLenWords <= 1 {
			// no loop: silence the first two bytes to suppress Paula's click
			for j := 0; j < 2 && j < len(sampleBytes); j++ {
				sampleBytes[j] = 0
			}
		}

		sample := Sample{
			Name:      string(name),
			Length:    lengthBytes,
			FineTune:  int(fineTuneByte) & 0xF,
			Volume:    volume,
			LoopStart: loopStartWords * 2,
			LoopLen:   loopLenWords * 2,
			Data:      bytesToInt8(sampleBytes),
		}
		m.Samples[i] = sample
	}

	return m, nil
}

func bytesToInt8(b []byte) []int8 {
	if len(b) == 0 {
		return nil
	}
	out := make([]int8, len(b))
	for i, v := range b {
		out[i] = int8(v)
	}
	return out
}
