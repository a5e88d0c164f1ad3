// Command pt2go plays a 31-sample ProTracker MOD file, either live through
// PortAudio or rendered to a WAVE file.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/gordonklaus/portaudio"
	"github.com/spf13/pflag"

	"github.com/8bitbubsy/pt2go"
	"github.com/8bitbubsy/pt2go/wav"
)

const framesPerBuffer = 2048

func main() {
	var (
		wavOut       = pflag.StringP("wav", "w", "", "render to a WAVE file instead of playing live")
		sampleRate   = pflag.IntP("rate", "r", 48000, "output sample rate in Hz")
		vblankTempo  = pflag.Bool("vblank", false, "use VBLANK timing instead of the CIA timer")
		stereoSep    = pflag.Int("stereo-sep", 20, "stereo separation percentage (0-100)")
		masterVol    = pflag.Int("master-vol", 256, "master volume (0-256)")
		karplus      = pflag.Bool("karplus-strong", false, "enable the E8x Karplus-Strong effect")
		noTremoloBug = pflag.Bool("no-tremolo-bug", false, "disable reproduction of the ramp-tremolo/vibrato-position quirk")
		trace        = pflag.Bool("trace", false, "log the song position and pattern row on every change")
		verbose      = pflag.BoolP("verbose", "v", false, "enable debug logging")
		duration     = pflag.Float64P("duration", "d", 180, "seconds of audio to render to a WAVE file (ignored when playing live)")
	)
	pflag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if pflag.NArg() < 1 {
		logger.Fatal("missing MOD filename", "usage", "pt2go [flags] <file.mod>")
	}

	modBytes, err := os.ReadFile(pflag.Arg(0))
	if err != nil {
		logger.Fatal("reading module", "err", err)
	}

	state := pt2go.NewState(*sampleRate)
	state.EnableKarplusStrong = *karplus
	if *noTremoloBug {
		state.Quirks &^= pt2go.QuirkTremoloRampUsesVibratoPos
	}

	tempoMode := pt2go.CIATempo
	if *vblankTempo {
		tempoMode = pt2go.VBlankTempo
	}

	if !state.PlaySong(modBytes, tempoMode) {
		logger.Fatal("module failed to parse", "file", pflag.Arg(0))
	}
	state.SetStereoSep(*stereoSep)
	state.SetMasterVol(*masterVol)

	logger.Info("loaded module", "file", pflag.Arg(0), "rate", *sampleRate)

	tracer := newRowTracer(logger, *trace)

	if *wavOut == "" {
		playLive(logger, state, *sampleRate, tracer)
	} else {
		renderToWAV(logger, state, *wavOut, *sampleRate, *duration, tracer)
	}
}

// rowTracer logs the song position and pattern row whenever either changes.
// It is polled from the same goroutine that drives FillAudio, so it never
// races the replayer's tick state.
type rowTracer struct {
	logger           *log.Logger
	enabled          bool
	lastPos, lastRow int
}

func newRowTracer(logger *log.Logger, enabled bool) *rowTracer {
	return &rowTracer{logger: logger, enabled: enabled, lastPos: -1, lastRow: -1}
}

func (t *rowTracer) poll(state *pt2go.State) {
	if !t.enabled {
		return
	}
	pos, row := state.SongPosition, state.PatternPos
	if pos != t.lastPos || row != t.lastRow {
		t.logger.Info("row", "order", pos, "row", row/16)
		t.lastPos, t.lastRow = pos, row
	}
}

func playLive(logger *log.Logger, state *pt2go.State, sampleRate int, tracer *rowTracer) {
	if err := portaudio.Initialize(); err != nil {
		logger.Fatal("portaudio init", "err", err)
	}
	defer portaudio.Terminate()

	callback := func(out []int16) {
		state.FillAudio(out, len(out)/2)
		tracer.poll(state)
	}

	stream, err := portaudio.OpenDefaultStream(0, 2, float64(sampleRate), framesPerBuffer, callback)
	if err != nil {
		logger.Fatal("opening audio stream", "err", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		logger.Fatal("starting audio stream", "err", err)
	}
	defer stream.Stop()

	logger.Info("playing, press enter to stop")
	fmt.Scanln()
}

// renderToWAV renders a fixed duration of audio, since a hardware-accurate
// replayer has no "song ended" signal of its own: a module that loops
// (position-jumps back on itself) would otherwise never stop.
func renderToWAV(logger *log.Logger, state *pt2go.State, path string, sampleRate int, seconds float64, tracer *rowTracer) {
	f, err := os.Create(path)
	if err != nil {
		logger.Fatal("creating wav file", "err", err)
	}
	defer f.Close()

	w, err := wav.NewWriter(f, sampleRate)
	if err != nil {
		logger.Fatal("writing wav header", "err", err)
	}

	buf := make([]int16, framesPerBuffer*2)
	left := make([]int16, framesPerBuffer)
	right := make([]int16, framesPerBuffer)

	framesLeft := int(seconds * float64(sampleRate))
	for framesLeft > 0 {
		n := framesPerBuffer
		if n > framesLeft {
			n = framesLeft
		}

		state.FillAudio(buf[:n*2], n)
		tracer.poll(state)
		for i := 0; i < n; i++ {
			left[i] = buf[i*2]
			right[i] = buf[i*2+1]
		}
		if err := w.WriteFrame([][]int16{left[:n], right[:n]}); err != nil {
			logger.Fatal("writing wav frame", "err", err)
		}

		framesLeft -= n
	}

	if _, err := w.Finish(); err != nil {
		logger.Fatal("finalizing wav file", "err", err)
	}
	logger.Info("wrote wav file", "path", path)
}
