// Command render plays a patch offline and writes the output to a WAV file.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/user-none/chlorsnd/emu"
	"github.com/user-none/chlorsnd/patch"
	"github.com/user-none/chlorsnd/pcm"
)

func main() {
	patchPath := flag.String("patch", "", "path to Lua patch script (required)")
	outPath := flag.String("out", "out.wav", "output WAV path")
	seconds := flag.Float64("seconds", 5, "length to render")
	rate := flag.Int("rate", emu.SampleRate, "output sample rate written to the WAV header")
	retrigger := flag.Float64("retrigger", 0, "retrigger all channels every N seconds, rounded to whole periods (0 = never)")
	flag.Parse()

	if *patchPath == "" {
		log.Fatal("Patch path is required. Usage: render -patch <script.lua> [-out out.wav]")
	}
	if *seconds <= 0 {
		log.Fatalf("Invalid length: %v seconds", *seconds)
	}
	if *rate <= 0 {
		log.Fatalf("Invalid rate: %d", *rate)
	}

	chip := emu.New()
	if err := patch.Run(chip, *patchPath); err != nil {
		log.Fatalf("Failed to load patch: %v", err)
	}

	f, err := os.Create(*outPath)
	if err != nil {
		log.Fatalf("Failed to create output: %v", err)
	}
	defer f.Close()

	e := emu.NewEmulator(chip, *rate, emu.DefaultFPS)
	defer e.Close()

	w := pcm.NewWAVWriter(f, *rate)
	total := int(*seconds * float64(*rate))
	every := int(*retrigger * float64(*rate))
	if err := render(e, w, total, every, progress()); err != nil {
		log.Fatalf("Render failed: %v", err)
	}
	if err := w.Close(); err != nil {
		log.Fatalf("Failed to finish output: %v", err)
	}

	log.Printf("Wrote %d frames (%.2fs) to %s", w.Frames(), float64(w.Frames())/float64(*rate), *outPath)
}

// render runs whole periods until total frames are written, trimming the
// last period. every > 0 retriggers all channels on that frame interval,
// quantized to period boundaries: at most one retrigger per period.
func render(e *emu.Emulator, w *pcm.WAVWriter, total, every int, report func(done, total int)) error {
	next := every
	for done := 0; done < total; {
		e.RunFrame()
		samples := e.GetAudioSamples()
		if n := (total - done) * 2; len(samples) > n {
			samples = samples[:n]
		}
		if err := w.Write(samples); err != nil {
			return err
		}
		done += len(samples) / 2

		if every > 0 {
			var due bool
			if due, next = retriggerDue(next, done, every); due {
				e.Retrigger(0xFF)
			}
		}
		report(done, total)
	}
	return nil
}

// retriggerDue reports whether the retrigger at frame next has been
// reached after done frames, and returns the first due frame past done.
func retriggerDue(next, done, every int) (bool, int) {
	if done < next {
		return false, next
	}
	for next <= done {
		next += every
	}
	return true, next
}

// progress returns a reporter that redraws a percentage on stderr when it
// is a terminal, and does nothing otherwise.
func progress() func(done, total int) {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return func(int, int) {}
	}
	last := -1
	return func(done, total int) {
		pct := done * 100 / total
		if pct == last {
			return
		}
		last = pct
		fmt.Fprintf(os.Stderr, "\rrendering %3d%%", pct)
		if done >= total {
			fmt.Fprintln(os.Stderr)
		}
	}
}
