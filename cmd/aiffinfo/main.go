// Command aiffinfo prints the metadata of an AIFF or AIFF-C file: its
// sample format, frame count, instrument notes and gain, markers, and
// miscellaneous chunks.
//
// Usage:
//
//	aiffinfo [options] <file>
//
// Options:
//
//	-verbose   Also print each marker and miscellaneous chunk
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"aifflib/aiff"
)

var verbose = flag.Bool("verbose", false, "Show markers and miscellaneous chunks")

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <file>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Prints the metadata of an AIFF or AIFF-C file.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	af, err := aiff.Open(f, nil)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}

	track := af.Track()
	stored := track.Stored

	fmt.Printf("%s: %s\n", path, af.Tag())
	fmt.Printf("  channels:       %d\n", stored.Channels)
	fmt.Printf("  sample rate:    %.0f Hz\n", stored.SampleRate)
	fmt.Printf("  sample width:   %d bits\n", stored.SampleWidth)
	fmt.Printf("  sample format:  %s\n", stored.SampleFormat)
	fmt.Printf("  compression:    %s\n", stored.CompressionType)
	fmt.Printf("  frames:         %d\n", track.NumSampleFrames())

	if stored.SampleRate > 0 {
		dur := time.Duration(float64(track.NumSampleFrames()) / stored.SampleRate * float64(time.Second))
		fmt.Printf("  duration:       %s\n", dur)
	}

	if track.Instrument != nil {
		fmt.Printf("  instrument:     baseNote=%d lowNote=%d highNote=%d gain=%d\n",
			track.Instrument.BaseNote, track.Instrument.LowNote, track.Instrument.HighNote, track.Instrument.Gain)
	}

	if len(track.Markers) > 0 {
		fmt.Printf("  markers:        %d\n", len(track.Markers))
	}
	if len(track.Miscellaneous) > 0 {
		fmt.Printf("  misc chunks:    %d\n", len(track.Miscellaneous))
	}

	if *verbose {
		for _, m := range track.Markers {
			fmt.Printf("    marker %d: %q at frame %d\n", m.ID, m.Name, m.Position)
		}
		for _, m := range track.Miscellaneous {
			fmt.Printf("    misc %d: %s %q\n", m.ID, m.Type, m.Text)
		}
	}

	return nil
}
