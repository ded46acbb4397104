// Package media reads track metadata shown on the browser's info screen.
package media

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/wav"

	fsutil "github.com/kk-code-lab/rshell/internal/fs"
)

var (
	// ErrUnsupported is returned for formats or analyses that are not available.
	ErrUnsupported = errors.New("unsupported media")
	// ErrUnknownLength means the container does not declare its length.
	ErrUnknownLength = errors.New("track length unknown")
)

// Prober reports the playing time of a track.
type Prober interface {
	Length(name string) (time.Duration, error)
}

// Analysis is a musical key and tempo estimate.
type Analysis struct {
	Key string
	BPM int
}

// Estimator analyses a track's key and tempo.
type Estimator interface {
	Estimate(name string) (Analysis, error)
}

// BeepProber reads container headers from FS with beep's decoders. Names are
// io/fs paths.
type BeepProber struct {
	FS iofs.FS
}

func (p BeepProber) Length(name string) (time.Duration, error) {
	if p.FS == nil {
		return 0, ErrUnsupported
	}
	f, err := p.FS.Open(name)
	if err != nil {
		return 0, fmt.Errorf("open track: %w", err)
	}
	defer f.Close()

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch fsutil.Extension(name) {
	case "wav":
		streamer, format, err = wav.Decode(f)
	case "mp3":
		streamer, format, err = mp3.Decode(f)
	default:
		return 0, ErrUnsupported
	}
	if err != nil {
		return 0, fmt.Errorf("decode %s: %w", name, err)
	}
	defer streamer.Close()

	samples := streamer.Len()
	if samples <= 0 || format.SampleRate <= 0 {
		return 0, ErrUnknownLength
	}
	return format.SampleRate.D(samples), nil
}

// NoEstimator is used until a key/tempo analyser exists.
type NoEstimator struct{}

func (NoEstimator) Estimate(string) (Analysis, error) {
	return Analysis{}, ErrUnsupported
}

// FormatLength renders a duration as m:ss, or h:mm:ss from one hour up.
func FormatLength(d time.Duration) string {
	total := int(d / time.Second)
	h, m, s := total/3600, (total/60)%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
