package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"

	"github.com/verte-zerg/tuicast/internal/model"
	"github.com/verte-zerg/tuicast/internal/transcript"
)

// ProbeDuration reads the duration in seconds from a WAV file header.
func ProbeDuration(path string) (float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only audio.
			_ = cerr
		}
	}()

	dec := wav.NewDecoder(file)
	if !dec.IsValidFile() {
		return 0, fmt.Errorf("not a valid wav file: %s", path)
	}
	if err := dec.FwdToPCM(); err != nil {
		return 0, fmt.Errorf("failed to find wav data chunk: %w", err)
	}
	bytesPerSec := float64(dec.SampleRate) * float64(dec.NumChans) * float64(dec.BitDepth) / 8
	if bytesPerSec <= 0 {
		return 0, fmt.Errorf("wav header has no sample rate: %s", path)
	}
	return float64(dec.PCMSize) / bytesPerSec, nil
}

// ResolveDuration picks the media length for a record: a probed local WAV, the declared
// duration, or the end of the last caption.
func ResolveDuration(rec model.ModuleRecord, baseDir string) (float64, error) {
	if path, ok := localAudioPath(rec.Content.AudioURL, baseDir); ok && strings.EqualFold(filepath.Ext(path), ".wav") {
		dur, err := ProbeDuration(path)
		if err == nil && dur > 0 {
			return dur, nil
		}
		if err != nil && rec.Content.DurationSeconds <= 0 && len(rec.Content.Captions) == 0 {
			return 0, fmt.Errorf("failed to probe audio: %w", err)
		}
	}
	if rec.Content.DurationSeconds > 0 {
		return rec.Content.DurationSeconds, nil
	}
	return transcript.LastEnd(rec.Content.Captions), nil
}

func localAudioPath(locator, baseDir string) (string, bool) {
	if locator == "" {
		return "", false
	}
	if strings.HasPrefix(locator, "file://") {
		return strings.TrimPrefix(locator, "file://"), true
	}
	if strings.Contains(locator, "://") {
		return "", false
	}
	if filepath.IsAbs(locator) || baseDir == "" {
		return locator, true
	}
	return filepath.Join(baseDir, locator), true
}
