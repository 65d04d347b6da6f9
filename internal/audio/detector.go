package audio

import (
	"encoding/binary"
	"math"
	"time"
)

// Capture format shared by the detector and the WAV encoder: 16 kHz
// mono signed 16-bit little-endian PCM, 1024 samples per frame.
const (
	SampleRate     = 16000
	Channels       = 1
	BytesPerSample = 2
	FrameSamples   = 1024
	FrameBytes     = FrameSamples * BytesPerSample
	defaultMargin  = 500 * time.Millisecond
)

// Verdict is the detector's judgement after consuming a frame.
type Verdict int

const (
	// VerdictPending means the utterance is still in progress.
	VerdictPending Verdict = iota
	// VerdictComplete means sustained silence ended the utterance and
	// Utterance() holds meaningful audio.
	VerdictComplete
	// VerdictTooShort means the boundary was reached but the capture is
	// too short to contain speech and should be discarded.
	VerdictTooShort
)

// DetectorConfig tunes the utterance boundary detector.
type DetectorConfig struct {
	// SilenceThreshold is the RMS amplitude (in the int16 sample range)
	// below which a frame counts as silent.
	SilenceThreshold float64
	// SilenceDuration is how long silence must persist before the
	// utterance boundary is declared.
	SilenceDuration time.Duration
}

// Detector consumes a live stream of PCM frames and declares the
// utterance boundary once silence has persisted for the configured
// duration. A capture that never exceeds the silence duration plus a
// small margin is judged too short to transcribe.
type Detector struct {
	threshold      float64
	boundaryFrames int
	minFrames      int

	frames       [][]byte
	silentStreak int
}

// NewDetector creates a detector. Zero config fields fall back to the
// defaults used by the capture loop (threshold 500, 2s of silence).
func NewDetector(cfg DetectorConfig) *Detector {
	if cfg.SilenceThreshold <= 0 {
		cfg.SilenceThreshold = 500
	}
	if cfg.SilenceDuration <= 0 {
		cfg.SilenceDuration = 2 * time.Second
	}

	framesPerSecond := float64(SampleRate) / float64(FrameSamples)
	boundary := int(framesPerSecond * cfg.SilenceDuration.Seconds())
	if boundary < 1 {
		boundary = 1
	}
	minDur := cfg.SilenceDuration + defaultMargin
	minFrames := int(framesPerSecond * minDur.Seconds())

	return &Detector{
		threshold:      cfg.SilenceThreshold,
		boundaryFrames: boundary,
		minFrames:      minFrames,
	}
}

// Feed consumes one frame and returns the detector's verdict. After
// VerdictComplete or VerdictTooShort the caller is expected to collect
// Utterance() if wanted and call Reset before feeding further frames.
func (d *Detector) Feed(frame []byte) Verdict {
	d.frames = append(d.frames, frame)

	if IsSilent(frame, d.threshold) {
		d.silentStreak++
	} else {
		d.silentStreak = 0
	}

	if d.silentStreak <= d.boundaryFrames {
		return VerdictPending
	}

	if len(d.frames) < d.minFrames {
		return VerdictTooShort
	}
	return VerdictComplete
}

// Utterance returns the captured PCM from the first frame through the
// boundary, in arrival order.
func (d *Detector) Utterance() []byte {
	total := 0
	for _, f := range d.frames {
		total += len(f)
	}
	out := make([]byte, 0, total)
	for _, f := range d.frames {
		out = append(out, f...)
	}
	return out
}

// Duration returns the length of the capture so far.
func (d *Detector) Duration() time.Duration {
	samples := 0
	for _, f := range d.frames {
		samples += len(f) / BytesPerSample
	}
	return time.Duration(samples) * time.Second / SampleRate
}

// Reset discards the capture and silence state.
func (d *Detector) Reset() {
	d.frames = nil
	d.silentStreak = 0
}

// IsSilent classifies a PCM frame against an RMS amplitude threshold.
// The energy is computed over normalized samples and scaled back to the
// int16 range. A zero-length frame is silent; an odd trailing byte is
// ignored.
func IsSilent(frame []byte, threshold float64) bool {
	count := len(frame) / BytesPerSample
	if count == 0 {
		return true
	}

	var sumSquares float64
	for i := 0; i < count; i++ {
		sample := int16(binary.LittleEndian.Uint16(frame[i*2 : i*2+2]))
		n := float64(sample) / 32768.0
		sumSquares += n * n
	}

	rms := math.Sqrt(sumSquares/float64(count)) * 32768.0
	return rms < threshold
}
