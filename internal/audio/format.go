package audio

import "bytes"

// Container formats recognized from a payload's leading magic bytes.
const (
	FormatWAV  = "wav"
	FormatWebM = "webm"
	FormatPCM  = "pcm"
)

// MinPayloadBytes is the smallest binary payload worth transcribing.
// Anything shorter is treated as noise and dropped without an error.
const MinPayloadBytes = 1000

var (
	riffMagic = []byte("RIFF")
	webmMagic = []byte{0x1a, 0x45, 0xdf, 0xa3}
)

// DetectFormat sniffs the container of an audio payload. Payloads with
// no recognized container signature are assumed to be raw PCM frames.
func DetectFormat(payload []byte) string {
	if len(payload) >= 4 {
		switch {
		case bytes.Equal(payload[:4], riffMagic):
			return FormatWAV
		case bytes.Equal(payload[:4], webmMagic):
			return FormatWebM
		}
	}
	return FormatPCM
}
