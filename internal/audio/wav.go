package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
)

// EncodeWAV wraps raw PCM in a minimal RIFF/WAVE container so it can be
// uploaded to transcription services that reject headerless audio.
func EncodeWAV(pcm []byte, sampleRate, channels int) []byte {
	const bitsPerSample = 16

	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	buf := &bytes.Buffer{}
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}

// WAVFile is a playback sink that writes PCM chunks into a WAV file on
// disk. The header's size fields are patched on Close, once the total
// payload length is known.
type WAVFile struct {
	f          *os.File
	sampleRate int
	channels   int
	written    int
}

// CreateWAVFile opens a WAV sink at path. The header is written up
// front with zero sizes and corrected on Close.
func CreateWAVFile(path string, sampleRate, channels int) (*WAVFile, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create wav file: %w", err)
	}
	if _, err := f.Write(EncodeWAV(nil, sampleRate, channels)); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write wav header: %w", err)
	}
	return &WAVFile{f: f, sampleRate: sampleRate, channels: channels}, nil
}

func (w *WAVFile) Write(p []byte) (int, error) {
	n, err := w.f.Write(p)
	w.written += n
	return n, err
}

// Close patches the RIFF and data chunk sizes, then closes the file.
func (w *WAVFile) Close() error {
	var sizes [4]byte

	binary.LittleEndian.PutUint32(sizes[:], uint32(36+w.written))
	if _, err := w.f.WriteAt(sizes[:], 4); err != nil {
		w.f.Close()
		return fmt.Errorf("failed to patch riff size: %w", err)
	}
	binary.LittleEndian.PutUint32(sizes[:], uint32(w.written))
	if _, err := w.f.WriteAt(sizes[:], 40); err != nil {
		w.f.Close()
		return fmt.Errorf("failed to patch data size: %w", err)
	}

	return w.f.Close()
}
