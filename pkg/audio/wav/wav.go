// Package wav encodes and decodes uncompressed mono 16-bit PCM WAV files.
//
// Only the canonical RIFF/WAVE layout is produced: a 44-byte header followed
// by little-endian sample data. No compression, no metadata chunks.
package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/haivivi/meetscribe/pkg/audio/pcm"
)

const headerSize = 44

// ErrBadFormat is returned by Decode when the input is not a PCM WAV file.
var ErrBadFormat = errors.New("wav: not a PCM WAV file")

// Encode writes samples as a mono 16-bit PCM WAV stream.
func Encode(w io.Writer, samples []int16, sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("wav: invalid sample rate %d", sampleRate)
	}

	const (
		channels      = 1
		bitsPerSample = 16
	)
	dataSize := len(samples) * 2
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	var hdr [headerSize]byte
	copy(hdr[0:4], "RIFF")
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(36+dataSize))
	copy(hdr[8:12], "WAVE")
	copy(hdr[12:16], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:20], 16) // fmt chunk size
	binary.LittleEndian.PutUint16(hdr[20:22], 1)  // PCM
	binary.LittleEndian.PutUint16(hdr[22:24], channels)
	binary.LittleEndian.PutUint32(hdr[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(hdr[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(hdr[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(hdr[34:36], bitsPerSample)
	copy(hdr[36:40], "data")
	binary.LittleEndian.PutUint32(hdr[40:44], uint32(dataSize))

	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("wav: write header: %w", err)
	}
	if _, err := w.Write(pcm.Int16ToBytes(samples)); err != nil {
		return fmt.Errorf("wav: write data: %w", err)
	}
	return nil
}

// WriteFile writes samples to path as a mono 16-bit PCM WAV file.
// I/O errors propagate to the caller; nothing is retried.
func WriteFile(path string, samples []int16, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wav: create %s: %w", path, err)
	}
	if err := Encode(f, samples, sampleRate); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("wav: close %s: %w", path, err)
	}
	return nil
}

// Decode reads a PCM WAV stream and returns its samples and sample rate.
// Multi-channel input is downmixed to mono by channel averaging; only
// 16-bit PCM data is accepted.
func Decode(r io.Reader) ([]int16, int, error) {
	var hdr [12]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, 0, fmt.Errorf("wav: read header: %w", err)
	}
	if string(hdr[0:4]) != "RIFF" || string(hdr[8:12]) != "WAVE" {
		return nil, 0, ErrBadFormat
	}

	var (
		sampleRate    int
		channels      int
		bitsPerSample int
		sawFmt        bool
	)

	// Walk chunks until data; skip anything unknown.
	for {
		var chunk [8]byte
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			return nil, 0, fmt.Errorf("wav: read chunk header: %w", err)
		}
		id := string(chunk[0:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, 0, ErrBadFormat
			}
			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, 0, fmt.Errorf("wav: read fmt chunk: %w", err)
			}
			if binary.LittleEndian.Uint16(body[0:2]) != 1 {
				return nil, 0, ErrBadFormat
			}
			channels = int(binary.LittleEndian.Uint16(body[2:4]))
			sampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(body[14:16]))
			if bitsPerSample != 16 || channels < 1 {
				return nil, 0, ErrBadFormat
			}
			sawFmt = true

		case "data":
			if !sawFmt {
				return nil, 0, ErrBadFormat
			}
			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, 0, fmt.Errorf("wav: read data chunk: %w", err)
			}
			samples := pcm.BytesToInt16(body)
			if channels > 1 {
				samples = pcm.DownmixMono(samples, channels)
			}
			return samples, sampleRate, nil

		default:
			if _, err := io.CopyN(io.Discard, r, int64(size)); err != nil {
				return nil, 0, fmt.Errorf("wav: skip %q chunk: %w", id, err)
			}
		}
	}
}

// ReadFile reads a mono 16-bit PCM WAV file from path.
func ReadFile(path string) ([]int16, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("wav: open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}
