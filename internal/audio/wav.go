package audio

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	bitDepth   = 16
	pcmFormat  = 1
	channels   = 1
	blockFrame = 4096
)

func toPCM16(s float32) int {
	return int(math.Round(float64(s) * math.MaxInt16))
}

// WriteWAV renders d of the engine's mix into a 16-bit mono WAV file.
func WriteWAV(w io.WriteSeeker, e *Engine, d time.Duration) error {
	rate := e.SampleRate()
	remaining := int(d.Seconds() * float64(rate))

	enc := wav.NewEncoder(w, rate, bitDepth, channels, pcmFormat)
	buf := make([]float32, blockFrame)
	ib := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: rate},
		SourceBitDepth: bitDepth,
		Data:           make([]int, blockFrame),
	}

	for remaining > 0 {
		n := min(remaining, blockFrame)
		e.Render(buf[:n])

		ib.Data = ib.Data[:n]
		for i, s := range buf[:n] {
			ib.Data[i] = toPCM16(s)
		}
		if err := enc.Write(ib); err != nil {
			return fmt.Errorf("write wav samples: %w", err)
		}
		remaining -= n
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("close wav encoder: %w", err)
	}
	return nil
}

// StreamWAV writes the live mix to w at real-time pace until ctx ends. The
// RIFF header declares an unbounded length, which browsers accept for
// streamed audio.
func StreamWAV(ctx context.Context, w io.Writer, e *Engine, block time.Duration) error {
	rate := e.SampleRate()
	if err := writeStreamHeader(w, rate); err != nil {
		return fmt.Errorf("write wav header: %w", err)
	}
	flush(w)

	frames := max(1, int(block.Seconds()*float64(rate)))
	buf := make([]float32, frames)
	pcm := make([]byte, frames*2)

	ticker := time.NewTicker(block)
	defer ticker.Stop()

	for {
		e.Render(buf)
		for i, s := range buf {
			binary.LittleEndian.PutUint16(pcm[i*2:], uint16(int16(toPCM16(s))))
		}
		if _, err := w.Write(pcm); err != nil {
			return fmt.Errorf("write wav samples: %w", err)
		}
		flush(w)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func writeStreamHeader(w io.Writer, rate int) error {
	const unbounded = math.MaxUint32
	byteRate := rate * channels * bitDepth / 8

	hdr := make([]byte, 0, 44)
	hdr = append(hdr, "RIFF"...)
	hdr = binary.LittleEndian.AppendUint32(hdr, unbounded)
	hdr = append(hdr, "WAVEfmt "...)
	hdr = binary.LittleEndian.AppendUint32(hdr, 16)
	hdr = binary.LittleEndian.AppendUint16(hdr, pcmFormat)
	hdr = binary.LittleEndian.AppendUint16(hdr, channels)
	hdr = binary.LittleEndian.AppendUint32(hdr, uint32(rate))
	hdr = binary.LittleEndian.AppendUint32(hdr, uint32(byteRate))
	hdr = binary.LittleEndian.AppendUint16(hdr, channels*bitDepth/8)
	hdr = binary.LittleEndian.AppendUint16(hdr, bitDepth)
	hdr = append(hdr, "data"...)
	hdr = binary.LittleEndian.AppendUint32(hdr, unbounded)

	_, err := w.Write(hdr)
	return err
}

func flush(w io.Writer) {
	if f, ok := w.(interface{ Flush() }); ok {
		f.Flush()
	}
}
