// Package capture предоставляет запись аудио с микрофона.
package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"

	"whisper-transcribe/internal/audio"
)

const (
	// FramesPerBuffer - размер буфера.
	FramesPerBuffer = 1024
	// MinSamples - минимальное количество сэмплов (200ms при 16kHz).
	// Whisper требует минимум 100ms, добавляем запас.
	MinSamples = audio.SampleRate / 5
)

// Recorder записывает аудио с микрофона в формате 16kHz mono.
type Recorder struct {
	mu     sync.Mutex
	buffer []float32
}

// New инициализирует PortAudio и создаёт Recorder.
func New() (*Recorder, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("не удалось инициализировать PortAudio: %w", err)
	}

	return &Recorder{
		buffer: make([]float32, FramesPerBuffer),
	}, nil
}

// Record записывает не больше max аудио. Отмена ctx завершает запись
// досрочно и возвращает уже записанное.
func (r *Recorder) Record(ctx context.Context, max time.Duration) ([]float32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stream, err := portaudio.OpenDefaultStream(
		audio.Channels,   // input channels
		0,                // output channels
		audio.SampleRate, // sample rate
		FramesPerBuffer,  // frames per buffer
		r.buffer,         // buffer
	)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть поток: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, fmt.Errorf("не удалось начать запись: %w", err)
	}
	defer stream.Stop()

	limit := audio.Required.FramesFor(max)
	samples := make([]float32, 0, limit+FramesPerBuffer)

	for len(samples) < limit && ctx.Err() == nil {
		if err := stream.Read(); err != nil {
			// Переполнение входа теряет один буфер, запись продолжается
			if errors.Is(err, portaudio.InputOverflowed) {
				continue
			}
			return nil, fmt.Errorf("ошибка чтения с микрофона: %w", err)
		}
		samples = append(samples, r.buffer...)
	}

	return fit(samples, limit), nil
}

// Close освобождает ресурсы.
func (r *Recorder) Close() error {
	return portaudio.Terminate()
}

// fit обрезает запись до limit сэмплов и дополняет тишиной до MinSamples.
func fit(samples []float32, limit int) []float32 {
	if len(samples) > limit {
		samples = samples[:limit]
	}
	if len(samples) < MinSamples {
		samples = append(samples, make([]float32, MinSamples-len(samples))...)
	}
	return samples
}

// WriteWAV сохраняет запись в WAV 16kHz/16bit/mono.
func WriteWAV(path string, samples []float32) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return audio.EncodeWAV(f, audio.Required, audio.PCM16(samples))
}
