// Package audio превращает декодированный PCM-поток в последовательность
// нормализованных кадров и нарезает её на фрагменты фиксированной длины.
package audio

import (
	"fmt"
	"time"
)

const (
	// SampleRate - частота дискретизации (требование Whisper).
	SampleRate = 16000
	// BitsPerSample - разрядность сэмпла.
	BitsPerSample = 16
	// Channels - количество каналов (mono).
	Channels = 1
	// ChunkSeconds - длина фрагмента по умолчанию (окно Whisper).
	ChunkSeconds = 30
)

// Format описывает формат PCM-потока.
type Format struct {
	SampleRate    int
	BitsPerSample int
	Channels      int
}

// Required - единственный формат, который принимает конвейер.
var Required = Format{
	SampleRate:    SampleRate,
	BitsPerSample: BitsPerSample,
	Channels:      Channels,
}

// BlockAlign возвращает размер одного кадра в байтах.
func (f Format) BlockAlign() int {
	return f.Channels * f.BitsPerSample / 8
}

// ByteRate возвращает количество байт в секунде аудио.
func (f Format) ByteRate() int {
	return f.SampleRate * f.BlockAlign()
}

// FramesFor возвращает количество кадров в отрезке длительностью d.
func (f Format) FramesFor(d time.Duration) int {
	return int(int64(f.SampleRate) * int64(d) / int64(time.Second))
}

// Duration возвращает длительность указанного количества кадров.
func (f Format) Duration(frames int64) time.Duration {
	if f.SampleRate == 0 {
		return 0
	}
	return time.Duration(frames) * time.Second / time.Duration(f.SampleRate)
}

// String возвращает формат в виде "16000Hz/16bit/1ch".
func (f Format) String() string {
	return fmt.Sprintf("%dHz/%dbit/%dch", f.SampleRate, f.BitsPerSample, f.Channels)
}

// Check сверяет формат с want. Поля проверяются по отдельности, чтобы
// в ошибке была точная причина несовпадения.
func (f Format) Check(want Format) error {
	if f.BitsPerSample != want.BitsPerSample {
		return &FormatMismatchError{Field: "BitsPerSample", Got: f.BitsPerSample, Want: want.BitsPerSample}
	}
	if f.SampleRate != want.SampleRate {
		return &FormatMismatchError{Field: "SampleRate", Got: f.SampleRate, Want: want.SampleRate}
	}
	if f.Channels != want.Channels {
		return &FormatMismatchError{Field: "Channels", Got: f.Channels, Want: want.Channels}
	}
	return nil
}
