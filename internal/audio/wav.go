package audio

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

// DecodeWAV читает заголовок WAV и возвращает Stream над чанком данных.
// Формат не проверяется - это делает Open.
func DecodeWAV(r io.ReadSeeker) (Stream, error) {
	d := wav.NewDecoder(r)
	d.ReadInfo()
	if err := d.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения заголовка WAV: %w", err)
	}

	if d.WavAudioFormat != wavFormatPCM && d.WavAudioFormat != wavFormatExtensible {
		return nil, fmt.Errorf("%w: WAV с кодеком %d (поддерживается только PCM)", ErrUnsupportedContainer, d.WavAudioFormat)
	}

	if err := d.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("чанк данных WAV не найден: %w", err)
	}

	format := Format{
		SampleRate:    int(d.SampleRate),
		BitsPerSample: int(d.BitDepth),
		Channels:      int(d.NumChans),
	}
	size := int64(d.PCMSize)

	// Чанк читает из общего reader'а, поэтому ограничиваем его объявленным размером.
	return NewStream(io.LimitReader(d.PCMChunk, size), format, size), nil
}

// EncodeWAV пишет 16-битные сэмплы в WAV-контейнер.
func EncodeWAV(w io.WriteSeeker, format Format, samples []int) error {
	enc := wav.NewEncoder(w, format.SampleRate, format.BitsPerSample, format.Channels, wavFormatPCM)

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: format.Channels,
			SampleRate:  format.SampleRate,
		},
		Data:           samples,
		SourceBitDepth: format.BitsPerSample,
	}

	if err := enc.Write(buf); err != nil {
		enc.Close()
		return fmt.Errorf("ошибка записи WAV: %w", err)
	}
	return enc.Close()
}

// PCM16 переводит float32 [-1, 1] в целые 16-битные сэмплы с ограничением.
func PCM16(samples []float32) []int {
	out := make([]int, len(samples))
	for i, sample := range samples {
		if sample > 1.0 {
			sample = 1.0
		} else if sample < -1.0 {
			sample = -1.0
		}
		v := int(sample * 32768)
		if v > 32767 {
			v = 32767
		}
		out[i] = v
	}
	return out
}
