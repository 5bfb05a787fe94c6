package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	resampling "github.com/tphakala/go-audio-resampling"
)

// Convert приводит 16-битный поток к формату target: сводит каналы в моно
// и меняет частоту дискретизации. Поток читается целиком в память.
func Convert(s Stream, target Format) (Stream, error) {
	src := s.Format()
	if src.BitsPerSample != 16 {
		return nil, &FormatMismatchError{Field: "BitsPerSample", Got: src.BitsPerSample, Want: 16}
	}
	if target.BitsPerSample != 16 || target.Channels != 1 {
		return nil, fmt.Errorf("конвертация поддерживает только 16-битное моно, запрошено %s", target)
	}
	if src.Channels < 1 {
		return nil, &FormatMismatchError{Field: "Channels", Got: src.Channels, Want: target.Channels}
	}
	if src == target {
		return s, nil
	}

	raw, err := io.ReadAll(s)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения исходного аудио: %w", err)
	}

	mono := downmix(raw, src.Channels)

	if src.SampleRate != target.SampleRate {
		rs, err := resampling.New(&resampling.Config{
			InputRate:  float64(src.SampleRate),
			OutputRate: float64(target.SampleRate),
			Channels:   1,
			Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
		})
		if err != nil {
			return nil, fmt.Errorf("не удалось создать ресемплер: %w", err)
		}
		out, err := rs.Process(mono)
		if err != nil {
			return nil, fmt.Errorf("ошибка ресемплинга: %w", err)
		}
		// Фильтр держит задержанные сэмплы, без Flush теряется конец файла.
		tail, err := rs.Flush()
		if err != nil {
			return nil, fmt.Errorf("ошибка ресемплинга: %w", err)
		}
		want := int(math.Round(float64(len(mono)) * float64(target.SampleRate) / float64(src.SampleRate)))
		mono = fitLength(append(out, tail...), want)
	}

	return NewBytesStream(encodePCM16(mono), target), nil
}

// fitLength обрезает или дополняет тишиной результат ресемплинга до
// длительности исходного сигнала.
func fitLength(samples []float64, n int) []float64 {
	if len(samples) >= n {
		return samples[:n]
	}
	return append(samples, make([]float64, n-len(samples))...)
}

// downmix усредняет каналы и возвращает моно в диапазоне [-1, 1].
// Хвост, не кратный кадру, отбрасывается.
func downmix(raw []byte, channels int) []float64 {
	block := channels * 2
	frames := len(raw) / block
	out := make([]float64, frames)

	for i := range frames {
		var sum int32
		for ch := range channels {
			off := i*block + ch*2
			sum += int32(int16(binary.LittleEndian.Uint16(raw[off:])))
		}
		out[i] = float64(sum) / float64(channels) / 32768.0
	}
	return out
}

func encodePCM16(samples []float64) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		sample := int16(s * 32767.0)
		if s > 1.0 {
			sample = 32767
		} else if s < -1.0 {
			sample = -32768
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(sample))
	}
	return out
}
