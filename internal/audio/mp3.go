package audio

import (
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

// DecodeMP3 декодирует MP3 в 16-битный стерео PCM исходной частоты.
// Результат нужно пропустить через Convert перед Open.
func DecodeMP3(r io.Reader) (Stream, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("ошибка декодирования MP3: %w", err)
	}

	format := Format{
		SampleRate:    d.SampleRate(),
		BitsPerSample: 16,
		Channels:      2,
	}

	return NewStream(d, format, d.Length()), nil
}
