// Package transcribe подаёт фрагменты аудио в движок распознавания и
// записывает полученный текст.
package transcribe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"time"

	"whisper-transcribe/internal/audio"
	"whisper-transcribe/internal/speech"
)

var (
	// ErrEngineInvocationFailed - движок вернул ошибку на фрагменте.
	ErrEngineInvocationFailed = errors.New("ошибка вызова движка")
	// ErrEmptyInput - входной файл пуст.
	ErrEmptyInput = errors.New("пустой входной файл")
)

// Observer получает события обработки (метрики).
type Observer interface {
	ChunkDone(frames int, took time.Duration, segments int)
	FileDone(status Status)
}

type nopObserver struct{}

func (nopObserver) ChunkDone(int, time.Duration, int) {}
func (nopObserver) FileDone(Status)                   {}

// Stats - итоги обработки одного файла.
type Stats struct {
	Chunks   int
	Frames   int64
	Segments int
}

// Duration возвращает длительность обработанного аудио.
func (s Stats) Duration() time.Duration {
	return audio.Required.Duration(s.Frames)
}

// Driver последовательно отправляет фрагменты в движок.
// Состояния между файлами не хранит.
type Driver struct {
	log      *slog.Logger
	observer Observer
}

// NewDriver создаёт Driver. observer может быть nil.
func NewDriver(log *slog.Logger, observer Observer) *Driver {
	if log == nil {
		log = slog.Default()
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Driver{log: log, observer: observer}
}

// Transcribe распознаёт chunks по порядку и пишет текст сегментов в sink
// сразу после каждого фрагмента. Для фрагмента 0 контекст движка
// сбрасывается, последующие фрагменты продолжают его.
//
// Ошибка движка прерывает обработку; уже записанный текст остаётся в sink.
func (d *Driver) Transcribe(ctx context.Context, rec speech.Recognizer, params speech.Params, chunks iter.Seq2[audio.Chunk, error], sink io.Writer) (Stats, error) {
	var stats Stats

	for chunk, err := range chunks {
		if err != nil {
			return stats, err
		}
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		offset := audio.Required.Duration(stats.Frames)
		d.log.Info("обработка фрагмента", "chunk", chunk.Index, "offset", offset, "frames", len(chunk.Samples))

		params.NoContext = chunk.Index == 0

		start := time.Now()
		if err := rec.Process(params, chunk.Samples); err != nil {
			return stats, fmt.Errorf("%w: фрагмент %d: %w", ErrEngineInvocationFailed, chunk.Index, err)
		}
		took := time.Since(start)

		n := rec.SegmentCount()
		for i := 0; i < n; i++ {
			seg := rec.Segment(i)
			d.log.Debug("сегмент", "chunk", chunk.Index,
				"start", offset+seg.Start, "end", offset+seg.End, "text", seg.Text)

			if _, err := io.WriteString(sink, seg.Text); err != nil {
				return stats, fmt.Errorf("ошибка записи результата: %w", err)
			}
		}
		if f, ok := sink.(interface{ Flush() error }); ok {
			if err := f.Flush(); err != nil {
				return stats, fmt.Errorf("ошибка записи результата: %w", err)
			}
		}

		stats.Chunks++
		stats.Frames += int64(len(chunk.Samples))
		stats.Segments += n
		d.observer.ChunkDone(len(chunk.Samples), took, n)
	}

	return stats, nil
}
