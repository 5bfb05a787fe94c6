package transcribe

import (
	"context"
	"errors"
	"iter"
	"strings"
	"testing"

	"whisper-transcribe/internal/audio"
	"whisper-transcribe/internal/speech"
)

// chunksOf выдаёт фрагменты заданных длин, затем err (если задан).
func chunksOf(err error, lengths ...int) iter.Seq2[audio.Chunk, error] {
	return func(yield func(audio.Chunk, error) bool) {
		for i, n := range lengths {
			if !yield(audio.Chunk{Index: i, Samples: make([]float32, n)}, nil) {
				return
			}
		}
		if err != nil {
			yield(audio.Chunk{}, err)
		}
	}
}

// flushCounter считает вызовы Flush.
type flushCounter struct {
	strings.Builder
	flushes int
}

func (f *flushCounter) Flush() error {
	f.flushes++
	return nil
}

func TestDriverContextResetOnlyFirstChunk(t *testing.T) {
	rec := &fakeRecognizer{}
	obs := &countingObserver{}
	sink := &flushCounter{}

	stats, err := NewDriver(discardLogger(), obs).Transcribe(context.Background(), rec, speech.Params{NoContext: true}, chunksOf(nil, 4, 4, 2), sink)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}

	if want := []bool{true, false, false}; !boolsEqual(rec.noContextFlags(), want) {
		t.Errorf("флаги сброса контекста %v, ожидалось %v", rec.noContextFlags(), want)
	}
	for i, n := range []int{4, 4, 2} {
		if rec.calls[i].samples != n {
			t.Errorf("вызов %d: %d сэмплов, ожидалось %d", i, rec.calls[i].samples, n)
		}
	}

	if got, want := sink.String(), " [0.a] [0.b] [1.a] [1.b] [2.a] [2.b]"; got != want {
		t.Errorf("результат %q, ожидалось %q", got, want)
	}
	if sink.flushes != 3 {
		t.Errorf("Flush вызван %d раз, ожидалось 3", sink.flushes)
	}
	if stats.Chunks != 3 || stats.Frames != 10 || stats.Segments != 6 {
		t.Errorf("статистика %+v", stats)
	}
	if obs.chunks != 3 {
		t.Errorf("наблюдатель получил %d фрагментов", obs.chunks)
	}
}

func TestDriverEngineFailure(t *testing.T) {
	rec := &fakeRecognizer{failAt: 2}
	var sink strings.Builder

	stats, err := NewDriver(discardLogger(), nil).Transcribe(context.Background(), rec, speech.Params{}, chunksOf(nil, 4, 4, 4), &sink)
	if !errors.Is(err, ErrEngineInvocationFailed) {
		t.Fatalf("ожидалась ErrEngineInvocationFailed, получено %v", err)
	}
	if !errors.Is(err, speech.ErrProcessingFailed) {
		t.Errorf("исходная ошибка движка потеряна: %v", err)
	}
	if len(rec.calls) != 2 {
		t.Errorf("движок вызван %d раз, повторов быть не должно", len(rec.calls))
	}
	if got := sink.String(); got != " [0.a] [0.b]" {
		t.Errorf("частичный результат %q", got)
	}
	if stats.Chunks != 1 {
		t.Errorf("статистика %+v", stats)
	}
}

func TestDriverSourceError(t *testing.T) {
	rec := &fakeRecognizer{}
	var sink strings.Builder

	_, err := NewDriver(discardLogger(), nil).Transcribe(context.Background(), rec, speech.Params{}, chunksOf(audio.ErrTruncatedStream, 4), &sink)
	if !errors.Is(err, audio.ErrTruncatedStream) {
		t.Fatalf("ожидалась ErrTruncatedStream, получено %v", err)
	}
	if len(rec.calls) != 1 {
		t.Errorf("движок вызван %d раз", len(rec.calls))
	}
}

func TestDriverCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := &fakeRecognizer{}
	var sink strings.Builder
	_, err := NewDriver(discardLogger(), nil).Transcribe(ctx, rec, speech.Params{}, chunksOf(nil, 4), &sink)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("ожидалась context.Canceled, получено %v", err)
	}
	if len(rec.calls) != 0 {
		t.Errorf("движок вызван после отмены")
	}
}

func TestDriverNoChunks(t *testing.T) {
	rec := &fakeRecognizer{}
	var sink strings.Builder
	stats, err := NewDriver(discardLogger(), nil).Transcribe(context.Background(), rec, speech.Params{}, chunksOf(nil), &sink)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Chunks != 0 || len(rec.calls) != 0 || sink.Len() != 0 {
		t.Errorf("пустая последовательность: %+v, %d вызовов", stats, len(rec.calls))
	}
}
