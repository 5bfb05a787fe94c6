// Package whisper реализует speech.Recognizer через whisper.cpp.
package whisper

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	binding "github.com/ggerganov/whisper.cpp/bindings/go"

	"whisper-transcribe/internal/speech"
)

// Recognizer владеет контекстом whisper.cpp.
type Recognizer struct {
	mu  sync.Mutex
	ctx *binding.Context
}

// New загружает модель из файла.
func New(modelPath string) (*Recognizer, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("%w: %s", speech.ErrModelNotFound, modelPath)
	}

	ctx := binding.Whisper_init(modelPath)
	if ctx == nil {
		return nil, fmt.Errorf("%w: %s", speech.ErrUnableToLoadModel, modelPath)
	}

	return &Recognizer{ctx: ctx}, nil
}

// Name возвращает название движка.
func (r *Recognizer) Name() string {
	return string(speech.EngineWhisper)
}

// Process запускает whisper_full над samples.
func (r *Recognizer) Process(p speech.Params, samples []float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ctx == nil {
		return speech.ErrClosed
	}

	params := r.ctx.Whisper_full_default_params(strategy(p.Strategy))
	params.SetPrintRealtime(p.PrintRealtime)
	params.SetPrintProgress(p.PrintProgress)
	params.SetPrintTimestamps(p.PrintTimestamps)
	params.SetTranslate(p.Translate)
	params.SetNoContext(p.NoContext)
	if p.Threads > 0 {
		params.SetThreads(p.Threads)
	}
	params.SetOffset(int(p.Offset.Milliseconds()))
	params.SetDuration(int(p.Duration.Milliseconds()))

	// Устанавливаем язык (для "auto" включится автодетект)
	switch p.Language {
	case "":
	case "auto":
		if err := params.SetLanguage(-1); err != nil {
			return err
		}
	default:
		id := r.ctx.Whisper_lang_id(p.Language)
		if id < 0 {
			return fmt.Errorf("неподдерживаемый язык: %s", p.Language)
		}
		if err := params.SetLanguage(id); err != nil {
			return err
		}
	}

	if err := r.ctx.Whisper_full(params, samples, nil, nil, nil); err != nil {
		return fmt.Errorf("%w: %v", speech.ErrProcessingFailed, err)
	}
	return nil
}

// SegmentCount возвращает количество сегментов последнего вызова.
func (r *Recognizer) SegmentCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ctx == nil {
		return 0
	}
	return r.ctx.Whisper_full_n_segments()
}

// Segment возвращает текст и границы сегмента.
func (r *Recognizer) Segment(i int) speech.Segment {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ctx == nil {
		return speech.Segment{}
	}

	// t0/t1 в сотых долях секунды
	return speech.Segment{
		Text:  r.ctx.Whisper_full_get_segment_text(i),
		Start: time.Duration(r.ctx.Whisper_full_get_segment_t0(i)) * 10 * time.Millisecond,
		End:   time.Duration(r.ctx.Whisper_full_get_segment_t1(i)) * 10 * time.Millisecond,
	}
}

// PrintTimings выводит статистику whisper.cpp в stderr.
func (r *Recognizer) PrintTimings() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ctx != nil {
		r.ctx.Whisper_print_timings()
	}
}

// Close освобождает контекст.
func (r *Recognizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ctx != nil {
		r.ctx.Whisper_free()
		r.ctx = nil
	}
	return nil
}

// SystemInfo возвращает описание сборки whisper.cpp (SIMD, BLAS и т.п.).
func SystemInfo() string {
	return strings.TrimSpace(binding.Whisper_print_system_info())
}

func strategy(s speech.SamplingStrategy) binding.SamplingStrategy {
	if s == speech.SamplingBeamSearch {
		return binding.SAMPLING_BEAM_SEARCH
	}
	return binding.SAMPLING_GREEDY
}
