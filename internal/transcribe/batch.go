package transcribe

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"whisper-transcribe/internal/audio"
	"whisper-transcribe/internal/speech"
)

// Status - итог обработки файла.
type Status string

const (
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Options настраивает пакетную обработку.
type Options struct {
	// ChunkFrames - длина фрагмента в кадрах, 0 - весь файл одним фрагментом.
	ChunkFrames int
	// Convert разрешает конвертацию WAV с другим форматом.
	Convert bool
	// OutputDir - директория для .txt, пусто - рядом с входным файлом.
	OutputDir string
	// SkipExisting пропускает файлы, для которых транскрипция уже есть.
	SkipExisting bool
}

// Result - итог обработки одного файла.
type Result struct {
	Path   string
	Output string
	Status Status
	Stats  Stats
	Err    error
}

// Summary - итоги пакетной обработки.
type Summary struct {
	// Engine - имя движка, выполнившего расшифровку.
	Engine  string
	Results []Result
	Done    int
	Skipped int
	Failed  int
}

// Batch обрабатывает файлы по одному, используя общий движок.
type Batch struct {
	rec      speech.Recognizer
	params   speech.Params
	opts     Options
	log      *slog.Logger
	observer Observer
	driver   *Driver
}

// NewBatch создаёт Batch. observer может быть nil.
func NewBatch(rec speech.Recognizer, params speech.Params, opts Options, log *slog.Logger, observer Observer) *Batch {
	if log == nil {
		log = slog.Default()
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Batch{
		rec:      rec,
		params:   params,
		opts:     opts,
		log:      log,
		observer: observer,
		driver:   NewDriver(log, observer),
	}
}

// Run обрабатывает paths по порядку. Ошибка одного файла не прерывает
// остальные; Run возвращает ошибку только при отмене ctx.
func (b *Batch) Run(ctx context.Context, paths []string) (Summary, error) {
	sum := Summary{Engine: b.rec.Name()}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		res := b.File(ctx, path)
		sum.Results = append(sum.Results, res)
		b.observer.FileDone(res.Status)

		switch res.Status {
		case StatusDone:
			sum.Done++
			b.log.Info("файл обработан", "path", path, "output", res.Output,
				"chunks", res.Stats.Chunks, "segments", res.Stats.Segments, "duration", res.Stats.Duration())
		case StatusSkipped:
			sum.Skipped++
			b.log.Info("файл пропущен", "path", path, "reason", res.Err)
		case StatusFailed:
			sum.Failed++
			b.log.Error("ошибка обработки файла", "path", path, "error", res.Err)
			if errors.Is(res.Err, context.Canceled) || errors.Is(res.Err, context.DeadlineExceeded) {
				return sum, res.Err
			}
		}
	}

	return sum, nil
}

// File обрабатывает один файл.
func (b *Batch) File(ctx context.Context, path string) Result {
	res := Result{Path: path, Output: OutputPath(path, b.opts.OutputDir)}
	b.log.Info("обработка файла", "path", path)

	if !audio.IsSupported(path) {
		return res.fail(fmt.Errorf("%w: %s", audio.ErrUnsupportedContainer, filepath.Ext(path)))
	}

	info, err := os.Stat(path)
	if err != nil {
		return res.fail(err)
	}
	if info.Size() == 0 {
		return res.skip(ErrEmptyInput)
	}

	if b.opts.SkipExisting {
		if _, err := os.Stat(res.Output); err == nil {
			return res.skip(fmt.Errorf("транскрипция уже существует: %s", res.Output))
		}
	}

	file, err := audio.OpenFile(path, b.opts.Convert)
	if err != nil {
		return res.fail(err)
	}
	defer file.Close()

	src, err := audio.Open(file)
	if err != nil {
		return res.fail(err)
	}

	total := src.TotalFrames()
	if total == 0 {
		return res.skip(ErrEmptyInput)
	}
	b.log.Info("длительность аудио", "path", path, "duration", src.Format().Duration(total))

	frames := b.opts.ChunkFrames
	if frames <= 0 {
		frames = int(total)
	}

	if err := b.transcribe(ctx, src, frames, &res); err != nil {
		return res.fail(err)
	}

	b.rec.PrintTimings()
	res.Status = StatusDone
	return res
}

// transcribe создаёт файл результата, пишет заголовок и текст. Файл
// закрывается на любом пути; при ошибке движка частичный текст остаётся.
func (b *Batch) transcribe(ctx context.Context, src *audio.FrameSource, frames int, res *Result) (err error) {
	if dir := filepath.Dir(res.Output); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	out, err := os.Create(res.Output)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	sink := bufio.NewWriter(out)
	if _, err := sink.WriteString(Header(res.Path)); err != nil {
		return err
	}
	if err := sink.Flush(); err != nil {
		return err
	}

	chunks := audio.Chunks(make([]float32, frames), src)
	res.Stats, err = b.driver.Transcribe(ctx, b.rec, b.params, chunks, sink)
	return err
}

// OutputPath возвращает путь .txt для входного файла.
func OutputPath(path, dir string) string {
	out := strings.TrimSuffix(path, filepath.Ext(path)) + ".txt"
	if dir != "" {
		out = filepath.Join(dir, filepath.Base(out))
	}
	return out
}

// Header - первая строка файла транскрипции.
func Header(path string) string {
	return "Transcript of " + path + "\n\n"
}

func (r Result) fail(err error) Result {
	r.Status = StatusFailed
	r.Err = err
	return r
}

func (r Result) skip(err error) Result {
	r.Status = StatusSkipped
	r.Err = err
	return r
}
