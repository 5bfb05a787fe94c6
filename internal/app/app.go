// Package app связывает конфигурацию, модели и пакетную расшифровку.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"whisper-transcribe/internal/audio"
	"whisper-transcribe/internal/config"
	"whisper-transcribe/internal/metrics"
	"whisper-transcribe/internal/models"
	"whisper-transcribe/internal/notify"
	"whisper-transcribe/internal/speech"
	"whisper-transcribe/internal/transcribe"
)

// ErrBatchFailed - хотя бы один файл не удалось расшифровать.
var ErrBatchFailed = errors.New("не все файлы расшифрованы")

// App представляет приложение.
type App struct {
	config   *config.Config
	log      *slog.Logger
	models   *models.Manager
	factory  *Factory
	notifier *notify.Notifier
	metrics  *metrics.Metrics
	now      func() time.Time
}

// New создаёт приложение.
func New(cfg *config.Config, log *slog.Logger, openers map[speech.Engine]Opener) (*App, error) {
	if log == nil {
		log = slog.Default()
	}

	manager, err := models.NewManager(cfg.Model.Dir, nil)
	if err != nil {
		return nil, err
	}

	return &App{
		config:   cfg,
		log:      log,
		models:   manager,
		factory:  NewFactory(manager, openers),
		notifier: notify.New(cfg.Notifications),
		metrics:  metrics.New(),
		now:      time.Now,
	}, nil
}

// Models возвращает менеджер моделей.
func (a *App) Models() *models.Manager {
	return a.models
}

// Notifier возвращает отправителя уведомлений.
func (a *App) Notifier() *notify.Notifier {
	return a.notifier
}

// Transcribe загружает модель и расшифровывает paths по порядку.
func (a *App) Transcribe(ctx context.Context, paths []string) (transcribe.Summary, error) {
	rec, err := a.factory.Create(a.config)
	if err != nil {
		a.notifier.Error(err.Error())
		return transcribe.Summary{}, err
	}
	defer rec.Close()

	a.log.Info("модель загружена", "engine", rec.Name(), "model", a.modelName())

	opts := transcribe.Options{
		ChunkFrames:  a.config.ChunkFrames(),
		Convert:      a.config.Audio.Convert,
		OutputDir:    a.config.Output.Dir,
		SkipExisting: a.config.Output.SkipExisting,
	}

	batch := transcribe.NewBatch(rec, a.config.Params(), opts, a.log, a.metrics)
	summary, err := batch.Run(ctx, paths)

	a.metrics.Finish(a.now())
	if path := a.config.MetricsFile; path != "" {
		if werr := a.metrics.WriteTextfile(path); werr != nil {
			a.log.Warn("не удалось сохранить метрики", "path", path, "error", werr)
		}
	}

	a.notifier.BatchDone(summary.Done, summary.Skipped, summary.Failed)
	a.log.Info("обработка завершена", "done", summary.Done, "skipped", summary.Skipped, "failed", summary.Failed)

	if err != nil {
		return summary, err
	}
	if summary.Failed > 0 {
		return summary, fmt.Errorf("%w: ошибок %d из %d", ErrBatchFailed, summary.Failed, len(paths))
	}
	return summary, nil
}

func (a *App) modelName() string {
	if a.config.Model.Path != "" {
		return a.config.Model.Path
	}
	return a.config.Model.ID
}

// VerifyResult - итог проверки нарезки одного файла.
type VerifyResult struct {
	Path   string
	Frames int64
	Err    error
}

// Verify сравнивает поток кадров при чтении целиком и фрагментами.
func (a *App) Verify(paths []string) []VerifyResult {
	chunkFrames := a.config.ChunkFrames()
	if chunkFrames == 0 {
		chunkFrames = audio.Required.FramesFor(audio.ChunkSeconds * time.Second)
	}

	results := make([]VerifyResult, 0, len(paths))
	for _, path := range paths {
		frames, err := a.verifyFile(path, chunkFrames)
		if err != nil {
			a.log.Error("проверка нарезки не пройдена", "path", path, "error", err)
		} else {
			a.log.Info("проверка нарезки пройдена", "path", path, "frames", frames)
		}
		results = append(results, VerifyResult{Path: path, Frames: frames, Err: err})
	}
	return results
}

func (a *App) verifyFile(path string, chunkFrames int) (int64, error) {
	whole, err := a.openSource(path)
	if err != nil {
		return 0, err
	}
	defer whole.Close()

	chunked, err := a.openSource(path)
	if err != nil {
		return 0, err
	}
	defer chunked.Close()

	return audio.VerifyChunking(whole.src, chunked.src, chunkFrames)
}

type openedSource struct {
	*audio.File
	src *audio.FrameSource
}

func (a *App) openSource(path string) (*openedSource, error) {
	f, err := audio.OpenFile(path, a.config.Audio.Convert)
	if err != nil {
		return nil, err
	}

	src, err := audio.Open(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &openedSource{File: f, src: src}, nil
}

// DownloadModel скачивает модель из реестра, вызывая onProgress при
// обновлениях (можно nil).
func (a *App) DownloadModel(ctx context.Context, id string, onProgress func(models.Progress)) error {
	info, ok := models.GetModel(id)
	if !ok {
		return fmt.Errorf("%w: %s", models.ErrUnknownModel, id)
	}

	progress := make(chan models.Progress, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for p := range progress {
			if onProgress != nil {
				onProgress(p)
			}
		}
	}()

	a.log.Info("скачивание модели", "model", info.ID, "url", info.URL)
	err := a.models.Download(ctx, info, progress)
	close(progress)
	<-done

	if err != nil {
		return fmt.Errorf("не удалось скачать %s: %w", info.ID, err)
	}

	a.notifier.ModelReady(info.Name)
	a.log.Info("модель скачана", "model", info.ID, "path", a.models.GetModelPath(info))
	return nil
}
