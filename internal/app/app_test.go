package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"whisper-transcribe/internal/audio"
	"whisper-transcribe/internal/config"
	"whisper-transcribe/internal/models"
	"whisper-transcribe/internal/speech"
)

// echoRecognizer возвращает один сегмент с числом сэмплов фрагмента.
type echoRecognizer struct {
	last   int
	closed bool
}

func (r *echoRecognizer) Process(_ speech.Params, samples []float32) error {
	r.last = len(samples)
	return nil
}

func (r *echoRecognizer) SegmentCount() int { return 1 }
func (r *echoRecognizer) Segment(int) speech.Segment {
	return speech.Segment{Text: " " + strings.Repeat("x", r.last/16000)}
}
func (r *echoRecognizer) PrintTimings() {}
func (r *echoRecognizer) Close() error  { r.closed = true; return nil }
func (r *echoRecognizer) Name() string  { return "echo" }

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeWAV(t *testing.T, path string, seconds int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := audio.EncodeWAV(f, audio.Required, make([]int, seconds*audio.SampleRate)); err != nil {
		t.Fatal(err)
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Model.Dir = filepath.Join(dir, "models")
	cfg.Model.Path = filepath.Join(dir, "ggml-test.bin")
	cfg.Audio.ChunkSeconds = 2
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config, rec *echoRecognizer) *App {
	t.Helper()
	openers := map[speech.Engine]Opener{
		speech.EngineWhisper: func(path string) (speech.Recognizer, error) {
			if path != cfg.Model.Path && cfg.Model.Path != "" {
				t.Errorf("открыт %s, ожидался %s", path, cfg.Model.Path)
			}
			return rec, nil
		},
	}
	a, err := New(cfg, discard(), openers)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func TestTranscribe(t *testing.T) {
	cfg := testConfig(t)
	cfg.MetricsFile = filepath.Join(t.TempDir(), "whisper.prom")
	rec := &echoRecognizer{}
	a := newTestApp(t, cfg, rec)

	input := filepath.Join(t.TempDir(), "talk.wav")
	writeWAV(t, input, 5)

	summary, err := a.Transcribe(context.Background(), []string{input})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if summary.Done != 1 || summary.Engine != "echo" {
		t.Fatalf("итоги %+v", summary)
	}
	if !rec.closed {
		t.Error("распознаватель не закрыт")
	}

	data, err := os.ReadFile(strings.TrimSuffix(input, ".wav") + ".txt")
	if err != nil {
		t.Fatal(err)
	}
	// Фрагменты по 2 с: 2 + 2 + 1
	want := "Transcript of " + input + "\n\n xx xx x"
	if string(data) != want {
		t.Errorf("результат %q, ожидалось %q", data, want)
	}

	prom, err := os.ReadFile(cfg.MetricsFile)
	if err != nil {
		t.Fatalf("метрики не записаны: %v", err)
	}
	if !strings.Contains(string(prom), "whisper_chunks_processed_total 3") {
		t.Errorf("метрики:\n%s", prom)
	}
}

func TestTranscribeReportsFailures(t *testing.T) {
	cfg := testConfig(t)
	a := newTestApp(t, cfg, &echoRecognizer{})

	dir := t.TempDir()
	good := filepath.Join(dir, "good.wav")
	writeWAV(t, good, 1)
	missing := filepath.Join(dir, "missing.wav")

	summary, err := a.Transcribe(context.Background(), []string{missing, good})
	if !errors.Is(err, ErrBatchFailed) {
		t.Fatalf("ожидалась ErrBatchFailed, получено %v", err)
	}
	if summary.Done != 1 || summary.Failed != 1 {
		t.Errorf("итоги %+v", summary)
	}
}

func TestTranscribeModelNotDownloaded(t *testing.T) {
	cfg := testConfig(t)
	cfg.Model.Path = ""
	cfg.Model.ID = "whisper-base-en"
	a := newTestApp(t, cfg, &echoRecognizer{})

	summary, err := a.Transcribe(context.Background(), []string{"a.wav"})
	if !errors.Is(err, speech.ErrModelNotFound) {
		t.Fatalf("ожидалась ErrModelNotFound, получено %v", err)
	}
	if summary.Engine != "" {
		t.Errorf("движок %q указан без загруженной модели", summary.Engine)
	}
}

func TestFactoryUsesRegistryEngine(t *testing.T) {
	cfg := testConfig(t)
	cfg.Model.Path = ""
	cfg.Model.ID = "vosk-ru-small"
	// engine в конфигурации игнорируется для моделей из реестра
	cfg.Engine = "whisper"

	manager, err := models.NewManager(cfg.Model.Dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	info, _ := models.GetModel(cfg.Model.ID)
	if err := os.MkdirAll(manager.GetModelPath(info), 0755); err != nil {
		t.Fatal(err)
	}

	var opened string
	f := NewFactory(manager, map[speech.Engine]Opener{
		speech.EngineVosk: func(path string) (speech.Recognizer, error) {
			opened = path
			return &echoRecognizer{}, nil
		},
	})

	if _, err := f.Create(cfg); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if opened != manager.GetModelPath(info) {
		t.Errorf("открыт %q", opened)
	}
}

func TestFactoryErrors(t *testing.T) {
	manager, err := models.NewManager(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}

	failing := errors.New("bad magic")
	f := NewFactory(manager, map[speech.Engine]Opener{
		speech.EngineWhisper: func(string) (speech.Recognizer, error) {
			return nil, failing
		},
	})

	cfg := config.Default()
	cfg.Model.Path = "/models/x.bin"
	if _, err := f.Create(cfg); !errors.Is(err, failing) {
		t.Errorf("ошибка загрузки потеряна: %v", err)
	}

	cfg.Engine = "vosk"
	if _, err := f.Create(cfg); err == nil || !strings.Contains(err.Error(), "не поддерживается") {
		t.Errorf("ожидалась ошибка неподдерживаемого движка, получено %v", err)
	}

	cfg.Model.Path = ""
	cfg.Model.ID = "nope"
	if _, err := f.Create(cfg); !errors.Is(err, models.ErrUnknownModel) {
		t.Errorf("ожидалась ErrUnknownModel, получено %v", err)
	}
}

func TestVerify(t *testing.T) {
	cfg := testConfig(t)
	a := newTestApp(t, cfg, &echoRecognizer{})

	dir := t.TempDir()
	good := filepath.Join(dir, "good.wav")
	writeWAV(t, good, 3)

	results := a.Verify([]string{good, filepath.Join(dir, "missing.wav")})
	if len(results) != 2 {
		t.Fatalf("результатов %d", len(results))
	}
	if results[0].Err != nil || results[0].Frames != 3*16000 {
		t.Errorf("good: %+v", results[0])
	}
	if results[1].Err == nil {
		t.Error("отсутствующий файл прошёл проверку")
	}
	if _, err := os.Stat(cfg.Model.Dir); !os.IsNotExist(err) {
		t.Errorf("verify создал директорию моделей: %v", err)
	}
}

func TestDownloadModelUnknown(t *testing.T) {
	a := newTestApp(t, testConfig(t), &echoRecognizer{})
	if err := a.DownloadModel(context.Background(), "nope", nil); !errors.Is(err, models.ErrUnknownModel) {
		t.Fatalf("ожидалась ErrUnknownModel, получено %v", err)
	}
}
