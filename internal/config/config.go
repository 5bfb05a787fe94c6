// Package config предоставляет конфигурацию приложения из YAML-файла и окружения.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"whisper-transcribe/internal/audio"
	"whisper-transcribe/internal/speech"
)

// ModelConfig хранит настройки модели распознавания.
type ModelConfig struct {
	// ID - модель из реестра (whisper-base-q5, vosk-ru-small, ...).
	ID string `yaml:"id"`
	// Path - путь к файлу модели, имеет приоритет над ID.
	Path string `yaml:"path,omitempty"`
	// Dir - директория со скачанными моделями.
	Dir string `yaml:"dir"`
}

// DecodeConfig хранит параметры декодирования.
type DecodeConfig struct {
	Strategy        string `yaml:"strategy"`
	Threads         int    `yaml:"threads"`
	Language        string `yaml:"language"`
	Translate       bool   `yaml:"translate"`
	PrintRealtime   bool   `yaml:"print_realtime"`
	PrintProgress   bool   `yaml:"print_progress"`
	PrintTimestamps bool   `yaml:"print_timestamps"`

	// Offset и Duration задают окно внутри каждого фрагмента.
	Offset   time.Duration `yaml:"offset"`
	Duration time.Duration `yaml:"duration"`
}

// AudioConfig хранит настройки нарезки.
type AudioConfig struct {
	// ChunkSeconds - длина фрагмента, 0 - весь файл одним фрагментом.
	ChunkSeconds int `yaml:"chunk_seconds"`
	// Convert разрешает конвертацию WAV с другим форматом в 16kHz mono.
	Convert bool `yaml:"convert"`
}

// OutputConfig хранит настройки записи результата.
type OutputConfig struct {
	Dir          string `yaml:"dir,omitempty"`
	SkipExisting bool   `yaml:"skip_existing"`
}

// LoggingConfig хранит настройки логирования.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config хранит настройки приложения.
type Config struct {
	Engine        string        `yaml:"engine"`
	Model         ModelConfig   `yaml:"model"`
	Decode        DecodeConfig  `yaml:"decode"`
	Audio         AudioConfig   `yaml:"audio"`
	Output        OutputConfig  `yaml:"output"`
	Logging       LoggingConfig `yaml:"logging"`
	Notifications bool          `yaml:"notifications"`
	MetricsFile   string        `yaml:"metrics_file,omitempty"`
}

// Default возвращает конфигурацию по умолчанию.
func Default() *Config {
	return &Config{
		Engine: string(speech.EngineWhisper),
		Model: ModelConfig{
			ID:  "whisper-base-q5",
			Dir: "models",
		},
		Decode: DecodeConfig{
			Strategy:        string(speech.SamplingGreedy),
			Threads:         4,
			Language:        "en",
			PrintRealtime:   true,
			PrintTimestamps: true,
		},
		Audio: AudioConfig{
			ChunkSeconds: audio.ChunkSeconds,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load читает конфигурацию из файла поверх значений по умолчанию.
// Пустой path возвращает значения по умолчанию.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать конфигурацию %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("не удалось разобрать конфигурацию %s: %w", path, err)
	}

	return cfg, nil
}

// Save записывает конфигурацию в файл.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv переопределяет настройки из переменных окружения.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("WHISPER_ENGINE"); v != "" {
		c.Engine = v
	}
	if v := getenv("WHISPER_MODEL"); v != "" {
		c.Model.ID = v
	}
	if v := getenv("WHISPER_MODEL_PATH"); v != "" {
		c.Model.Path = v
	}
	if v := getenv("WHISPER_MODELS_DIR"); v != "" {
		c.Model.Dir = v
	}
	if v := getenv("WHISPER_LANGUAGE"); v != "" {
		c.Decode.Language = v
	}
	if v := getenv("WHISPER_THREADS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("WHISPER_THREADS: %w", err)
		}
		c.Decode.Threads = n
	}
	if v := getenv("WHISPER_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

// Validate проверяет конфигурацию.
func (c *Config) Validate() error {
	var errs []error

	if _, err := speech.ParseEngine(c.Engine); err != nil {
		errs = append(errs, err)
	}
	if _, err := speech.ParseSamplingStrategy(c.Decode.Strategy); err != nil {
		errs = append(errs, err)
	}
	if c.Model.ID == "" && c.Model.Path == "" {
		errs = append(errs, errors.New("не указана модель: model.id или model.path"))
	}
	if c.Decode.Threads < 1 {
		errs = append(errs, fmt.Errorf("decode.threads должен быть >= 1, получено %d", c.Decode.Threads))
	}
	if c.Decode.Offset < 0 || c.Decode.Duration < 0 {
		errs = append(errs, errors.New("decode.offset и decode.duration не могут быть отрицательными"))
	}
	if c.Audio.ChunkSeconds < 0 {
		errs = append(errs, fmt.Errorf("audio.chunk_seconds не может быть отрицательным: %d", c.Audio.ChunkSeconds))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("неизвестный формат логов: %s", c.Logging.Format))
	}

	return errors.Join(errs...)
}

// Params возвращает параметры движка.
func (c *Config) Params() speech.Params {
	return speech.Params{
		Strategy:        speech.SamplingStrategy(c.Decode.Strategy),
		Threads:         c.Decode.Threads,
		PrintRealtime:   c.Decode.PrintRealtime,
		PrintProgress:   c.Decode.PrintProgress,
		PrintTimestamps: c.Decode.PrintTimestamps,
		Translate:       c.Decode.Translate,
		Offset:          c.Decode.Offset,
		Duration:        c.Decode.Duration,
		Language:        c.Decode.Language,
	}
}

// ChunkFrames возвращает длину фрагмента в кадрах, 0 - весь файл.
func (c *Config) ChunkFrames() int {
	return audio.Required.FramesFor(time.Duration(c.Audio.ChunkSeconds) * time.Second)
}

// LogLevel разбирает уровень логирования.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(c.Logging.Level))); err != nil {
		return 0, fmt.Errorf("неизвестный уровень логов: %s", c.Logging.Level)
	}
	return level, nil
}
