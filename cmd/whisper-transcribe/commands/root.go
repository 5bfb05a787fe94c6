// Package commands содержит команды CLI.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"whisper-transcribe/internal/config"
)

var (
	// Глобальные флаги
	configFile string
	envFile    string
	verbose    bool

	version = "dev"

	cfg *config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "whisper-transcribe",
	Short: "Пакетная расшифровка аудиофайлов",
	Long: `whisper-transcribe - расшифровка WAV и MP3 файлов через whisper.cpp или Vosk.

Каждый входной файл читается фрагментами по 30 секунд (audio.chunk_seconds),
текст пишется в <имя>.txt рядом с файлом или в output.dir.

Настройки читаются из YAML (--config), затем из .env и переменных окружения
WHISPER_*, затем из флагов команды.

Примеры:
  whisper-transcribe models download whisper-base-en
  whisper-transcribe transcribe --model whisper-base-en talk.wav lecture.mp3
  whisper-transcribe verify talk.wav`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
}

// Execute запускает CLI. SIGINT и SIGTERM отменяют текущую обработку.
func Execute(v string) error {
	version = v

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML файл конфигурации")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "файл с переменными окружения")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "подробный вывод (уровень debug)")
}

func setup() error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("не удалось прочитать %s: %w", envFile, err)
	}

	loaded, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if err := loaded.ApplyEnv(os.Getenv); err != nil {
		return err
	}
	cfg = loaded

	log, err = newLogger(cfg, verbose)
	if err != nil {
		return err
	}
	slog.SetDefault(log)
	return nil
}

func newLogger(cfg *config.Config, verbose bool) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
}
