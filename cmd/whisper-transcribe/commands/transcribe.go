package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"whisper-transcribe/internal/speech"
)

var transcribeFlags struct {
	engine       string
	model        string
	modelPath    string
	language     string
	threads      int
	chunkSeconds int
	outputDir    string
	convert      bool
	skipExisting bool
	translate    bool
}

var transcribeCmd = &cobra.Command{
	Use:   "transcribe FILE...",
	Short: "Расшифровать аудиофайлы",
	Long: `Расшифровывает WAV и MP3 файлы по порядку.

WAV должен быть 16kHz/16bit/mono, иначе файл пропускается с ошибкой формата
(или конвертируется с --convert). MP3 конвертируется всегда. Ошибка одного
файла не прерывает обработку остальных.

Примеры:
  whisper-transcribe transcribe talk.wav
  whisper-transcribe transcribe --chunk-seconds 0 --language auto *.mp3
  whisper-transcribe transcribe --engine vosk --model-path ./vosk-model-small-ru-0.22 call.wav`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		applyTranscribeFlags(cmd)

		a, err := newApp()
		if err != nil {
			return err
		}

		summary, err := a.Transcribe(cmd.Context(), args)
		if summary.Engine == string(speech.EngineWhisper) {
			log.Info("системная информация whisper.cpp", "info", whisperSystemInfo())
		}

		for _, res := range summary.Results {
			fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s -> %s\n", res.Status, res.Path, res.Output)
		}
		return err
	},
}

func init() {
	f := transcribeCmd.Flags()
	f.StringVar(&transcribeFlags.engine, "engine", "", "движок: whisper или vosk (для --model-path)")
	f.StringVarP(&transcribeFlags.model, "model", "m", "", "ID модели из реестра")
	f.StringVar(&transcribeFlags.modelPath, "model-path", "", "путь к файлу или директории модели")
	f.StringVarP(&transcribeFlags.language, "language", "l", "", "язык (en, ru, auto)")
	f.IntVarP(&transcribeFlags.threads, "threads", "t", 0, "число потоков")
	f.IntVar(&transcribeFlags.chunkSeconds, "chunk-seconds", 0, "длина фрагмента в секундах, 0 - весь файл")
	f.StringVarP(&transcribeFlags.outputDir, "output-dir", "o", "", "директория для .txt")
	f.BoolVar(&transcribeFlags.convert, "convert", false, "конвертировать WAV другого формата")
	f.BoolVar(&transcribeFlags.skipExisting, "skip-existing", false, "пропускать файлы с готовой транскрипцией")
	f.BoolVar(&transcribeFlags.translate, "translate", false, "переводить на английский")

	rootCmd.AddCommand(transcribeCmd)
}

// applyTranscribeFlags переносит явно заданные флаги поверх конфигурации.
func applyTranscribeFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	if f.Changed("engine") {
		cfg.Engine = transcribeFlags.engine
	}
	if f.Changed("model") {
		cfg.Model.ID = transcribeFlags.model
		cfg.Model.Path = ""
	}
	if f.Changed("model-path") {
		cfg.Model.Path = transcribeFlags.modelPath
	}
	if f.Changed("language") {
		cfg.Decode.Language = transcribeFlags.language
	}
	if f.Changed("threads") {
		cfg.Decode.Threads = transcribeFlags.threads
	}
	if f.Changed("chunk-seconds") {
		cfg.Audio.ChunkSeconds = transcribeFlags.chunkSeconds
	}
	if f.Changed("output-dir") {
		cfg.Output.Dir = transcribeFlags.outputDir
	}
	if f.Changed("convert") {
		cfg.Audio.Convert = transcribeFlags.convert
	}
	if f.Changed("skip-existing") {
		cfg.Output.SkipExisting = transcribeFlags.skipExisting
	}
	if f.Changed("translate") {
		cfg.Decode.Translate = transcribeFlags.translate
	}
}
