// Package models управляет моделями распознавания речи.
package models

import (
	"fmt"

	"whisper-transcribe/internal/speech"
)

// ModelInfo информация о модели.
type ModelInfo struct {
	ID       string        // Уникальный идентификатор: "whisper-base-en"
	Engine   speech.Engine // Движок: whisper или vosk
	Name     string        // Отображаемое имя: "Base English"
	Filename string        // Имя файла/директории: "ggml-base.en.bin"
	URL      string        // URL для скачивания
	Size     int64         // Размер в байтах (для прогресса)
	IsZip    bool          // Нужно ли распаковывать
}

const hfBase = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/"

// Registry все доступные модели.
var Registry = []ModelInfo{
	// Whisper - квантизированные модели (рекомендуется для CPU)
	{
		ID:       "whisper-tiny-q5",
		Engine:   speech.EngineWhisper,
		Name:     "Tiny Q5",
		Filename: "ggml-tiny-q5_1.bin",
		URL:      hfBase + "ggml-tiny-q5_1.bin",
		Size:     32 * 1024 * 1024,
	},
	{
		ID:       "whisper-base-q5",
		Engine:   speech.EngineWhisper,
		Name:     "Base Q5",
		Filename: "ggml-base-q5_1.bin",
		URL:      hfBase + "ggml-base-q5_1.bin",
		Size:     60 * 1024 * 1024,
	},
	{
		ID:       "whisper-small-q5",
		Engine:   speech.EngineWhisper,
		Name:     "Small Q5",
		Filename: "ggml-small-q5_1.bin",
		URL:      hfBase + "ggml-small-q5_1.bin",
		Size:     190 * 1024 * 1024,
	},
	{
		ID:       "whisper-turbo",
		Engine:   speech.EngineWhisper,
		Name:     "Large v3 Turbo",
		Filename: "ggml-large-v3-turbo-q5_0.bin",
		URL:      hfBase + "ggml-large-v3-turbo-q5_0.bin",
		Size:     574 * 1024 * 1024,
	},
	// Whisper - английские модели
	{
		ID:       "whisper-tiny-en",
		Engine:   speech.EngineWhisper,
		Name:     "Tiny English",
		Filename: "ggml-tiny.en.bin",
		URL:      hfBase + "ggml-tiny.en.bin",
		Size:     75 * 1024 * 1024,
	},
	{
		ID:       "whisper-base-en",
		Engine:   speech.EngineWhisper,
		Name:     "Base English",
		Filename: "ggml-base.en.bin",
		URL:      hfBase + "ggml-base.en.bin",
		Size:     142 * 1024 * 1024,
	},
	// Whisper - оригинальные модели (больше размер, чуть лучше качество)
	{
		ID:       "whisper-base",
		Engine:   speech.EngineWhisper,
		Name:     "Base",
		Filename: "ggml-base.bin",
		URL:      hfBase + "ggml-base.bin",
		Size:     142 * 1024 * 1024,
	},
	{
		ID:       "whisper-small",
		Engine:   speech.EngineWhisper,
		Name:     "Small",
		Filename: "ggml-small.bin",
		URL:      hfBase + "ggml-small.bin",
		Size:     466 * 1024 * 1024,
	},
	// Vosk
	{
		ID:       "vosk-en-small",
		Engine:   speech.EngineVosk,
		Name:     "English Small",
		Filename: "vosk-model-small-en-us-0.15",
		URL:      "https://alphacephei.com/vosk/models/vosk-model-small-en-us-0.15.zip",
		Size:     40 * 1024 * 1024,
		IsZip:    true,
	},
	{
		ID:       "vosk-ru-small",
		Engine:   speech.EngineVosk,
		Name:     "Russian Small",
		Filename: "vosk-model-small-ru-0.22",
		URL:      "https://alphacephei.com/vosk/models/vosk-model-small-ru-0.22.zip",
		Size:     45 * 1024 * 1024,
		IsZip:    true,
	},
	{
		ID:       "vosk-ru",
		Engine:   speech.EngineVosk,
		Name:     "Russian Large",
		Filename: "vosk-model-ru-0.42",
		URL:      "https://alphacephei.com/vosk/models/vosk-model-ru-0.42.zip",
		Size:     1800 * 1024 * 1024,
		IsZip:    true,
	},
}

// GetModel возвращает модель по ID.
func GetModel(id string) (ModelInfo, bool) {
	for _, m := range Registry {
		if m.ID == id {
			return m, true
		}
	}
	return ModelInfo{}, false
}

// EngineName возвращает отображаемое имя движка.
func EngineName(e speech.Engine) string {
	switch e {
	case speech.EngineWhisper:
		return "Whisper"
	case speech.EngineVosk:
		return "Vosk"
	default:
		return string(e)
	}
}

// HumanSize форматирует размер модели.
func HumanSize(size int64) string {
	mb := size / (1024 * 1024)
	if mb >= 1024 {
		return fmt.Sprintf("%.1f GB", float64(mb)/1024)
	}
	return fmt.Sprintf("%d MB", mb)
}
