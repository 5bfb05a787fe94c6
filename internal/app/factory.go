package app

import (
	"fmt"

	"whisper-transcribe/internal/config"
	"whisper-transcribe/internal/models"
	"whisper-transcribe/internal/speech"
)

// Opener загружает модель движка из файла или директории.
type Opener func(path string) (speech.Recognizer, error)

// Factory создаёт распознаватели по конфигурации.
type Factory struct {
	manager *models.Manager
	openers map[speech.Engine]Opener
}

// NewFactory создаёт фабрику распознавателей.
func NewFactory(manager *models.Manager, openers map[speech.Engine]Opener) *Factory {
	return &Factory{
		manager: manager,
		openers: openers,
	}
}

// Create создаёт распознаватель. model.path имеет приоритет над model.id,
// движок для model.id берётся из реестра.
func (f *Factory) Create(cfg *config.Config) (speech.Recognizer, error) {
	engine, path, err := f.locate(cfg)
	if err != nil {
		return nil, err
	}

	open, ok := f.openers[engine]
	if !ok {
		return nil, fmt.Errorf("движок %s не поддерживается этой сборкой", engine)
	}

	rec, err := open(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания распознавателя: %w", err)
	}

	return rec, nil
}

func (f *Factory) locate(cfg *config.Config) (speech.Engine, string, error) {
	if cfg.Model.Path != "" {
		engine, err := speech.ParseEngine(cfg.Engine)
		if err != nil {
			return "", "", err
		}
		return engine, cfg.Model.Path, nil
	}

	info, path, err := f.manager.Resolve(cfg.Model.ID)
	if err != nil {
		return "", "", err
	}
	return info.Engine, path, nil
}
