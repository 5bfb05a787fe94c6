// Package speech предоставляет абстракцию для движков распознавания речи.
package speech

import (
	"errors"
	"fmt"
	"time"
)

// Engine тип движка распознавания.
type Engine string

const (
	// EngineWhisper - whisper.cpp движок.
	EngineWhisper Engine = "whisper"
	// EngineVosk - Vosk движок.
	EngineVosk Engine = "vosk"
)

// ParseEngine разбирает имя движка из конфигурации.
func ParseEngine(s string) (Engine, error) {
	switch Engine(s) {
	case EngineWhisper, EngineVosk:
		return Engine(s), nil
	default:
		return "", fmt.Errorf("неизвестный движок: %s", s)
	}
}

// SamplingStrategy стратегия декодирования.
type SamplingStrategy string

const (
	// SamplingGreedy - жадное декодирование.
	SamplingGreedy SamplingStrategy = "greedy"
	// SamplingBeamSearch - лучевой поиск.
	SamplingBeamSearch SamplingStrategy = "beam"
)

// ParseSamplingStrategy разбирает стратегию из конфигурации.
func ParseSamplingStrategy(s string) (SamplingStrategy, error) {
	switch SamplingStrategy(s) {
	case SamplingGreedy, SamplingBeamSearch:
		return SamplingStrategy(s), nil
	default:
		return "", fmt.Errorf("неизвестная стратегия декодирования: %s", s)
	}
}

var (
	// ErrModelNotFound - файл или директория модели отсутствует.
	ErrModelNotFound = errors.New("модель не найдена")
	// ErrUnableToLoadModel - движок не смог загрузить модель.
	ErrUnableToLoadModel = errors.New("не удалось загрузить модель")
	// ErrProcessingFailed - движок вернул ошибку при распознавании.
	ErrProcessingFailed = errors.New("ошибка распознавания")
	// ErrClosed - движок уже закрыт.
	ErrClosed = errors.New("движок закрыт")
)

// Params - параметры одного вызова распознавания.
type Params struct {
	Strategy        SamplingStrategy
	Threads         int
	PrintRealtime   bool
	PrintProgress   bool
	PrintTimestamps bool
	Translate       bool
	// Offset - смещение начала распознавания внутри фрагмента.
	Offset time.Duration
	// Duration ограничивает длину распознаваемого отрезка, 0 - без ограничения.
	Duration time.Duration
	// Language - код языка ("en", "ru") или "auto", пустая строка - по умолчанию модели.
	Language string
	// NoContext отбрасывает контекст предыдущего вызова.
	NoContext bool
}

// Segment - распознанный отрезок текста.
type Segment struct {
	Text  string
	Start time.Duration
	End   time.Duration
}

// Recognizer - интерфейс для движков распознавания речи.
//
// Вызовы не потокобезопасны относительно друг друга: Segment и
// SegmentCount описывают результат последнего Process.
type Recognizer interface {
	// Process распознаёт samples (float32, 16kHz, mono). Блокирует до конца
	// декодирования.
	Process(params Params, samples []float32) error

	// SegmentCount возвращает количество сегментов последнего Process.
	SegmentCount() int

	// Segment возвращает сегмент с индексом i.
	Segment(i int) Segment

	// PrintTimings выводит статистику производительности движка.
	PrintTimings()

	// Close освобождает ресурсы движка.
	Close() error

	// Name возвращает название движка (для логирования).
	Name() string
}
