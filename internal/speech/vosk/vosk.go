// Package vosk реализует speech.Recognizer через Vosk.
package vosk

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	vosk "github.com/alphacep/vosk-api/go"

	"whisper-transcribe/internal/speech"
)

// 16000 Hz - стандартная частота для speech recognition
const sampleRate = 16000.0

// Recognizer реализует speech.Recognizer через Vosk.
type Recognizer struct {
	mu         sync.Mutex
	model      *vosk.VoskModel
	recognizer *vosk.VoskRecognizer
	segments   []speech.Segment
}

// voskResult структура для парсинга JSON результата от Vosk.
type voskResult struct {
	Text   string     `json:"text"`
	Result []voskWord `json:"result"`
}

type voskWord struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Word  string  `json:"word"`
}

// New создаёт Recognizer из директории модели.
func New(modelPath string) (*Recognizer, error) {
	// Проверяем существование директории модели
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", speech.ErrModelNotFound, modelPath)
	}

	model, err := vosk.NewModel(modelPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", speech.ErrUnableToLoadModel, err)
	}

	rec, err := vosk.NewRecognizer(model, sampleRate)
	if err != nil {
		model.Free()
		return nil, fmt.Errorf("%w: %v", speech.ErrUnableToLoadModel, err)
	}
	// Границы слов нужны для границ сегмента.
	rec.SetWords(1)

	return &Recognizer{
		model:      model,
		recognizer: rec,
	}, nil
}

// Name возвращает название движка.
func (v *Recognizer) Name() string {
	return string(speech.EngineVosk)
}

// Process распознаёт фрагмент. Vosk принимает PCM16, поэтому
// конвертируем float32 -> int16. Стратегия, потоки и перевод Vosk
// не поддерживает и игнорируются.
func (v *Recognizer) Process(p speech.Params, samples []float32) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.recognizer == nil {
		return speech.ErrClosed
	}

	v.segments = v.segments[:0]
	if p.NoContext {
		v.recognizer.Reset()
	}

	samples = window(samples, p.Offset, p.Duration)

	// Конвертируем float32 [-1, 1] в int16 [-32768, 32767]
	pcm16 := make([]byte, len(samples)*2)
	for i, sample := range samples {
		if sample > 1.0 {
			sample = 1.0
		} else if sample < -1.0 {
			sample = -1.0
		}
		val := int16(sample * math.MaxInt16)
		binary.LittleEndian.PutUint16(pcm16[i*2:], uint16(val))
	}

	if v.recognizer.AcceptWaveform(pcm16) < 0 {
		return speech.ErrProcessingFailed
	}

	var result voskResult
	if err := json.Unmarshal([]byte(v.recognizer.FinalResult()), &result); err != nil {
		return fmt.Errorf("%w: %v", speech.ErrProcessingFailed, err)
	}

	if result.Text != "" {
		seg := speech.Segment{Text: " " + result.Text}
		if n := len(result.Result); n > 0 {
			seg.Start = p.Offset + seconds(result.Result[0].Start)
			seg.End = p.Offset + seconds(result.Result[n-1].End)
		}
		v.segments = append(v.segments, seg)
	}
	return nil
}

// SegmentCount возвращает 0 или 1: Vosk отдаёт весь фрагмент одной фразой.
func (v *Recognizer) SegmentCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.segments)
}

// Segment возвращает сегмент с индексом i.
func (v *Recognizer) Segment(i int) speech.Segment {
	v.mu.Lock()
	defer v.mu.Unlock()

	if i < 0 || i >= len(v.segments) {
		return speech.Segment{}
	}
	return v.segments[i]
}

// PrintTimings у Vosk нет статистики.
func (v *Recognizer) PrintTimings() {}

// Close освобождает ресурсы.
func (v *Recognizer) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.recognizer != nil {
		v.recognizer.Free()
		v.recognizer = nil
	}

	if v.model != nil {
		v.model.Free()
		v.model = nil
	}
	return nil
}

// window вырезает из samples отрезок [offset, offset+duration).
func window(samples []float32, offset, duration time.Duration) []float32 {
	start := int(offset.Seconds() * sampleRate)
	if start >= len(samples) {
		return nil
	}
	if start > 0 {
		samples = samples[start:]
	}
	if duration > 0 {
		if n := int(duration.Seconds() * sampleRate); n < len(samples) {
			samples = samples[:n]
		}
	}
	return samples
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
