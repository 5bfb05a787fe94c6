//go:build ignore

// Скрипт для генерации тестового WAV (синус 440 Гц, 16kHz/16bit/mono).
// Запуск: go run scripts/generate_tone.go [файл] [секунды]
package main

import (
	"log"
	"math"
	"os"
	"strconv"

	"whisper-transcribe/internal/audio"
	"whisper-transcribe/internal/capture"
)

func main() {
	path := "tone.wav"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	seconds := 65
	if len(os.Args) > 2 {
		n, err := strconv.Atoi(os.Args[2])
		if err != nil {
			log.Fatalf("Некорректная длительность %s: %v", os.Args[2], err)
		}
		seconds = n
	}

	samples := make([]float32, seconds*audio.SampleRate)
	for i := range samples {
		samples[i] = float32(0.3 * math.Sin(2*math.Pi*440*float64(i)/audio.SampleRate))
	}

	if err := capture.WriteWAV(path, samples); err != nil {
		log.Fatalf("Не удалось записать %s: %v", path, err)
	}
	log.Printf("Создан %s: %d секунд", path, seconds)
}
