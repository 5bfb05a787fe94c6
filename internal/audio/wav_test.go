package audio

import (
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// writeWAV создаёт WAV-файл с синусом 440 Гц заданной длины в кадрах.
func writeWAV(t *testing.T, path string, format Format, frames int) []int {
	t.Helper()

	samples := make([]int, frames*format.Channels)
	for i := 0; i < frames; i++ {
		v := int(math.Sin(2*math.Pi*440*float64(i)/float64(format.SampleRate)) * 16000)
		for ch := 0; ch < format.Channels; ch++ {
			samples[i*format.Channels+ch] = v
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := EncodeWAV(f, format, samples); err != nil {
		t.Fatalf("EncodeWAV: %v", err)
	}
	return samples
}

func TestWAVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sine.wav")
	samples := writeWAV(t, path, Required, 1000)

	file, err := OpenFile(path, false)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer file.Close()

	if file.Format() != Required {
		t.Fatalf("формат %s, ожидался %s", file.Format(), Required)
	}
	if file.Len() != int64(len(samples)*2) {
		t.Errorf("Len = %d, ожидалось %d", file.Len(), len(samples)*2)
	}

	src, err := Open(file)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if src.TotalFrames() != 1000 {
		t.Errorf("TotalFrames = %d", src.TotalFrames())
	}

	for i, want := range samples {
		got, err := src.NextFrame()
		if err != nil {
			t.Fatalf("кадр %d: %v", i, err)
		}
		if got != float32(want)/32768 {
			t.Fatalf("кадр %d = %v, ожидалось %v", i, got, float32(want)/32768)
		}
	}
	if _, err := src.NextFrame(); err != io.EOF {
		t.Errorf("ожидался io.EOF, получено %v", err)
	}
}

func TestWAVFormatMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	writeWAV(t, path, Format{SampleRate: 16000, BitsPerSample: 16, Channels: 2}, 100)

	file, err := OpenFile(path, false)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer file.Close()

	var mismatch *FormatMismatchError
	if _, err := Open(file); !errors.As(err, &mismatch) || mismatch.Field != "Channels" {
		t.Fatalf("ожидалось несовпадение каналов, получено %v", err)
	}
}

func TestWAVTruncatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cut.wav")
	writeWAV(t, path, Required, 100)

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	// Обрезаем посреди последнего кадра.
	if err := os.Truncate(path, info.Size()-1); err != nil {
		t.Fatal(err)
	}

	file, err := OpenFile(path, false)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer file.Close()

	src, err := Open(file)
	if err != nil {
		t.Fatal(err)
	}

	for {
		_, err := src.NextFrame()
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrTruncatedStream) {
			t.Fatalf("ожидалась ErrTruncatedStream, получено %v", err)
		}
		break
	}
}

func TestOpenFileUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.ogg")
	if err := os.WriteFile(path, []byte("OggS"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenFile(path, false); !errors.Is(err, ErrUnsupportedContainer) {
		t.Fatalf("ожидалась ErrUnsupportedContainer, получено %v", err)
	}
	if IsSupported(path) {
		t.Error("IsSupported(.ogg) = true")
	}
	if !IsSupported("a/B.WAV") || !IsSupported("x.mp3") {
		t.Error("IsSupported не узнаёт wav/mp3")
	}
}

func TestOpenFileConvertsWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cd.wav")
	writeWAV(t, path, Format{SampleRate: 32000, BitsPerSample: 16, Channels: 2}, 32000)

	file, err := OpenFile(path, true)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer file.Close()

	if file.Format() != Required {
		t.Fatalf("формат после конвертации %s", file.Format())
	}
	src, err := Open(file)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	// Одна секунда стерео 32 кГц - около 16000 кадров моно.
	if n := src.TotalFrames(); n < 15000 || n > 17000 {
		t.Errorf("TotalFrames = %d, ожидалось около 16000", n)
	}
}

func TestPCM16(t *testing.T) {
	got := PCM16([]float32{0, 0.5, -1, 1, 2, -2})
	want := []int{0, 16384, -32768, 32767, 32767, -32768}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("PCM16[%d] = %d, ожидалось %d", i, got[i], want[i])
		}
	}
}
