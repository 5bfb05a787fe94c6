package transcribe

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"whisper-transcribe/internal/audio"
	"whisper-transcribe/internal/speech"
)

// call - один вызов Process.
type call struct {
	noContext bool
	samples   int
}

// fakeRecognizer возвращает по два сегмента на фрагмент и может упасть на
// вызове с номером failAt (считая с 1).
type fakeRecognizer struct {
	calls    []call
	failAt   int
	segments []speech.Segment
	timings  int
	closed   bool
}

func (f *fakeRecognizer) Process(p speech.Params, samples []float32) error {
	f.calls = append(f.calls, call{noContext: p.NoContext, samples: len(samples)})
	n := len(f.calls)
	if f.failAt == n {
		f.segments = nil
		return speech.ErrProcessingFailed
	}
	f.segments = []speech.Segment{
		{Text: fmt.Sprintf(" [%d.a]", n-1), End: time.Second},
		{Text: fmt.Sprintf(" [%d.b]", n-1), Start: time.Second, End: 2 * time.Second},
	}
	return nil
}

func (f *fakeRecognizer) SegmentCount() int            { return len(f.segments) }
func (f *fakeRecognizer) Segment(i int) speech.Segment { return f.segments[i] }
func (f *fakeRecognizer) PrintTimings()                { f.timings++ }
func (f *fakeRecognizer) Close() error                 { f.closed = true; return nil }
func (f *fakeRecognizer) Name() string                 { return "fake" }

func (f *fakeRecognizer) noContextFlags() (flags []bool) {
	for _, c := range f.calls {
		flags = append(flags, c.noContext)
	}
	return flags
}

// countingObserver считает события.
type countingObserver struct {
	chunks int
	files  map[Status]int
}

func (o *countingObserver) ChunkDone(int, time.Duration, int) { o.chunks++ }
func (o *countingObserver) FileDone(s Status) {
	if o.files == nil {
		o.files = map[Status]int{}
	}
	o.files[s]++
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeSilence создаёт WAV заданной длины в нужном формате.
func writeSilence(t *testing.T, path string, format audio.Format, seconds float64) {
	t.Helper()

	frames := int(seconds * float64(format.SampleRate))
	samples := make([]int, frames*format.Channels)
	for i := range samples {
		samples[i] = i % 64
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := audio.EncodeWAV(f, format, samples); err != nil {
		t.Fatal(err)
	}
}

func boolsEqual(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
