// Package metrics собирает метрики пакетной расшифровки.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"whisper-transcribe/internal/audio"
	"whisper-transcribe/internal/transcribe"
)

var _ transcribe.Observer = (*Metrics)(nil)

// Metrics хранит метрики одного запуска.
type Metrics struct {
	registry *prometheus.Registry

	ChunksProcessed  prometheus.Counter
	AudioSeconds     prometheus.Counter
	SegmentsProduced prometheus.Counter
	ChunkProcessTime prometheus.Histogram
	FilesProcessed   *prometheus.CounterVec
	LastRun          prometheus.Gauge
}

// New создаёт метрики в собственном реестре.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ChunksProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "whisper_chunks_processed_total",
			Help: "Total number of audio chunks passed to the engine",
		}),
		AudioSeconds: factory.NewCounter(prometheus.CounterOpts{
			Name: "whisper_audio_seconds_total",
			Help: "Total seconds of audio transcribed",
		}),
		SegmentsProduced: factory.NewCounter(prometheus.CounterOpts{
			Name: "whisper_segments_total",
			Help: "Total number of text segments produced",
		}),
		ChunkProcessTime: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "whisper_chunk_duration_seconds",
			Help:    "Engine time spent on one chunk",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~1.5 minutes
		}),
		FilesProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "whisper_files_total",
			Help: "Number of input files by result status",
		}, []string{"status"}),
		LastRun: factory.NewGauge(prometheus.GaugeOpts{
			Name: "whisper_last_run_timestamp_seconds",
			Help: "Unix time of the last finished batch",
		}),
	}
}

// ChunkDone реализует transcribe.Observer.
func (m *Metrics) ChunkDone(frames int, took time.Duration, segments int) {
	m.ChunksProcessed.Inc()
	m.AudioSeconds.Add(audio.Required.Duration(int64(frames)).Seconds())
	m.SegmentsProduced.Add(float64(segments))
	m.ChunkProcessTime.Observe(took.Seconds())
}

// FileDone реализует transcribe.Observer.
func (m *Metrics) FileDone(status transcribe.Status) {
	m.FilesProcessed.WithLabelValues(string(status)).Inc()
}

// Finish отмечает время окончания запуска.
func (m *Metrics) Finish(now time.Time) {
	m.LastRun.Set(float64(now.Unix()))
}

// WriteTextfile сохраняет метрики в формате node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
