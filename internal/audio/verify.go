package audio

import (
	"errors"
	"fmt"
)

// ErrChunkMismatch - нарезка на фрагменты изменила поток кадров.
var ErrChunkMismatch = errors.New("нарезка изменила поток кадров")

// VerifyChunking читает whole одним буфером на весь поток, chunked - буфером
// в chunkFrames кадров и сравнивает кадры по порядку. Возвращает количество
// сравненных кадров.
func VerifyChunking(whole, chunked *FrameSource, chunkFrames int) (int64, error) {
	reference := make([]float32, 0, whole.TotalFrames())
	if total := whole.TotalFrames(); total > 0 {
		for chunk, err := range Chunks(make([]float32, total), whole) {
			if err != nil {
				return 0, err
			}
			reference = append(reference, chunk.Samples...)
		}
	}

	var pos int64
	for chunk, err := range Chunks(make([]float32, chunkFrames), chunked) {
		if err != nil {
			return pos, err
		}
		for _, frame := range chunk.Samples {
			if pos >= int64(len(reference)) {
				return pos, fmt.Errorf("%w: лишний кадр %d во фрагменте %d", ErrChunkMismatch, pos, chunk.Index)
			}
			if reference[pos] != frame {
				return pos, fmt.Errorf("%w: кадр %d во фрагменте %d: %v != %v",
					ErrChunkMismatch, pos, chunk.Index, frame, reference[pos])
			}
			pos++
		}
	}

	if pos != int64(len(reference)) {
		return pos, fmt.Errorf("%w: получено %d кадров из %d", ErrChunkMismatch, pos, len(reference))
	}
	return pos, nil
}
