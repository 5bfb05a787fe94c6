package audio

import (
	"errors"
	"io"
	"iter"
)

// Chunk - отрезок подряд идущих кадров, который уходит в движок одним вызовом.
//
// Samples ссылается на буфер, переданный в Chunks, и действителен только
// до следующей итерации цикла. Для хранения используйте Clone.
type Chunk struct {
	Index   int
	Samples []float32
}

// Clone возвращает копию фрагмента с собственными данными.
func (c Chunk) Clone() Chunk {
	samples := make([]float32, len(c.Samples))
	copy(samples, c.Samples)
	return Chunk{Index: c.Index, Samples: samples}
}

// Chunks заполняет buf кадрами из src и отдаёт фрагменты по мере заполнения.
//
// Все фрагменты, кроме последнего, имеют длину len(buf). Если поток
// закончился посреди буфера, последний фрагмент содержит только
// прочитанные кадры. Если поток закончился ровно на границе, пустой
// фрагмент не выдаётся. Ошибка источника выдаётся один раз, после чего
// последовательность завершается.
func Chunks(buf []float32, src FrameReader) iter.Seq2[Chunk, error] {
	return func(yield func(Chunk, error) bool) {
		if len(buf) == 0 {
			yield(Chunk{}, ErrEmptyBuffer)
			return
		}

		for index := 0; ; index++ {
			filled := 0
			for filled < len(buf) {
				frame, err := src.NextFrame()
				if errors.Is(err, io.EOF) {
					if filled > 0 {
						yield(Chunk{Index: index, Samples: buf[:filled]}, nil)
					}
					return
				}
				if err != nil {
					yield(Chunk{}, err)
					return
				}
				buf[filled] = frame
				filled++
			}

			if !yield(Chunk{Index: index, Samples: buf}, nil) {
				return
			}
		}
	}
}
