package audio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Stream - декодированный PCM-поток с известным форматом и длиной в байтах.
type Stream interface {
	io.Reader
	Format() Format
	Len() int64
}

// FrameReader отдаёт кадры по одному. io.EOF означает чистый конец потока.
type FrameReader interface {
	NextFrame() (float32, error)
}

// FrameSource читает из Stream нормализованные кадры.
type FrameSource struct {
	r      *bufio.Reader
	format Format
	length int64
	block  []byte
}

// Open проверяет формат потока и создаёт FrameSource.
func Open(s Stream) (*FrameSource, error) {
	format := s.Format()
	if err := format.Check(Required); err != nil {
		return nil, err
	}

	return &FrameSource{
		r:      bufio.NewReaderSize(s, 64*1024),
		format: format,
		length: s.Len(),
		block:  make([]byte, format.BlockAlign()),
	}, nil
}

// Format возвращает формат потока.
func (s *FrameSource) Format() Format {
	return s.format
}

// NextFrame читает один кадр и возвращает его в диапазоне [-1, 1].
// Ноль прочитанных байт на границе кадра даёт io.EOF, неполный кадр -
// ErrTruncatedStream.
func (s *FrameSource) NextFrame() (float32, error) {
	n, err := io.ReadFull(s.r, s.block)
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		return 0, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return 0, fmt.Errorf("%w: прочитано %d из %d байт кадра", ErrTruncatedStream, n, len(s.block))
	default:
		return 0, err
	}

	sample := int16(binary.LittleEndian.Uint16(s.block))
	return float32(sample) / 32768, nil
}

// TotalFrames возвращает длину потока в кадрах.
func (s *FrameSource) TotalFrames() int64 {
	return s.length / int64(s.format.BlockAlign())
}

// pcmStream - Stream поверх произвольного reader с заранее известной длиной.
type pcmStream struct {
	io.Reader
	format Format
	length int64
}

func (s *pcmStream) Format() Format { return s.format }
func (s *pcmStream) Len() int64     { return s.length }

// NewStream оборачивает сырые PCM-данные little-endian в Stream.
func NewStream(r io.Reader, format Format, length int64) Stream {
	return &pcmStream{Reader: r, format: format, length: length}
}

// NewBytesStream создаёт Stream из буфера в памяти.
func NewBytesStream(data []byte, format Format) Stream {
	return NewStream(bytes.NewReader(data), format, int64(len(data)))
}
