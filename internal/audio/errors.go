package audio

import (
	"errors"
	"fmt"
)

var (
	// ErrFormatMismatch - формат потока не совпадает с требуемым.
	ErrFormatMismatch = errors.New("формат аудио не совпадает")
	// ErrTruncatedStream - поток оборвался посреди кадра.
	ErrTruncatedStream = errors.New("неожиданный конец файла")
	// ErrEmptyBuffer - передан буфер нулевой длины.
	ErrEmptyBuffer = errors.New("пустой буфер фрагмента")
	// ErrUnsupportedContainer - расширение файла не поддерживается.
	ErrUnsupportedContainer = errors.New("неподдерживаемый формат файла")
)

// FormatMismatchError уточняет, какое поле формата не совпало.
type FormatMismatchError struct {
	Field string
	Got   int
	Want  int
}

func (e *FormatMismatchError) Error() string {
	return fmt.Sprintf("%s: %s = %d, требуется %d", ErrFormatMismatch, e.Field, e.Got, e.Want)
}

// Is позволяет сравнивать через errors.Is(err, ErrFormatMismatch).
func (e *FormatMismatchError) Is(target error) bool {
	return target == ErrFormatMismatch
}
