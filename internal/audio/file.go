package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File - аудиофайл, открытый как Stream. Закрывается через Close.
type File struct {
	Stream
	f *os.File
}

// Close закрывает файл.
func (f *File) Close() error {
	return f.f.Close()
}

// OpenFile открывает WAV или MP3 файл.
//
// MP3 всегда конвертируется в Required. WAV конвертируется только при
// convert == true, иначе несовпадение формата обнаружит Open.
func OpenFile(path string, convert bool) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	stream, err := decodeFile(f, path, convert)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &File{Stream: stream, f: f}, nil
}

func decodeFile(f *os.File, path string, convert bool) (Stream, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav", ".wave":
		stream, err := DecodeWAV(f)
		if err != nil {
			return nil, err
		}
		if !convert || stream.Format() == Required {
			return stream, nil
		}
		return Convert(stream, Required)
	case ".mp3":
		stream, err := DecodeMP3(f)
		if err != nil {
			return nil, err
		}
		return Convert(stream, Required)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedContainer, ext)
	}
}

// IsSupported сообщает, умеет ли OpenFile открывать файл с таким расширением.
func IsSupported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave", ".mp3":
		return true
	}
	return false
}
