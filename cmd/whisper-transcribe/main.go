// Whisper Transcribe - пакетная расшифровка аудиофайлов через whisper.cpp.
//
// Читает WAV (16kHz/16bit/mono) и MP3, режет поток на фрагменты по 30 секунд
// и пишет текст в <имя>.txt рядом с входным файлом. Поддерживает Whisper и Vosk.
package main

import (
	"fmt"
	"os"

	"whisper-transcribe/cmd/whisper-transcribe/commands"
)

// Version устанавливается при сборке через -ldflags.
var Version = "dev"

func main() {
	if err := commands.Execute(Version); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка:", err)
		os.Exit(1)
	}
}
