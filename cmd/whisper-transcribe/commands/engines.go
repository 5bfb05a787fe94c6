package commands

import (
	"whisper-transcribe/internal/app"
	"whisper-transcribe/internal/speech"
	"whisper-transcribe/internal/speech/vosk"
	"whisper-transcribe/internal/speech/whisper"
)

// openers - движки, собранные в бинарник.
var openers = map[speech.Engine]app.Opener{
	speech.EngineWhisper: func(path string) (speech.Recognizer, error) {
		rec, err := whisper.New(path)
		if err != nil {
			return nil, err
		}
		return rec, nil
	},
	speech.EngineVosk: func(path string) (speech.Recognizer, error) {
		rec, err := vosk.New(path)
		if err != nil {
			return nil, err
		}
		return rec, nil
	},
}

func newApp() (*app.App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return app.New(cfg, log, openers)
}

func whisperSystemInfo() string {
	return whisper.SystemInfo()
}
