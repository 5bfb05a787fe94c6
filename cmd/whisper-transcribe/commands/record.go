package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"whisper-transcribe/internal/audio"
	"whisper-transcribe/internal/capture"
)

var recordDuration time.Duration

var recordCmd = &cobra.Command{
	Use:   "record OUT.wav",
	Short: "Записать звук с микрофона в WAV 16kHz/16bit/mono",
	Long: `Записывает звук с микрофона по умолчанию. Запись останавливается
через --duration или по Ctrl+C. Результат можно сразу передать в transcribe.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if recordDuration <= 0 {
			return fmt.Errorf("--duration должен быть положительным: %s", recordDuration)
		}

		rec, err := capture.New()
		if err != nil {
			return err
		}
		defer rec.Close()

		log.Info("запись", "duration", recordDuration, "output", args[0])
		samples, err := rec.Record(cmd.Context(), recordDuration)
		if err != nil {
			return err
		}

		if err := capture.WriteWAV(args[0], samples); err != nil {
			return err
		}
		log.Info("запись сохранена", "output", args[0], "duration", audio.Required.Duration(int64(len(samples))))
		return nil
	},
}

func init() {
	recordCmd.Flags().DurationVarP(&recordDuration, "duration", "d", 30*time.Second, "максимальная длительность записи")
	rootCmd.AddCommand(recordCmd)
}
