package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"whisper-transcribe/internal/app"
)

var verifyCmd = &cobra.Command{
	Use:   "verify FILE...",
	Short: "Проверить, что нарезка на фрагменты не меняет поток кадров",
	Long: `Читает каждый файл дважды: одним буфером на весь поток и буфером
длиной audio.chunk_seconds, и сравнивает кадры по порядку.
Движок и модель не нужны.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		a, err := app.New(cfg, log, nil)
		if err != nil {
			return err
		}

		var failed int
		for _, res := range a.Verify(args) {
			if res.Err != nil {
				failed++
				fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %v\n", res.Path, res.Err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok   %s: %d кадров\n", res.Path, res.Frames)
		}

		if failed > 0 {
			return fmt.Errorf("проверка не пройдена для %d файлов", failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
