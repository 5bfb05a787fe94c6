package commands

import (
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"whisper-transcribe/internal/app"
	"whisper-transcribe/internal/models"
	"whisper-transcribe/internal/speech"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Управление моделями распознавания",
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Показать модели из реестра",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(cfg, log, nil)
		if err != nil {
			return err
		}
		manager := a.Models()

		list := models.Registry
		if listDownloaded {
			list = manager.ListDownloaded()
		}
		if listEngine != "" {
			engine, err := speech.ParseEngine(listEngine)
			if err != nil {
				return err
			}
			list = slices.DeleteFunc(slices.Clone(list), func(m models.ModelInfo) bool {
				return m.Engine != engine
			})
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tДВИЖОК\tНАЗВАНИЕ\tРАЗМЕР\tСКАЧАНА")
		for _, m := range list {
			downloaded := ""
			if manager.IsDownloaded(m) {
				downloaded = "да"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", m.ID, models.EngineName(m.Engine), m.Name, models.HumanSize(m.Size), downloaded)
		}
		return w.Flush()
	},
}

var (
	listEngine     string
	listDownloaded bool
)

var modelsDownloadCmd = &cobra.Command{
	Use:   "download ID...",
	Short: "Скачать модели в model.dir",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(cfg, log, nil)
		if err != nil {
			return err
		}

		out := cmd.ErrOrStderr()
		for _, id := range args {
			last := -1
			err := a.DownloadModel(cmd.Context(), id, func(p models.Progress) {
				if p.Total <= 0 {
					return
				}
				percent := int(p.Downloaded * 100 / p.Total)
				if percent/10 != last/10 || p.Done {
					fmt.Fprintf(out, "\r%s: %3d%%", p.ModelID, percent)
					last = percent
				}
			})
			fmt.Fprintln(out)
			if err != nil {
				a.Notifier().Error(err.Error())
				return err
			}
		}
		return nil
	},
}

var modelsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Удалить скачанную модель",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(cfg, log, nil)
		if err != nil {
			return err
		}
		info, ok := models.GetModel(args[0])
		if !ok {
			return fmt.Errorf("%w: %s", models.ErrUnknownModel, args[0])
		}
		return a.Models().Delete(info)
	},
}

func init() {
	modelsListCmd.Flags().StringVar(&listEngine, "engine", "", "только модели движка (whisper, vosk)")
	modelsListCmd.Flags().BoolVar(&listDownloaded, "downloaded", false, "только скачанные модели")
	modelsCmd.AddCommand(modelsListCmd, modelsDownloadCmd, modelsDeleteCmd)
	rootCmd.AddCommand(modelsCmd)
}
