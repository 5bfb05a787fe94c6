package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"whisper-transcribe/embedded"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Работа с файлом конфигурации",
}

var configInitCmd = &cobra.Command{
	Use:   "init [FILE]",
	Short: "Создать файл конфигурации с комментариями",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "whisper-transcribe.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("файл %s уже существует", path)
		}
		if initEffective {
			if err := cfg.Save(path); err != nil {
				return err
			}
		} else if err := os.WriteFile(path, embedded.ConfigExample, 0644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "создан %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Показать итоговую конфигурацию (файл + окружение)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
		return cfg.Validate()
	},
}

var initEffective bool

func init() {
	configInitCmd.Flags().BoolVar(&initEffective, "effective", false, "записать итоговую конфигурацию (файл + окружение) без комментариев")
	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}
