package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rohankatakam/relver/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage relver configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		shown := *cfg
		shown.GitHub.Token = ""

		data, err := yaml.Marshal(&shown)
		if err != nil {
			return err
		}
		os.Stdout.Write(data)

		km := config.NewKeyringManager(logger)
		cm := config.NewCredentialManager(km)
		source := km.GetTokenSource(cm.CredentialsPath())
		fmt.Printf("\n# github token: %s (%s)\n", config.MaskToken(cfg.GitHub.Token), source.Source)
		fmt.Printf("# mode: %s\n", config.DetectMode().Description())

		result := cfg.Validate(config.ValidationContextLedger)
		if result.HasErrors() {
			fmt.Println()
			fmt.Print(result.Error())
		} else {
			for _, w := range result.Warnings {
				fmt.Printf("⚠️  %s\n", w)
			}
		}
		return nil
	},
}

var configInitForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = filepath.Join(config.DefaultDir, "config.yaml")
		}
		if _, err := os.Stat(path); err == nil && !configInitForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.Default().Save(path); err != nil {
			return err
		}
		fmt.Printf("✅ Wrote %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")
}
