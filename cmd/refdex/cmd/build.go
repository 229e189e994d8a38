package cmd

import (
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Index the reference documents and write headers once",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		driver, closeCache, err := newDriver(cfg, log)
		if err != nil {
			return err
		}
		defer closeCache()

		_, err = driver.Build(cmd.Context())
		return err
	},
}
