package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scolarite/affect/app"
	"github.com/scolarite/affect/config"
	"github.com/scolarite/affect/infra/logger"
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Assign students to individual teachers",
	RunE:  func(cmd *cobra.Command, args []string) error { return runMode(app.ModeTeachers) },
}

var juriesCmd = &cobra.Command{
	Use:   "juries",
	Short: "Assign students to oral-exam juries",
	RunE:  func(cmd *cobra.Command, args []string) error { return runMode(app.ModeJuries) },
}

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "Assign internship students to supervising teachers by distance",
	RunE:  func(cmd *cobra.Command, args []string) error { return runMode(app.ModeStages) },
}

func init() {
	rootCmd.AddCommand(solveCmd, juriesCmd, stagesCmd)
}

func runMode(mode app.Mode) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return svc.Run(mode)
}
