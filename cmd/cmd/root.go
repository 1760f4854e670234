package cmd

import (
	"github.com/ostafen/seginfo/internal/env"
	"github.com/spf13/cobra"
)

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   env.AppName,
		Short: env.AppName + " - seismic trace statistics scanner",
	}

	rootCmd.AddCommand(
		DefineScanCommand(),
		DefineFormatsCommand(),
		DefineGenerateCommand(),
		DefineShowCommand(),
	)
	return rootCmd
}

func Execute() error {
	return NewRootCommand().Execute()
}
