package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spiffcs/tunnelview/config"
	"github.com/spiffcs/tunnelview/internal/output"
	"github.com/spiffcs/tunnelview/internal/tunnel"
)

// NewCmdStatus creates the status command.
func NewCmdStatus() *cobra.Command {
	var statusFile, outputFormat string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current VPN tunnel status",
		Long: `Reads the tunnel status document written by the VPN daemon and prints
the tunnel status, the connection region and any pending alerts.

A missing status document is reported as not_connected.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, statusFile, outputFormat)
		},
	}

	cmd.Flags().StringVar(&statusFile, "status-file", "", "Tunnel status document (default: from config)")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json, yaml)")

	return cmd
}

func runStatus(cmd *cobra.Command, statusFile, outputFormat string) error {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	if statusFile == "" {
		settings, err := loadSettings(&Options{})
		if err != nil {
			return err
		}
		statusFile = settings.StatusFile
	}
	if statusFile == "" {
		statusFile = config.DefaultStatusFile()
	}

	doc, err := tunnel.ReadDocument(statusFile)
	if err != nil {
		return fmt.Errorf("failed to read status: %w", err)
	}

	return output.NewFormatter(format).FormatStatus(output.NewStatusReport(statusFile, doc), cmd.OutOrStdout())
}
