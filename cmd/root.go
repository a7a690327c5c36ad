package cmd

import (
	"github.com/spf13/cobra"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := NewOptions()

	rootCmd := &cobra.Command{
		Use:   "tunnelview [url]",
		Short: "Tunnel-gated page viewer",
		Long: `Loads a web page only while the VPN tunnel is connected.

The page is blocked with a status message whenever the tunnel is not
connected, is connecting, or the load failed. Tunnel status is read from
the status document the VPN daemon writes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOpen(cmd, args, opts)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	// Add open flags to root command so `tunnelview` and `tunnelview open` work identically
	addOpenFlags(rootCmd, opts)

	// Register subcommands
	rootCmd.AddCommand(NewCmdOpen(opts))
	rootCmd.AddCommand(NewCmdStatus())
	rootCmd.AddCommand(NewCmdNotify())
	rootCmd.AddCommand(NewCmdConfig())
	rootCmd.AddCommand(NewCmdVersion())

	return rootCmd
}
