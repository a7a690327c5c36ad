package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spiffcs/tunnelview/internal/constants"
	"github.com/spiffcs/tunnelview/internal/notify"
	"github.com/spiffcs/tunnelview/internal/output"
)

// NewCmdNotify creates the notify command with subcommands.
func NewCmdNotify() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Request or manage local notifications",
		Long: `Request or manage the local notifications the VPN raises.

Subcommands:
  request  Present a notification
  reset    Clear only-once tokens so those notifications can show again
  list     Show every notification and whether it was already presented`,
	}

	cmd.AddCommand(NewCmdNotifyRequest())
	cmd.AddCommand(NewCmdNotifyReset())
	cmd.AddCommand(NewCmdNotifyList())

	return cmd
}

// NewCmdNotifyRequest creates the notify request subcommand.
func NewCmdNotifyRequest() *cobra.Command {
	var desktop bool

	cmd := &cobra.Command{
		Use:   "request <id> [message]",
		Short: "Present a notification",
		Long: fmt.Sprintf(`Present a notification by identifier. Only-once notifications are
skipped when their token was already consumed.

The optional message replaces the default body.

Identifiers:
  %s`, strings.Join(idNames(), "\n  ")),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := notify.ParseID(args[0])
			if err != nil {
				return err
			}
			message := ""
			if len(args) > 1 {
				message = args[1]
			}

			store, err := notify.NewStore()
			if err != nil {
				return fmt.Errorf("failed to open notification store: %w", err)
			}

			sinks := []notify.Sink{notify.NewTerminalSink(cmd.OutOrStdout())}
			if desktop {
				if s, ok := notify.DesktopSink(constants.ToastAppID); ok {
					sinks = append(sinks, s)
				}
			}

			svc := notify.NewService(store, notify.WithSinks(sinks...))
			return svc.Request(id, message)
		},
	}

	cmd.Flags().BoolVar(&desktop, "desktop", true, "Also post a desktop notification where supported")

	return cmd
}

// NewCmdNotifyReset creates the notify reset subcommand.
func NewCmdNotifyReset() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear only-once notification tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := notify.NewStore()
			if err != nil {
				return fmt.Errorf("failed to open notification store: %w", err)
			}

			count := store.Count()
			if err := store.Clear(); err != nil {
				return fmt.Errorf("failed to clear notification tokens: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d only-once token(s).\n", count)
			return nil
		},
	}
}

// NewCmdNotifyList creates the notify list subcommand.
func NewCmdNotifyList() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications and their only-once state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.ParseFormat(outputFormat)
			if err != nil {
				return err
			}
			store, err := notify.NewStore()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: notification store unavailable: %v\n", err)
				store = notify.NewStoreFromPath("")
			}
			return output.NewFormatter(format).FormatTokens(output.NewTokenReports(store), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json, yaml)")

	return cmd
}

func idNames() []string {
	ids := notify.IDs()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	return names
}
