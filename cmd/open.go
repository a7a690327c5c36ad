package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/spiffcs/tunnelview/config"
	"github.com/spiffcs/tunnelview/internal/constants"
	"github.com/spiffcs/tunnelview/internal/engine"
	"github.com/spiffcs/tunnelview/internal/log"
	"github.com/spiffcs/tunnelview/internal/notify"
	"github.com/spiffcs/tunnelview/internal/page"
	"github.com/spiffcs/tunnelview/internal/tui"
	"github.com/spiffcs/tunnelview/internal/tunnel"
)

// NewCmdOpen creates the open command.
func NewCmdOpen(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open [url]",
		Short: "Open a page behind the VPN tunnel (same as root tunnelview)",
		Long: `Opens url, or the configured home_url, and keeps it gated on the
VPN tunnel status. On a terminal the page is shown in an interactive view;
otherwise the page text is written to stdout once it loads.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOpen(cmd, args, opts)
		},
	}

	addOpenFlags(cmd, opts)
	return cmd
}

// addOpenFlags adds the open-specific flags to a command.
func addOpenFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")
	cmd.Flags().StringVar(&opts.StatusFile, "status-file", "", "Tunnel status document (default: from config)")
	cmd.Flags().StringVar(&opts.UserAgent, "user-agent", "", "User-Agent for page requests (default: from config)")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "Give up a headless load after this long (0 waits for the tunnel)")
	cmd.Flags().BoolVar(&opts.FailFast, "fail-fast", false, "Fail a headless load when the tunnel is not connected")

	// TUI flag with tri-state: nil = auto, true = force, false = disable
	cmd.Flags().Var(newTUIFlag(opts), "tui", "Enable/disable the interactive view (default: auto-detect)")

	// Profiling flags
	cmd.Flags().StringVar(&opts.CPUProfile, "cpuprofile", "", "Write CPU profile to file")
	cmd.Flags().StringVar(&opts.MemProfile, "memprofile", "", "Write memory profile to file")
	cmd.Flags().StringVar(&opts.Trace, "trace", "", "Write execution trace to file")
}

// openRuntime bundles everything one page view needs.
type openRuntime struct {
	useTUI   bool
	settings config.Settings
	url      string

	publisher *tunnel.Publisher
	watcher   *tunnel.Watcher
	notifier  *notify.Service
	events    chan page.Event
	engine    *engine.Engine
	screen    page.Renderer
	host      *page.Host
}

func runOpen(cmd *cobra.Command, args []string, opts *Options) error {
	useTUI := shouldUseTUI(opts)

	// Initialize logging - suppress logs during TUI to avoid interleaving with display
	if useTUI {
		log.Initialize(opts.Verbosity, io.Discard)
	} else {
		log.Initialize(opts.Verbosity, os.Stderr)
	}

	profiler := NewProfiler(opts)
	if err := profiler.Start(); err != nil {
		return err
	}
	defer profiler.Stop()

	settings, err := loadSettings(opts)
	if err != nil {
		return err
	}

	rt := newOpenRuntime(settings, useTUI, args)
	defer rt.engine.Close()

	return rt.run(cmd.Context(), opts)
}

// loadSettings loads the merged config and applies flag overrides.
func loadSettings(opts *Options) (config.Settings, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	settings, err := cfg.GetSettings()
	if err != nil {
		return config.Settings{}, fmt.Errorf("invalid config: %w", err)
	}

	if opts.StatusFile != "" {
		settings.StatusFile = opts.StatusFile
	}
	if opts.UserAgent != "" {
		settings.UserAgent = opts.UserAgent
	}
	return settings, nil
}

func newOpenRuntime(settings config.Settings, useTUI bool, args []string) *openRuntime {
	rt := &openRuntime{
		useTUI:    useTUI,
		settings:  settings,
		url:       settings.HomeURL,
		publisher: tunnel.NewPublisher(tunnel.NotConnected),
		events:    make(chan page.Event, constants.EventBufferSize),
		screen:    tui.NewScreen(),
	}
	if len(args) > 0 {
		rt.url = args[0]
	}

	rt.notifier = newNotifier(settings, !useTUI)
	rt.watcher = tunnel.NewWatcher(settings.StatusFile, rt.publisher,
		tunnel.WithInterval(settings.PollInterval),
		tunnel.WithAlertHandler(func(a tunnel.Alert) {
			if err := rt.notifier.Dispatch(a); err != nil {
				log.Warn("ignoring tunnel alert", "id", a.ID, "error", err)
			}
		}),
	)

	// Read the status once so the host starts from the real tunnel state.
	if err := rt.watcher.Poll(); err != nil {
		log.Warn("could not read tunnel status", "path", settings.StatusFile, "error", err)
	}

	rt.engine = engine.New(rt.events,
		engine.WithUserAgent(settings.UserAgent),
		engine.WithTimeout(settings.Timeout),
		engine.WithMaxRedirects(settings.MaxRedirects),
	)
	rt.host = page.NewHost(rt.engine, rt.screen, rt.publisher.Current(),
		page.WithConnection(rt.publisher.Connection),
		page.WithDismiss(func() { log.Debug("page view dismissed") }),
	)
	return rt
}

// run drives the tunnel watcher, the status forwarder and the UI until the
// UI exits.
func (rt *openRuntime) run(ctx context.Context, opts *Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return rt.watcher.Run(gctx)
	})

	g.Go(func() error {
		return page.ForwardTunnel(gctx, rt.publisher, rt.events)
	})

	g.Go(func() error {
		defer cancel()
		if rt.useTUI {
			model := tui.NewModel(rt.host, rt.screen, rt.engine, rt.events, rt.url,
				tui.WithMessages(rt.settings.Messages))
			err := tui.Run(model)
			// Update ran on this goroutine, so it still owns the host.
			rt.host.Close()
			return err
		}

		runCtx := gctx
		if opts.Timeout > 0 {
			var stop context.CancelFunc
			runCtx, stop = context.WithTimeout(gctx, opts.Timeout)
			defer stop()
		}
		hopts := []tui.HeadlessOption{tui.WithHeadlessMessages(rt.settings.Messages)}
		if opts.FailFast {
			hopts = append(hopts, tui.WithFailFast())
		}
		return tui.NewHeadless(rt.host, rt.screen, rt.engine, rt.events, os.Stdout, hopts...).Run(runCtx, rt.url)
	})

	return g.Wait()
}

// newNotifier builds the notification service from settings. The terminal
// sink is only used when the terminal is not owned by the TUI.
func newNotifier(settings config.Settings, terminal bool) *notify.Service {
	store, err := notify.NewStore()
	if err != nil {
		log.Warn("could not open notification token store, tokens will not persist", "error", err)
		store = notify.NewStoreFromPath("")
	}

	sinks := []notify.Sink{notify.LogSink{}}
	if terminal {
		sinks = append(sinks, notify.NewTerminalSink(os.Stderr))
	}
	if settings.DesktopNotifications {
		if desktop, ok := notify.DesktopSink(constants.ToastAppID); ok {
			sinks = append(sinks, desktop)
		}
	}

	return notify.NewService(store,
		notify.WithSinks(sinks...),
		notify.WithEnabled(settings.NotificationsEnabled),
	)
}
