package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/potatbotat/potat-tui/app"
	"github.com/potatbotat/potat-tui/config"
	"github.com/potatbotat/potat-tui/internal"
	"github.com/potatbotat/potat-tui/internal/api"
	"github.com/potatbotat/potat-tui/internal/bus"
	"github.com/potatbotat/potat-tui/internal/stats"
)

var (
	configPath  string
	logFilePath string
	channelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "potat",
	Short: "Terminal dashboard for PotatBotat",
	Long: `potat - live statistics, command help, partner channels and emote
history for the PotatBotat Twitch bot.

Run without a subcommand to open the dashboard.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "path to config file")
	rootCmd.PersistentFlags().StringVar(&logFilePath, "log-file", filepath.Join(config.Dir(), "potat-tui.log"), "where to write logs while the dashboard is open")
	rootCmd.Flags().StringVar(&channelFlag, "channel", "", "channel whose emote history is shown (overrides [ui] channel)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads --config. A missing default file means defaults; a
// missing file named explicitly is an error.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if cmd.Flags().Changed("config") {
		return config.LoadFrom(configPath)
	}
	return config.LoadOrDefault(configPath)
}

// openLog returns a logger writing to path, creating its directory.
func openLog(path string) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return log.New(f, "", log.LstdFlags), f, nil
}

// newClient builds the backend client from configuration.
func newClient(cfg *config.Config, tokens api.TokenSource, logger *log.Logger) *api.Client {
	var limiter *rate.Limiter
	if rps := cfg.API.RequestsPerSecond; rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), max(1, int(rps)))
	}
	return api.NewClient(api.Params{
		BaseURL:    cfg.API.BaseURL,
		HTTPClient: &http.Client{Timeout: cfg.API.Timeout.Duration},
		Tokens:     tokens,
		Limiter:    limiter,
		Logger:     logger,
	})
}

// probe checks the backend is reachable. Any HTTP status counts as reachable.
func probe(ctx context.Context, c *api.Client) error {
	_, err := api.MakeRequest[json.RawMessage](ctx, c, c.BaseURL(), nil)
	return err
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, logFile, err := openLog(logFilePath)
	if err != nil {
		return err
	}
	defer logFile.Close()
	log.SetOutput(logger.Writer())

	channel := cfg.UI.Channel
	if channelFlag != "" {
		channel = channelFlag
	}

	b := bus.New()
	feed := stats.New(cfg.Stats.URL, stats.Params{
		Bus:            b,
		ReconnectDelay: cfg.Stats.ReconnectDelay.Duration,
		Logger:         logger,
	})
	defer feed.Close()

	tokens := config.NewTokenStore(config.DefaultTokenPath())
	root := app.New(app.Params{
		Connect: func(ctx context.Context) (*internal.Services, error) {
			client := newClient(cfg, tokens, logger)
			if err := probe(ctx, client); err != nil {
				return nil, err
			}
			return internal.NewServices(client), nil
		},
		Backend:  cfg.API.BaseURL,
		Bus:      b,
		Feed:     feed,
		Channel:  channel,
		StaleTTL: cfg.UI.StaleTTL.Duration,
		Logger:   logger,
	})

	vxApp, err := vxfw.NewApp(vaxis.Options{})
	if err != nil {
		return fmt.Errorf("starting terminal: %w", err)
	}
	root.SetPostEvent(vxApp.PostEvent)

	return vxApp.Run(root)
}
