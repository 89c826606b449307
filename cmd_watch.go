package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/potatbotat/potat-tui/internal/bus"
	"github.com/potatbotat/potat-tui/internal/stats"
)

var watchTopic string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print statistics feed updates as they arrive",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchTopic, "topic", "", "only print topics with this prefix")
	rootCmd.AddCommand(watchCmd)
}

// updatePrinter writes one line per update, serialised across goroutines.
type updatePrinter struct {
	mu     sync.Mutex
	w      io.Writer
	prefix string
	count  int
	start  time.Time
}

func (p *updatePrinter) print(ev bus.UpdateEvent) {
	if p.prefix != "" && !strings.HasPrefix(ev.Topic, p.prefix) {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count++
	fmt.Fprintf(p.w, "%s %s %s\n",
		dimStyle.Render(time.Now().Format("15:04:05")),
		topicStyle.Render(ev.Topic),
		string(ev.Data))
}

func (p *updatePrinter) summary() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return fmt.Sprintf("%s updates since %s", humanize.Comma(int64(p.count)), humanize.Time(p.start))
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b := bus.New()
	printer := &updatePrinter{w: cmd.OutOrStdout(), prefix: watchTopic, start: time.Now()}
	b.OnUpdate(printer.print)

	feed := stats.New(cfg.Stats.URL, stats.Params{
		Bus:            b,
		ReconnectDelay: cfg.Stats.ReconnectDelay.Duration,
	})
	fmt.Fprintln(cmd.ErrOrStderr(), dimStyle.Render("watching "+feed.URL()+" (ctrl-c to stop)"))

	<-ctx.Done()
	if err := feed.Close(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render(err.Error()))
	}
	fmt.Fprintln(cmd.ErrOrStderr(), dimStyle.Render(printer.summary()))
	return nil
}
