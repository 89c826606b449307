package views

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"git.sr.ht/~rockorager/vaxis/vxfw/richtext"
	"github.com/dustin/go-humanize"

	"github.com/potatbotat/potat-tui/internal/bus"
	"github.com/potatbotat/potat-tui/internal/stats"
	"github.com/potatbotat/potat-tui/widgets"
)

// FeedState reports the statistics connection state. *stats.Socket
// satisfies it.
type FeedState interface {
	State() stats.State
}

// StatsViewParams holds configuration for creating a StatsView.
type StatsViewParams struct {
	Bus       *bus.Bus
	Feed      FeedState
	PostEvent func(vaxis.Event)

	// History is the number of samples kept per numeric topic. Defaults to 120.
	History int
}

// StatsView renders the latest value of every statistics topic. Numeric
// values get a gauge against their observed peak and a sparkline.
type StatsView struct {
	bus       *bus.Bus
	feed      FeedState
	postEvent func(vaxis.Event)
	history   int

	mu       sync.Mutex
	listener *bus.Listener
	topics   map[string]*Stat
	updates  int
}

// Stat is the latest value seen on one topic (or one numeric field of an
// object topic, named "topic.field").
type Stat struct {
	Name    string
	Numeric bool
	Value   float64
	Text    string
	At      time.Time
	spark   *widgets.Sparkline
}

// NewStatsView creates a StatsView. Call Start to subscribe.
func NewStatsView(p StatsViewParams) *StatsView {
	if p.History <= 0 {
		p.History = 120
	}
	return &StatsView{
		bus:       p.Bus,
		feed:      p.Feed,
		postEvent: p.PostEvent,
		history:   p.History,
		topics:    make(map[string]*Stat),
	}
}

// SetPostEvent replaces the redraw hook.
func (sv *StatsView) SetPostEvent(fn func(vaxis.Event)) {
	sv.mu.Lock()
	sv.postEvent = fn
	sv.mu.Unlock()
}

// Start subscribes to statistics updates. Calling it twice is a no-op.
func (sv *StatsView) Start() {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	if sv.listener != nil || sv.bus == nil {
		return
	}
	l := sv.bus.OnUpdate(sv.handleUpdate)
	sv.listener = &l
}

// Stop unsubscribes from statistics updates.
func (sv *StatsView) Stop() {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	if sv.listener == nil {
		return
	}
	sv.bus.Off(bus.EventUpdate, *sv.listener)
	sv.listener = nil
}

// Updates returns how many updates have been received.
func (sv *StatsView) Updates() int {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	return sv.updates
}

// Topic returns a copy of the latest stat for name.
func (sv *StatsView) Topic(name string) (Stat, bool) {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	t, ok := sv.topics[name]
	if !ok {
		return Stat{}, false
	}
	return *t, true
}

// Names returns all known stat names, sorted.
func (sv *StatsView) Names() []string {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	return sv.sortedNames()
}

func (sv *StatsView) sortedNames() []string {
	names := make([]string, 0, len(sv.topics))
	for n := range sv.topics {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (sv *StatsView) handleUpdate(ev bus.UpdateEvent) {
	now := time.Now()

	sv.mu.Lock()
	sv.updates++
	var value any
	dec := json.NewDecoder(bytes.NewReader(ev.Data))
	dec.UseNumber()
	if err := dec.Decode(&value); err != nil {
		sv.setText(ev.Topic, string(ev.Data), now)
	} else {
		sv.record(ev.Topic, value, ev.Data, now)
	}
	post := sv.postEvent
	sv.mu.Unlock()

	if post != nil {
		post(StatsUpdated{})
	}
}

func (sv *StatsView) record(topic string, value any, raw json.RawMessage, now time.Time) {
	switch v := value.(type) {
	case json.Number:
		if f, err := v.Float64(); err == nil {
			sv.setNumber(topic, f, now)
			return
		}
	case map[string]any:
		numeric := false
		for k, field := range v {
			if n, ok := field.(json.Number); ok {
				if f, err := n.Float64(); err == nil {
					sv.setNumber(topic+"."+k, f, now)
					numeric = true
				}
			}
		}
		if numeric {
			return
		}
	case string:
		sv.setText(topic, v, now)
		return
	}
	sv.setText(topic, string(raw), now)
}

func (sv *StatsView) stat(name string) *Stat {
	t, ok := sv.topics[name]
	if !ok {
		t = &Stat{Name: name}
		sv.topics[name] = t
	}
	return t
}

func (sv *StatsView) setNumber(name string, v float64, now time.Time) {
	t := sv.stat(name)
	if t.spark == nil {
		t.spark = widgets.NewSparkline(sv.history)
	}
	t.Numeric = true
	t.Value = v
	t.Text = ""
	t.At = now
	t.spark.Push(v)
}

func (sv *StatsView) setText(name, text string, now time.Time) {
	t := sv.stat(name)
	t.Numeric = false
	t.Text = text
	t.At = now
}

// formatValue renders a number with thousands separators, keeping at most
// two decimals.
func formatValue(v float64) string {
	if v == float64(int64(v)) {
		return humanize.Comma(int64(v))
	}
	return humanize.CommafWithDigits(v, 2)
}

const (
	statsGaugeWidth = 20
	statsAgeWidth   = 14
)

// Draw renders the feed status line followed by one row per stat.
func (sv *StatsView) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	sv.mu.Lock()
	defer sv.mu.Unlock()

	state := "offline"
	if sv.feed != nil {
		state = sv.feed.State().String()
	}

	if len(sv.topics) == 0 {
		return drawMessage(ctx, sv, fmt.Sprintf("Waiting for statistics (feed %s)...", state))
	}

	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, sv)

	stateStyle := vaxis.Style{Foreground: vaxis.IndexColor(2)}
	if state != stats.StateOpen.String() {
		stateStyle.Foreground = vaxis.IndexColor(3)
	}
	status := richtext.New([]vaxis.Segment{
		{Text: " feed ", Style: vaxis.Style{Attribute: vaxis.AttrDim}},
		{Text: state, Style: stateStyle},
		{Text: fmt.Sprintf("  %s updates  %d stats", humanize.Comma(int64(sv.updates)), len(sv.topics)),
			Style: vaxis.Style{Attribute: vaxis.AttrDim}},
	})
	statusSurf, err := status.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}))
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 0, statusSurf)

	names := sv.sortedNames()
	labelWidth := 0
	for _, n := range names {
		labelWidth = max(labelWidth, len(n)+2)
	}

	row := 2
	var text [][]string
	for _, n := range names {
		t := sv.topics[n]
		if !t.Numeric {
			text = append(text, []string{" " + n, t.Text, humanize.Time(t.At)})
			continue
		}
		if row >= int(ctx.Max.Height) {
			continue
		}
		gauge := &widgets.Gauge{
			Label:      " " + n,
			LabelWidth: labelWidth,
			Value:      t.Value,
			Max:        t.spark.Peak(),
			Suffix:     formatValue(t.Value),
			BarWidth:   statsGaugeWidth,
		}
		gaugeSurf, err := gauge.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}))
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(0, row, gaugeSurf)

		// label + "[" + bar + "] 100.0%" + "  " + suffix + gap
		sparkCol := labelWidth + 1 + statsGaugeWidth + 8 + 2 + len(gauge.Suffix) + 2
		if w := int(ctx.Max.Width) - sparkCol; w > 0 {
			sparkSurf, err := t.spark.Draw(ctx.WithMax(vxfw.Size{Width: uint16(w), Height: 1}))
			if err != nil {
				return vxfw.Surface{}, err
			}
			s.AddChild(sparkCol, row, sparkSurf)
		}
		row++
	}

	if len(text) > 0 && row+1 < int(ctx.Max.Height) {
		row++
		tbl := &widgets.Table{
			Columns: []widgets.TableColumn{
				{Width: labelWidth, Style: vaxis.Style{Attribute: vaxis.AttrBold}},
				{Width: 0},
				{Width: statsAgeWidth, AlignRight: true, Style: vaxis.Style{Attribute: vaxis.AttrDim}},
			},
			Rows: text,
			Gap:  1,
		}
		tblSurf, err := tbl.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: uint16(int(ctx.Max.Height) - row)}))
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(0, row, tblSurf)
	}

	return s, nil
}

// HandleEvent is a no-op; the stats view has no selection.
func (sv *StatsView) HandleEvent(ev vaxis.Event, phase vxfw.EventPhase) (vxfw.Command, error) {
	return nil, nil
}
