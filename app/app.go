package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"git.sr.ht/~rockorager/vaxis/vxfw/richtext"

	"github.com/potatbotat/potat-tui/internal"
	"github.com/potatbotat/potat-tui/internal/bus"
	"github.com/potatbotat/potat-tui/views"
	"github.com/potatbotat/potat-tui/widgets"
)

// Tab indices.
const (
	TabStats = iota
	TabCommands
	TabPartners
	TabHistory
)

// Connected is posted when the Connect callback succeeds.
type Connected struct {
	Services *internal.Services
}

// ConnectFailed is posted when the Connect callback fails.
type ConnectFailed struct {
	Err error
}

// Params holds configuration for creating an App.
type Params struct {
	// Services, when set, starts the app connected.
	Services *internal.Services
	// Connect is called in the background on Init when Services is nil.
	Connect func(ctx context.Context) (*internal.Services, error)

	Backend  string // shown while connecting
	Bus      *bus.Bus
	Feed     views.FeedState
	Channel  string
	StaleTTL time.Duration
	Logger   *log.Logger
}

type loader interface {
	vxfw.Widget
	Load(ctx context.Context) error
	Loaded() bool
	Stale() bool
}

// App is the root vxfw widget for potat-tui. The stats tab works from the
// feed alone; the other tabs need backend services.
type App struct {
	backend  string
	connect  func(ctx context.Context) (*internal.Services, error)
	channel  string
	staleTTL time.Duration
	logger   *log.Logger
	feed     views.FeedState

	services *internal.Services
	connErr  error

	tabBar    *widgets.TabBar
	stats     *views.StatsView
	commands  *views.CommandsView
	partners  *views.PartnersView
	history   *views.HistoryView
	postEvent func(vaxis.Event)
}

// New creates the root App widget.
func New(p Params) *App {
	if p.Logger == nil {
		p.Logger = log.Default()
	}
	a := &App{
		backend:  p.Backend,
		connect:  p.Connect,
		channel:  p.Channel,
		staleTTL: p.StaleTTL,
		logger:   p.Logger,
		feed:     p.Feed,
		tabBar:   widgets.NewTabBar([]string{"1 Stats", "2 Commands", "3 Partners", "4 History"}),
		stats:    views.NewStatsView(views.StatsViewParams{Bus: p.Bus, Feed: p.Feed}),
	}
	if p.Services != nil {
		a.setServices(p.Services)
	}
	return a
}

func (a *App) setServices(svc *internal.Services) {
	a.services = svc
	a.connErr = nil
	a.commands = views.NewCommandsView(views.CommandsViewParams{Service: svc.Commands, StaleTTL: a.staleTTL})
	a.partners = views.NewPartnersView(views.PartnersViewParams{Service: svc.Partners, StaleTTL: a.staleTTL})
	a.history = views.NewHistoryView(views.HistoryViewParams{
		Users:    svc.Users,
		History:  svc.History,
		Channel:  a.channel,
		StaleTTL: a.staleTTL,
		Logger:   a.logger,
	})
}

// SetPostEvent sets the function used to post events to the vaxis event loop.
// Must be called before the app receives Init.
func (a *App) SetPostEvent(fn func(vaxis.Event)) {
	a.postEvent = fn
	a.stats.SetPostEvent(fn)
}

func (a *App) post(ev vaxis.Event) {
	if a.postEvent != nil {
		a.postEvent(ev)
	}
}

// IsConnected reports whether backend services are available.
func (a *App) IsConnected() bool {
	return a.services != nil
}

// Backend returns the backend label shown while connecting.
func (a *App) Backend() string {
	return a.backend
}

// ActiveTab returns the current tab index.
func (a *App) ActiveTab() int {
	return a.tabBar.Active()
}

// SetTab switches to the given tab index.
func (a *App) SetTab(i int) {
	a.tabBar.SetActive(i)
}

// Stats returns the live statistics view.
func (a *App) Stats() *views.StatsView {
	return a.stats
}

func (a *App) loaderFor(tab int) loader {
	if a.services == nil {
		return nil
	}
	switch tab {
	case TabCommands:
		return a.commands
	case TabPartners:
		return a.partners
	case TabHistory:
		return a.history
	}
	return nil
}

// LoadAll loads every backend view in parallel. Each posts a ViewLoaded
// event when done.
func (a *App) LoadAll(ctx context.Context) {
	for _, tab := range []int{TabCommands, TabPartners, TabHistory} {
		l := a.loaderFor(tab)
		if l == nil {
			continue
		}
		go func() {
			a.post(views.ViewLoaded{Tab: tab, Err: l.Load(ctx)})
		}()
	}
}

// LoadActiveView fetches data for the active view. The stats tab and a
// disconnected app have nothing to load.
func (a *App) LoadActiveView(ctx context.Context) error {
	if l := a.loaderFor(a.tabBar.Active()); l != nil {
		return l.Load(ctx)
	}
	return nil
}

// refetchIfStale reloads the active view in the background when its data
// has expired.
func (a *App) refetchIfStale() {
	tab := a.tabBar.Active()
	l := a.loaderFor(tab)
	if l == nil || !l.Stale() {
		return
	}
	go func() {
		a.post(views.ViewLoaded{Tab: tab, Err: l.Load(context.Background())})
	}()
}

func (a *App) activeView() vxfw.Widget {
	tab := a.tabBar.Active()
	if tab == TabStats {
		return a.stats
	}
	if l := a.loaderFor(tab); l != nil {
		return l
	}
	return nil
}

func (a *App) drawStatus(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, a)

	lines := [][]vaxis.Segment{{
		{Text: fmt.Sprintf("Connecting to %s...", a.backend), Style: vaxis.Style{Attribute: vaxis.AttrDim}},
	}}
	if a.connErr != nil {
		lines = [][]vaxis.Segment{
			{
				{Text: "Failed to reach " + a.backend + ": ", Style: vaxis.Style{Foreground: vaxis.IndexColor(1)}},
				{Text: a.connErr.Error()},
			},
			{
				{Text: "The stats tab still works. Press q to quit.", Style: vaxis.Style{Attribute: vaxis.AttrDim}},
			},
		}
	}
	for row, segments := range lines {
		if row >= int(ctx.Max.Height) {
			break
		}
		lineSurf, err := richtext.New(segments).Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}))
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(0, row, lineSurf)
	}
	return s, nil
}

// Draw renders the tab bar and active view.
func (a *App) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, a)

	a.tabBar.Status = ""
	if a.feed != nil {
		a.tabBar.Status = "feed " + a.feed.State().String()
	}
	tabSurf, err := a.tabBar.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}))
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 0, tabSurf)

	if ctx.Max.Height < 2 {
		return s, nil
	}
	viewCtx := ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: ctx.Max.Height - 1})
	var viewSurf vxfw.Surface
	if view := a.activeView(); view != nil {
		viewSurf, err = view.Draw(viewCtx)
	} else {
		viewSurf, err = a.drawStatus(viewCtx)
	}
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 1, viewSurf)

	return s, nil
}

// CaptureEvent handles global keybindings before views process them.
func (a *App) CaptureEvent(ev vaxis.Event) (vxfw.Command, error) {
	key, ok := ev.(vaxis.Key)
	if !ok {
		return nil, nil
	}

	prev := a.tabBar.Active()
	switch {
	case key.Matches('q'), key.Matches('c', vaxis.ModCtrl):
		a.stats.Stop()
		return vxfw.QuitCmd{}, nil
	case key.Matches('r'):
		if !a.IsConnected() {
			return nil, nil
		}
		tab := a.tabBar.Active()
		if l := a.loaderFor(tab); l != nil {
			go func() {
				a.post(views.ViewLoaded{Tab: tab, Err: l.Load(context.Background())})
			}()
		}
		return vxfw.ConsumeAndRedraw(), nil
	case key.Matches('1'):
		a.tabBar.SetActive(TabStats)
	case key.Matches('2'):
		a.tabBar.SetActive(TabCommands)
	case key.Matches('3'):
		a.tabBar.SetActive(TabPartners)
	case key.Matches('4'):
		a.tabBar.SetActive(TabHistory)
	case key.Matches(vaxis.KeyTab):
		a.tabBar.Next()
	case key.Matches(vaxis.KeyTab, vaxis.ModShift):
		a.tabBar.Prev()
	default:
		return nil, nil
	}
	if a.tabBar.Active() != prev {
		a.refetchIfStale()
	}
	return vxfw.ConsumeAndRedraw(), nil
}

// HandleEvent handles lifecycle events and delegates the rest to the active
// view.
func (a *App) HandleEvent(ev vaxis.Event, phase vxfw.EventPhase) (vxfw.Command, error) {
	switch ev := ev.(type) {
	case vxfw.Init:
		a.stats.Start()
		switch {
		case a.services != nil:
			a.LoadAll(context.Background())
		case a.connect != nil:
			connect := a.connect
			go func() {
				svc, err := connect(context.Background())
				if err != nil {
					a.post(ConnectFailed{Err: err})
					return
				}
				a.post(Connected{Services: svc})
			}()
		}
		return nil, nil
	case Connected:
		a.setServices(ev.Services)
		a.LoadAll(context.Background())
		return vxfw.RedrawCmd{}, nil
	case ConnectFailed:
		a.connErr = ev.Err
		a.logger.Printf("connecting to %s: %v", a.backend, ev.Err)
		return vxfw.RedrawCmd{}, nil
	case views.ViewLoaded:
		if ev.Err != nil {
			a.logger.Printf("error loading tab %d: %v", ev.Tab, ev.Err)
		}
		return vxfw.RedrawCmd{}, nil
	case views.StatsUpdated:
		return vxfw.RedrawCmd{}, nil
	default:
		type handler interface {
			HandleEvent(vaxis.Event, vxfw.EventPhase) (vxfw.Command, error)
		}
		if h, ok := a.activeView().(handler); ok {
			return h.HandleEvent(ev, phase)
		}
	}
	return nil, nil
}
