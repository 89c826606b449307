package app_test

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"github.com/potatbotat/potat-tui/app"
	"github.com/potatbotat/potat-tui/internal"
	"github.com/potatbotat/potat-tui/internal/api"
	"github.com/potatbotat/potat-tui/internal/bus"
	"github.com/potatbotat/potat-tui/internal/stats"
	"github.com/potatbotat/potat-tui/views"
)

const testStaleTTL = 30 * time.Second

func testDrawContext(w, h uint16) vxfw.DrawContext {
	return vxfw.DrawContext{
		Max: vxfw.Size{Width: w, Height: h},
		Min: vxfw.Size{},
		Characters: func(s string) []vaxis.Character {
			chars := make([]vaxis.Character, 0, len(s))
			for _, r := range s {
				chars = append(chars, vaxis.Character{Grapheme: string(r), Width: 1})
			}
			return chars
		},
	}
}

type fakeFeed struct{}

func (fakeFeed) State() stats.State { return stats.StateOpen }

func newTestServices() *internal.Services {
	svc, _ := internal.NewMockServices()
	return svc
}

func newTestServicesWithData() *internal.Services {
	svc, m := internal.NewMockServices()
	m.Commands.ListFunc = func(ctx context.Context) ([]api.Command, error) {
		return []api.Command{{Name: "ping", Category: "utilities", Description: "pong"}}, nil
	}
	m.Partners.ListFunc = func(ctx context.Context) ([]api.Partner, error) {
		return []api.Partner{{Username: "potato", Followers: 10}}, nil
	}
	m.Users.GetFunc = func(ctx context.Context, login string) (*api.TwitchUser, error) {
		return &api.TwitchUser{}, nil
	}
	m.History.GetFunc = func(ctx context.Context, login string) (*api.HistoryResponse, error) {
		return &api.HistoryResponse{
			Channel: api.Channel{Login: login},
			History: []api.EmoteHistory{{Action: api.ActionAdd, EmoteName: "Clap"}},
		}, nil
	}
	return svc
}

func newApp(svc *internal.Services) *app.App {
	return app.New(app.Params{
		Services: svc,
		Backend:  "test-backend",
		Bus:      bus.New(),
		Feed:     fakeFeed{},
		Channel:  "potato",
		StaleTTL: testStaleTTL,
	})
}

func collectLoaded(a *app.App, n int) func(t *testing.T) []views.ViewLoaded {
	var mu sync.Mutex
	var events []views.ViewLoaded
	done := make(chan struct{}, n)
	a.SetPostEvent(func(ev vaxis.Event) {
		if vl, ok := ev.(views.ViewLoaded); ok {
			mu.Lock()
			events = append(events, vl)
			mu.Unlock()
			done <- struct{}{}
		}
	})
	return func(t *testing.T) []views.ViewLoaded {
		t.Helper()
		for i := 0; i < n; i++ {
			select {
			case <-done:
			case <-time.After(5 * time.Second):
				t.Fatalf("timed out waiting for %d ViewLoaded events", n)
			}
		}
		mu.Lock()
		defer mu.Unlock()
		return append([]views.ViewLoaded(nil), events...)
	}
}

func TestApp_New(t *testing.T) {
	a := newApp(newTestServices())
	if a == nil {
		t.Fatal("expected non-nil app")
	}
	if !a.IsConnected() {
		t.Error("expected connected when Services provided")
	}
	if a.Backend() != "test-backend" {
		t.Errorf("expected backend label, got %q", a.Backend())
	}
}

func TestApp_New_WithoutServices(t *testing.T) {
	a := app.New(app.Params{Backend: "x", StaleTTL: testStaleTTL})
	if a.IsConnected() {
		t.Error("expected not connected when no Services or Connect provided")
	}
}

func TestApp_SetTab(t *testing.T) {
	a := newApp(newTestServices())
	if a.ActiveTab() != app.TabStats {
		t.Errorf("expected initial tab stats, got %d", a.ActiveTab())
	}
	a.SetTab(app.TabHistory)
	if a.ActiveTab() != app.TabHistory {
		t.Errorf("expected history tab, got %d", a.ActiveTab())
	}
}

func TestApp_LoadActiveView_AllTabs(t *testing.T) {
	a := newApp(newTestServicesWithData())
	for tab := app.TabStats; tab <= app.TabHistory; tab++ {
		a.SetTab(tab)
		if err := a.LoadActiveView(context.Background()); err != nil {
			t.Fatalf("unexpected error loading tab %d: %v", tab, err)
		}
	}
}

func TestApp_LoadActiveView_NotConnected(t *testing.T) {
	a := app.New(app.Params{StaleTTL: testStaleTTL})
	a.SetTab(app.TabCommands)
	if err := a.LoadActiveView(context.Background()); err != nil {
		t.Fatalf("expected nil error when not connected, got %v", err)
	}
}

func TestApp_LoadActiveView_Error_Propagation(t *testing.T) {
	svc, m := internal.NewMockServices()
	m.Partners.ListFunc = func(ctx context.Context) ([]api.Partner, error) {
		return nil, context.DeadlineExceeded
	}
	a := newApp(svc)
	a.SetTab(app.TabPartners)

	if err := a.LoadActiveView(context.Background()); err == nil {
		t.Fatal("expected error to propagate from partners Load")
	}
}

func TestApp_Draw_AllTabs(t *testing.T) {
	a := newApp(newTestServicesWithData())

	for tab := app.TabStats; tab <= app.TabHistory; tab++ {
		a.SetTab(tab)
		_ = a.LoadActiveView(context.Background())

		s, err := a.Draw(testDrawContext(80, 24))
		if err != nil {
			t.Fatalf("unexpected error drawing tab %d: %v", tab, err)
		}
		if s.Size.Width != 80 || s.Size.Height != 24 {
			t.Errorf("tab %d: expected 80x24, got %dx%d", tab, s.Size.Width, s.Size.Height)
		}
	}
}

func TestApp_Draw_BeforeLoad(t *testing.T) {
	a := newApp(newTestServices())
	a.SetTab(app.TabCommands)
	if _, err := a.Draw(testDrawContext(80, 24)); err != nil {
		t.Fatalf("unexpected error drawing before load: %v", err)
	}
}

func TestApp_Draw_OneRow(t *testing.T) {
	a := newApp(newTestServices())
	if _, err := a.Draw(testDrawContext(80, 1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApp_Draw_Connecting(t *testing.T) {
	a := app.New(app.Params{Backend: "api.potat.app", StaleTTL: testStaleTTL})
	a.SetTab(app.TabCommands)

	s, err := a.Draw(testDrawContext(80, 24))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Size.Width != 80 {
		t.Errorf("expected surface width=80, got %d", s.Size.Width)
	}
}

func TestApp_Draw_ConnectFailed(t *testing.T) {
	a := app.New(app.Params{Backend: "api.potat.app", StaleTTL: testStaleTTL})
	a.SetTab(app.TabPartners)
	_, _ = a.HandleEvent(app.ConnectFailed{Err: fmt.Errorf("connection refused")}, vxfw.EventPhase(0))

	if _, err := a.Draw(testDrawContext(80, 24)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApp_CaptureEvent_Quit(t *testing.T) {
	for name, a := range map[string]*app.App{
		"connected":     newApp(newTestServices()),
		"not connected": app.New(app.Params{StaleTTL: testStaleTTL}),
	} {
		t.Run(name, func(t *testing.T) {
			cmd, err := a.CaptureEvent(vaxis.Key{Keycode: 'q'})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, ok := cmd.(vxfw.QuitCmd); !ok {
				t.Errorf("expected QuitCmd, got %T", cmd)
			}
		})
	}
}

func TestApp_CaptureEvent_RefreshIgnoredWhenNotConnected(t *testing.T) {
	a := app.New(app.Params{StaleTTL: testStaleTTL})

	cmd, err := a.CaptureEvent(vaxis.Key{Keycode: 'r'})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd != nil {
		t.Errorf("expected nil command when not connected, got %T", cmd)
	}
}

func TestApp_CaptureEvent_NumberKeys(t *testing.T) {
	a := newApp(newTestServices())

	tests := []struct {
		key      rune
		expected int
	}{
		{'2', app.TabCommands},
		{'3', app.TabPartners},
		{'4', app.TabHistory},
		{'1', app.TabStats},
	}

	for _, tc := range tests {
		cmd, err := a.CaptureEvent(vaxis.Key{Keycode: tc.key})
		if err != nil {
			t.Fatalf("unexpected error for key '%c': %v", tc.key, err)
		}
		if cmd == nil {
			t.Fatalf("expected non-nil command for key '%c'", tc.key)
		}
		if a.ActiveTab() != tc.expected {
			t.Errorf("key '%c': expected tab %d, got %d", tc.key, tc.expected, a.ActiveTab())
		}
	}
}

func TestApp_CaptureEvent_Tab(t *testing.T) {
	a := newApp(newTestServices())

	if cmd, _ := a.CaptureEvent(vaxis.Key{Keycode: vaxis.KeyTab}); cmd == nil {
		t.Fatal("expected non-nil command for Tab key")
	}
	if a.ActiveTab() != app.TabCommands {
		t.Errorf("expected commands tab after Tab, got %d", a.ActiveTab())
	}

	a.SetTab(app.TabStats)
	if cmd, _ := a.CaptureEvent(vaxis.Key{Keycode: vaxis.KeyTab, Modifiers: vaxis.ModShift}); cmd == nil {
		t.Fatal("expected non-nil command for Shift+Tab")
	}
	if a.ActiveTab() != app.TabHistory {
		t.Errorf("expected history tab after Shift+Tab, got %d", a.ActiveTab())
	}
}

func TestApp_CaptureEvent_Unhandled(t *testing.T) {
	a := newApp(newTestServices())

	for _, ev := range []vaxis.Event{vaxis.Key{Keycode: 'x'}, vaxis.Redraw{}} {
		cmd, err := a.CaptureEvent(ev)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cmd != nil {
			t.Errorf("expected nil command for %T, got %T", ev, cmd)
		}
	}
}

func TestApp_CaptureEvent_Refresh(t *testing.T) {
	a := newApp(newTestServicesWithData())
	a.SetTab(app.TabCommands)
	wait := collectLoaded(a, 1)

	cmd, err := a.CaptureEvent(vaxis.Key{Keycode: 'r'})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd == nil {
		t.Fatal("expected non-nil command for 'r' key")
	}
	events := wait(t)
	if events[0].Tab != app.TabCommands {
		t.Errorf("expected commands reload, got tab %d", events[0].Tab)
	}
}

func TestApp_HandleEvent_AllTabs(t *testing.T) {
	a := newApp(newTestServicesWithData())

	for tab := app.TabStats; tab <= app.TabHistory; tab++ {
		a.SetTab(tab)
		_ = a.LoadActiveView(context.Background())

		if _, err := a.HandleEvent(vaxis.Key{Keycode: 'j'}, vxfw.EventPhase(0)); err != nil {
			t.Fatalf("unexpected error on tab %d: %v", tab, err)
		}
	}
}

func TestApp_HandleEvent_Init_StartsStats(t *testing.T) {
	b := bus.New()
	a := app.New(app.Params{Bus: b, StaleTTL: testStaleTTL})

	if _, err := a.HandleEvent(vxfw.Init{}, vxfw.EventPhase(0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b.EmitUpdate(bus.UpdateEvent{Topic: "commands", Data: json.RawMessage("7")})

	if a.Stats().Updates() != 1 {
		t.Errorf("expected stats view subscribed after Init, got %d updates", a.Stats().Updates())
	}
}

func TestApp_HandleEvent_Init_WithConnectFn(t *testing.T) {
	svc := newTestServicesWithData()
	var called atomic.Bool

	a := app.New(app.Params{
		StaleTTL: testStaleTTL,
		Connect: func(ctx context.Context) (*internal.Services, error) {
			called.Store(true)
			return svc, nil
		},
	})

	done := make(chan struct{}, 1)
	a.SetPostEvent(func(ev vaxis.Event) {
		if _, ok := ev.(app.Connected); ok {
			done <- struct{}{}
		}
	})

	if _, err := a.HandleEvent(vxfw.Init{}, vxfw.EventPhase(0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for connect callback")
	}
	if !called.Load() {
		t.Error("expected Connect callback to be called")
	}
}

func TestApp_HandleEvent_Init_WithConnectFn_Error(t *testing.T) {
	a := app.New(app.Params{
		StaleTTL: testStaleTTL,
		Connect: func(ctx context.Context) (*internal.Services, error) {
			return nil, fmt.Errorf("connection refused")
		},
	})

	done := make(chan struct{}, 1)
	a.SetPostEvent(func(ev vaxis.Event) {
		if _, ok := ev.(app.ConnectFailed); ok {
			done <- struct{}{}
		}
	})

	_, _ = a.HandleEvent(vxfw.Init{}, vxfw.EventPhase(0))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for ConnectFailed event")
	}
}

func TestApp_HandleEvent_Init_WithServices_LoadsAll(t *testing.T) {
	a := newApp(newTestServicesWithData())
	wait := collectLoaded(a, 3)

	cmd, err := a.HandleEvent(vxfw.Init{}, vxfw.EventPhase(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd != nil {
		t.Errorf("expected nil command from Init, got %T", cmd)
	}
	if got := len(wait(t)); got != 3 {
		t.Errorf("expected 3 ViewLoaded events, got %d", got)
	}
}

func TestApp_HandleEvent_Connected(t *testing.T) {
	a := app.New(app.Params{Channel: "potato", StaleTTL: testStaleTTL})
	wait := collectLoaded(a, 3)

	cmd, err := a.HandleEvent(app.Connected{Services: newTestServicesWithData()}, vxfw.EventPhase(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cmd.(vxfw.RedrawCmd); !ok {
		t.Errorf("expected RedrawCmd, got %T", cmd)
	}
	if !a.IsConnected() {
		t.Error("expected connected after Connected event")
	}

	tabs := map[int]bool{}
	for _, ev := range wait(t) {
		if ev.Err != nil {
			t.Errorf("tab %d had unexpected error: %v", ev.Tab, ev.Err)
		}
		tabs[ev.Tab] = true
	}
	for _, tab := range []int{app.TabCommands, app.TabPartners, app.TabHistory} {
		if !tabs[tab] {
			t.Errorf("missing ViewLoaded event for tab %d", tab)
		}
	}
}

func TestApp_HandleEvent_ConnectFailed(t *testing.T) {
	a := app.New(app.Params{StaleTTL: testStaleTTL})

	cmd, err := a.HandleEvent(app.ConnectFailed{Err: fmt.Errorf("refused")}, vxfw.EventPhase(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cmd.(vxfw.RedrawCmd); !ok {
		t.Errorf("expected RedrawCmd, got %T", cmd)
	}
	if a.IsConnected() {
		t.Error("expected not connected after ConnectFailed")
	}
}

func TestApp_HandleEvent_Redraws(t *testing.T) {
	a := newApp(newTestServices())

	for _, ev := range []vaxis.Event{
		views.ViewLoaded{Tab: 1},
		views.ViewLoaded{Tab: 2, Err: context.DeadlineExceeded},
		views.StatsUpdated{},
	} {
		cmd, err := a.HandleEvent(ev, vxfw.EventPhase(0))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := cmd.(vxfw.RedrawCmd); !ok {
			t.Errorf("expected RedrawCmd for %T, got %T", ev, cmd)
		}
	}
}

func TestApp_HandleEvent_NotConnected(t *testing.T) {
	a := app.New(app.Params{StaleTTL: testStaleTTL})
	a.SetTab(app.TabCommands)

	cmd, err := a.HandleEvent(vaxis.Key{Keycode: 'j'}, vxfw.EventPhase(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd != nil {
		t.Errorf("expected nil command when not connected, got %T", cmd)
	}
}

func TestApp_LoadAll_WithErrors(t *testing.T) {
	svc, m := internal.NewMockServices()
	m.Commands.ListFunc = func(ctx context.Context) ([]api.Command, error) {
		return nil, context.DeadlineExceeded
	}
	m.History.GetFunc = func(ctx context.Context, login string) (*api.HistoryResponse, error) {
		return nil, context.Canceled
	}
	a := newApp(svc)
	wait := collectLoaded(a, 3)

	a.LoadAll(context.Background())

	errCount := 0
	for _, ev := range wait(t) {
		if ev.Err != nil {
			errCount++
		}
	}
	if errCount != 2 {
		t.Errorf("expected 2 errors from LoadAll, got %d", errCount)
	}
}

func TestApp_LoadAll_NotConnected(t *testing.T) {
	a := app.New(app.Params{StaleTTL: testStaleTTL})
	// Should not panic
	a.LoadAll(context.Background())
}

func TestApp_TabSwitch_RefetchesStale(t *testing.T) {
	var calls atomic.Int32
	svc, m := internal.NewMockServices()
	m.Commands.ListFunc = func(ctx context.Context) ([]api.Command, error) {
		calls.Add(1)
		return []api.Command{{Name: "ping"}}, nil
	}

	a := app.New(app.Params{Services: svc, StaleTTL: 0})
	wait := collectLoaded(a, 1)
	a.SetTab(app.TabCommands)
	_ = a.LoadActiveView(context.Background())
	initial := calls.Load()

	time.Sleep(time.Millisecond)

	a.SetTab(app.TabStats)
	_, _ = a.CaptureEvent(vaxis.Key{Keycode: '2'})
	wait(t)

	if calls.Load() <= initial {
		t.Error("expected refetch on stale tab switch")
	}
}

func TestApp_TabSwitch_NoRefetchWhenFresh(t *testing.T) {
	var calls atomic.Int32
	svc, m := internal.NewMockServices()
	m.Commands.ListFunc = func(ctx context.Context) ([]api.Command, error) {
		calls.Add(1)
		return []api.Command{{Name: "ping"}}, nil
	}

	a := app.New(app.Params{Services: svc, StaleTTL: time.Hour})
	a.SetTab(app.TabCommands)
	_ = a.LoadActiveView(context.Background())
	afterLoad := calls.Load()

	a.SetTab(app.TabStats)
	_, _ = a.CaptureEvent(vaxis.Key{Keycode: '2'})

	if calls.Load() != afterLoad {
		t.Errorf("expected no refetch when fresh, got %d extra calls", calls.Load()-afterLoad)
	}
}
