package views_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/potatbotat/potat-tui/internal/api"
	"github.com/potatbotat/potat-tui/views"
)

func newCommandsView(cmds []api.Command, err error) *views.CommandsView {
	return views.NewCommandsView(views.CommandsViewParams{
		Service: &api.MockCommandService{
			ListFunc: func(ctx context.Context) ([]api.Command, error) {
				return cmds, err
			},
		},
		StaleTTL: 30 * time.Second,
	})
}

func sampleCommands() []api.Command {
	return []api.Command{
		{Name: "ping", Category: "utilities", Description: "pong", Cooldown: 5000},
		{Name: "debug", Category: "unlisted"},
		{Name: "ban", Category: "moderation", Aliases: []string{"b"},
			Flags: []api.FlagDetails{{Name: "reason", Type: "string", Required: true, Description: "why"}}},
		{Name: "echo", Category: "utilities", Usage: "echo <text>"},
	}
}

func TestCommandsView_Load_FiltersAndSorts(t *testing.T) {
	cv := newCommandsView(sampleCommands(), nil)
	if err := cv.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := cv.Commands()
	want := []string{"ban", "echo", "ping"}
	if len(got) != len(want) {
		t.Fatalf("expected %d commands, got %d", len(want), len(got))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("command %d: expected %s, got %s", i, name, got[i].Name)
		}
	}
}

func TestCommandsView_Load_Error(t *testing.T) {
	boom := errors.New("boom")
	cv := newCommandsView(nil, boom)
	err := cv.Load(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
	if cv.Loaded() {
		t.Error("expected Loaded()=false after failed Load()")
	}
}

func TestCommandsView_Stale(t *testing.T) {
	cv := views.NewCommandsView(views.CommandsViewParams{
		Service:  &api.MockCommandService{},
		StaleTTL: time.Millisecond,
	})
	if !cv.Stale() {
		t.Error("expected stale before load")
	}
	_ = cv.Load(context.Background())
	if cv.Stale() {
		t.Error("expected fresh right after load")
	}
	time.Sleep(5 * time.Millisecond)
	if !cv.Stale() {
		t.Error("expected stale after TTL")
	}
}

func TestCommandsView_Selected(t *testing.T) {
	cv := newCommandsView(sampleCommands(), nil)
	if _, ok := cv.Selected(); ok {
		t.Error("expected no selection before load")
	}
	_ = cv.Load(context.Background())
	c, ok := cv.Selected()
	if !ok || c.Name != "ban" {
		t.Errorf("expected first command selected, got %v %v", c.Name, ok)
	}
}

func TestFormatCooldown(t *testing.T) {
	tests := map[int]string{
		0:     "none",
		-1:    "none",
		5000:  "5s",
		90000: "1m30s",
	}
	for ms, want := range tests {
		if got := views.FormatCooldown(ms); got != want {
			t.Errorf("FormatCooldown(%d)=%q, want %q", ms, got, want)
		}
	}
}

func TestCommandsView_Draw(t *testing.T) {
	cv := newCommandsView(sampleCommands(), nil)

	s, err := cv.Draw(testDrawContext(80, 30))
	if err != nil {
		t.Fatalf("Draw before load: %v", err)
	}
	if s.Size.Height != 30 {
		t.Errorf("expected height=30, got %d", s.Size.Height)
	}

	_ = cv.Load(context.Background())
	for _, h := range []uint16{30, 5, 1} {
		if _, err := cv.Draw(testDrawContext(80, h)); err != nil {
			t.Fatalf("Draw(h=%d): %v", h, err)
		}
	}
}

func TestCommandsView_Draw_Empty(t *testing.T) {
	cv := newCommandsView(nil, nil)
	_ = cv.Load(context.Background())
	if _, err := cv.Draw(testDrawContext(40, 10)); err != nil {
		t.Fatalf("Draw: %v", err)
	}
}
