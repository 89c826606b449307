package views

import (
	"context"
	"fmt"
	"log"
	"time"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"git.sr.ht/~rockorager/vaxis/vxfw/list"
	"git.sr.ht/~rockorager/vaxis/vxfw/richtext"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/potatbotat/potat-tui/internal/api"
	"github.com/potatbotat/potat-tui/widgets"
)

// HistoryViewParams holds configuration for creating a HistoryView.
type HistoryViewParams struct {
	Users    api.UserServiceAPI
	History  api.HistoryServiceAPI
	Channel  string
	StaleTTL time.Duration
	Logger   *log.Logger
}

// HistoryView shows a channel's emote changes under a header drawn with
// the channel owner's paint.
type HistoryView struct {
	freshness
	users   api.UserServiceAPI
	history api.HistoryServiceAPI
	logger  *log.Logger

	login   string
	user    *api.TwitchUser
	channel api.Channel
	entries []api.EmoteHistory
	list    list.Dynamic
}

// NewHistoryView creates a HistoryView for the given channel login.
func NewHistoryView(p HistoryViewParams) *HistoryView {
	if p.Logger == nil {
		p.Logger = log.Default()
	}
	hv := &HistoryView{
		freshness: freshness{ttl: p.StaleTTL},
		users:     p.Users,
		history:   p.History,
		logger:    p.Logger,
		login:     p.Channel,
	}
	hv.list.DrawCursor = true
	hv.list.Builder = hv.buildItem
	return hv
}

// Channel returns the configured channel login.
func (hv *HistoryView) Channel() string {
	return hv.login
}

// SetChannel switches to another channel; the next Load fetches it.
func (hv *HistoryView) SetChannel(login string) {
	if login == hv.login {
		return
	}
	hv.login = login
	hv.freshness.loaded = false
	hv.user = nil
	hv.entries = nil
}

// Load fetches the channel's profile and emote history in parallel. A
// failed profile lookup only costs the paint; a failed history lookup fails
// the load.
func (hv *HistoryView) Load(ctx context.Context) error {
	if hv.login == "" {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)

	var user *api.TwitchUser
	var resp *api.HistoryResponse

	g.Go(func() error {
		u, err := hv.users.Get(gctx, hv.login)
		if err != nil {
			hv.logger.Printf("users/%s: %v", hv.login, err)
			return nil
		}
		user = u
		return nil
	})

	g.Go(func() error {
		r, err := hv.history.Get(gctx, hv.login)
		if err != nil {
			return fmt.Errorf("emotes/history/%s: %w", hv.login, err)
		}
		resp = r
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	hv.user = user
	if resp != nil {
		hv.channel = resp.Channel
		hv.entries = resp.History
	} else {
		hv.channel = api.Channel{}
		hv.entries = nil
	}
	hv.touch()
	return nil
}

// User returns the channel owner's profile, if it loaded.
func (hv *HistoryView) User() *api.TwitchUser {
	return hv.user
}

// Entries returns the loaded history, newest first as served.
func (hv *HistoryView) Entries() []api.EmoteHistory {
	return hv.entries
}

// ItemCount returns the number of history entries.
func (hv *HistoryView) ItemCount() int {
	return len(hv.entries)
}

// ChannelName is the best display name for the header.
func (hv *HistoryView) ChannelName() string {
	switch {
	case hv.channel.BestName != "":
		return hv.channel.BestName
	case hv.user != nil:
		return hv.user.DisplayName(hv.login)
	default:
		return hv.login
	}
}

// actionGlyph returns the marker and colour for a history action.
func actionGlyph(action string) (string, vaxis.Color) {
	switch action {
	case api.ActionAdd:
		return "+", vaxis.IndexColor(2)
	case api.ActionRemove:
		return "-", vaxis.IndexColor(1)
	case api.ActionAlias:
		return "~", vaxis.IndexColor(3)
	default:
		return "?", vaxis.IndexColor(8)
	}
}

// EmoteLabel describes the emote, including renames for alias entries.
func EmoteLabel(e api.EmoteHistory) string {
	if e.Action != api.ActionAlias {
		return e.EmoteName
	}
	from := e.EmoteName
	if e.EmoteAlias != nil && *e.EmoteAlias != "" {
		from = *e.EmoteAlias
	}
	to := e.EmoteName
	if e.EmoteNewAlias != nil && *e.EmoteNewAlias != "" {
		to = *e.EmoteNewAlias
	}
	return from + " → " + to
}

func (hv *HistoryView) buildItem(i uint, cursor uint) vxfw.Widget {
	if int(i) >= len(hv.entries) {
		return nil
	}
	e := hv.entries[i]
	glyph, color := actionGlyph(e.Action)

	by := e.BestUserName
	if by == "" {
		by = e.UserLogin
	}
	segments := []vaxis.Segment{
		{Text: " " + glyph + " ", Style: vaxis.Style{Foreground: color, Attribute: vaxis.AttrBold}},
		{Text: fmt.Sprintf("%-28s", EmoteLabel(e))},
		{Text: fmt.Sprintf("%-5s", e.Provider), Style: vaxis.Style{Foreground: vaxis.IndexColor(6)}},
		{Text: fmt.Sprintf("%-20s", by), Style: chatColorStyle(e.UserColor)},
		{Text: e.Ago, Style: vaxis.Style{Attribute: vaxis.AttrDim}},
	}
	if e.IsExpired {
		segments = append(segments, vaxis.Segment{Text: "  expired", Style: vaxis.Style{Attribute: vaxis.AttrDim}})
	}
	return richtext.New(segments)
}

// Draw renders the painted channel header above the history list.
func (hv *HistoryView) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	if hv.login == "" {
		return drawMessage(ctx, hv, "No channel selected. Set [ui] channel or pass --channel.")
	}
	if !hv.loaded {
		return drawLoadingState(ctx, hv)
	}

	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, hv)

	name := hv.ChannelName()
	title := &widgets.PaintedText{Text: " " + name, Bold: true}
	if hv.user != nil {
		title.Paint = hv.user.UserPaint
		title.Fallback = hv.user.Color()
	}
	line := ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1})
	titleSurf, err := title.Draw(line)
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 0, titleSurf)

	nameWidth := 0
	for _, ch := range ctx.Characters(" " + name) {
		nameWidth += ch.Width
	}
	summary := richtext.New([]vaxis.Segment{
		{Text: fmt.Sprintf("  emote history, %s changes", humanize.Comma(int64(len(hv.entries)))),
			Style: vaxis.Style{Attribute: vaxis.AttrDim}},
	})
	if w := int(ctx.Max.Width) - nameWidth; w > 0 {
		summarySurf, err := summary.Draw(ctx.WithMax(vxfw.Size{Width: uint16(w), Height: 1}))
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(nameWidth, 0, summarySurf)
	}

	if len(hv.entries) == 0 {
		msgSurf, err := drawMessage(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}), hv, " No emote changes recorded.")
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(0, 2, msgSurf)
		return s, nil
	}

	if ctx.Max.Height > 2 {
		listCtx := ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: ctx.Max.Height - 2})
		listSurf, err := hv.list.Draw(listCtx)
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(0, 2, listSurf)
	}
	return s, nil
}

// HandleEvent delegates to the list widget for navigation.
func (hv *HistoryView) HandleEvent(ev vaxis.Event, phase vxfw.EventPhase) (vxfw.Command, error) {
	return hv.list.HandleEvent(ev, phase)
}
