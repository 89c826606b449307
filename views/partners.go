package views

import (
	"context"
	"fmt"
	"sort"
	"time"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"git.sr.ht/~rockorager/vaxis/vxfw/list"
	"git.sr.ht/~rockorager/vaxis/vxfw/richtext"
	"github.com/dustin/go-humanize"

	"github.com/potatbotat/potat-tui/internal/api"
	"github.com/potatbotat/potat-tui/internal/paint"
	"github.com/potatbotat/potat-tui/widgets"
)

// PartnersViewParams holds configuration for creating a PartnersView.
type PartnersViewParams struct {
	Service  api.PartnerServiceAPI
	StaleTTL time.Duration
}

// PartnersView lists partner channels by follower count.
type PartnersView struct {
	freshness
	service  api.PartnerServiceAPI
	partners []api.Partner
	list     list.Dynamic
}

// NewPartnersView creates a PartnersView backed by the given params.
func NewPartnersView(p PartnersViewParams) *PartnersView {
	pv := &PartnersView{
		freshness: freshness{ttl: p.StaleTTL},
		service:   p.Service,
	}
	pv.list.DrawCursor = true
	pv.list.Builder = pv.buildItem
	return pv
}

// Load fetches partners from the service, most followed first.
func (pv *PartnersView) Load(ctx context.Context) error {
	partners, err := pv.service.List(ctx)
	if err != nil {
		return fmt.Errorf("loading partners: %w", err)
	}
	sort.SliceStable(partners, func(i, j int) bool {
		return partners[i].Followers > partners[j].Followers
	})
	pv.partners = partners
	pv.touch()
	return nil
}

// Partners returns the loaded partners in display order.
func (pv *PartnersView) Partners() []api.Partner {
	return pv.partners
}

// ItemCount returns the number of loaded partners.
func (pv *PartnersView) ItemCount() int {
	return len(pv.partners)
}

// FormatJoined renders an RFC 3339 timestamp relative to now, or the raw
// value when it does not parse.
func FormatJoined(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return humanize.Time(t)
}

// chatColorStyle brightens dark chat colours so names stay legible.
func chatColorStyle(hex string) vaxis.Style {
	style := vaxis.Style{Attribute: vaxis.AttrBold}
	if c, ok := widgets.HexColor(paint.BrightenColor(hex, 25)); ok {
		style.Foreground = c
	}
	return style
}

func (pv *PartnersView) buildItem(i uint, cursor uint) vxfw.Widget {
	if int(i) >= len(pv.partners) {
		return nil
	}
	p := pv.partners[i]

	name := p.Display
	if name == "" {
		name = p.Username
	}
	return richtext.New([]vaxis.Segment{
		{Text: fmt.Sprintf(" %-24s", name), Style: chatColorStyle(p.UserColor)},
		{Text: fmt.Sprintf("%12s", humanize.Comma(p.Followers))},
		{Text: fmt.Sprintf("%10s", humanize.Comma(p.CommandCount))},
		{Text: fmt.Sprintf("  %s", FormatJoined(p.JoinedAt)), Style: vaxis.Style{Attribute: vaxis.AttrDim}},
	})
}

// Draw renders the partner list, or a loading state if data hasn't arrived.
func (pv *PartnersView) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	if !pv.loaded {
		return drawLoadingState(ctx, pv)
	}

	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, pv)

	headerSurf, err := drawHeader(ctx, fmt.Sprintf(" %-24s%12s%10s  %s", "CHANNEL", "FOLLOWERS", "COMMANDS", "JOINED"))
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 0, headerSurf)

	listCtx := ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: ctx.Max.Height - 1})
	listSurf, err := pv.list.Draw(listCtx)
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 1, listSurf)

	return s, nil
}

// HandleEvent delegates to the list widget for navigation.
func (pv *PartnersView) HandleEvent(ev vaxis.Event, phase vxfw.EventPhase) (vxfw.Command, error) {
	return pv.list.HandleEvent(ev, phase)
}
