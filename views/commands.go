package views

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"git.sr.ht/~rockorager/vaxis/vxfw/list"
	"git.sr.ht/~rockorager/vaxis/vxfw/richtext"

	"github.com/potatbotat/potat-tui/internal/api"
	"github.com/potatbotat/potat-tui/widgets"
)

// CommandsViewParams holds configuration for creating a CommandsView.
type CommandsViewParams struct {
	Service  api.CommandServiceAPI
	StaleTTL time.Duration
}

// CommandsView lists the bot's commands with a detail pane for the one under
// the cursor.
type CommandsView struct {
	freshness
	service  api.CommandServiceAPI
	commands []api.Command
	list     list.Dynamic
	cursor   uint
}

// categoryUnlisted commands are hidden from the help listing.
const categoryUnlisted = "unlisted"

// NewCommandsView creates a CommandsView backed by the given params.
func NewCommandsView(p CommandsViewParams) *CommandsView {
	cv := &CommandsView{
		freshness: freshness{ttl: p.StaleTTL},
		service:   p.Service,
	}
	cv.list.DrawCursor = true
	cv.list.Builder = cv.buildItem
	return cv
}

// Load fetches the command list, dropping unlisted commands and sorting by
// category then name.
func (cv *CommandsView) Load(ctx context.Context) error {
	cmds, err := cv.service.List(ctx)
	if err != nil {
		return fmt.Errorf("loading commands: %w", err)
	}
	visible := make([]api.Command, 0, len(cmds))
	for _, c := range cmds {
		if c.Category != categoryUnlisted {
			visible = append(visible, c)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		if visible[i].Category != visible[j].Category {
			return visible[i].Category < visible[j].Category
		}
		return visible[i].Name < visible[j].Name
	})
	cv.commands = visible
	cv.touch()
	return nil
}

// Commands returns the loaded commands in display order.
func (cv *CommandsView) Commands() []api.Command {
	return cv.commands
}

// ItemCount returns the number of listed commands.
func (cv *CommandsView) ItemCount() int {
	return len(cv.commands)
}

// Selected returns the command under the cursor, if any.
func (cv *CommandsView) Selected() (api.Command, bool) {
	if int(cv.cursor) >= len(cv.commands) {
		return api.Command{}, false
	}
	return cv.commands[cv.cursor], true
}

// FormatCooldown renders a cooldown given in milliseconds.
func FormatCooldown(ms int) string {
	if ms <= 0 {
		return "none"
	}
	return (time.Duration(ms) * time.Millisecond).String()
}

func (cv *CommandsView) buildItem(i uint, cursor uint) vxfw.Widget {
	cv.cursor = cursor
	if int(i) >= len(cv.commands) {
		return nil
	}
	c := cv.commands[i]

	return richtext.New([]vaxis.Segment{
		{Text: fmt.Sprintf(" %-18s", c.Name), Style: vaxis.Style{Attribute: vaxis.AttrBold}},
		{Text: fmt.Sprintf("%-13s", c.Category), Style: vaxis.Style{Foreground: vaxis.IndexColor(6)}},
		{Text: fmt.Sprintf("%8s  ", FormatCooldown(c.Cooldown))},
		{Text: c.Description, Style: vaxis.Style{Attribute: vaxis.AttrDim}},
	})
}

// detailHeight is the number of rows reserved for the detail pane: a blank
// separator, the summary, the usage line and the flags table.
const detailHeight = 8

func (cv *CommandsView) drawDetail(ctx vxfw.DrawContext, s *vxfw.Surface, row int) error {
	c, ok := cv.Selected()
	if !ok {
		return nil
	}

	desc := c.Description
	if c.DetailedDescription != "" {
		desc = c.DetailedDescription
	}
	segments := []vaxis.Segment{
		{Text: " " + c.Name, Style: vaxis.Style{Attribute: vaxis.AttrBold}},
	}
	if len(c.Aliases) > 0 {
		segments = append(segments, vaxis.Segment{
			Text: " (" + strings.Join(c.Aliases, ", ") + ")", Style: vaxis.Style{Attribute: vaxis.AttrDim},
		})
	}
	segments = append(segments, vaxis.Segment{Text: "  " + desc})
	line := ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1})
	textSurf, err := richtext.New(segments).Draw(line)
	if err != nil {
		return err
	}
	s.AddChild(0, row+1, textSurf)

	if c.Usage != "" {
		usage := richtext.New([]vaxis.Segment{
			{Text: " usage: " + c.Usage, Style: vaxis.Style{Foreground: vaxis.IndexColor(3)}},
		})
		usageSurf, err := usage.Draw(line)
		if err != nil {
			return err
		}
		s.AddChild(0, row+2, usageSurf)
	}

	if len(c.Flags) == 0 {
		return nil
	}
	tbl := &widgets.Table{
		Columns: []widgets.TableColumn{
			{Width: 16, Style: vaxis.Style{Attribute: vaxis.AttrBold}},
			{Width: 8},
			{Width: 9},
			{Width: 0, Style: vaxis.Style{Attribute: vaxis.AttrDim}},
		},
		Header: []string{" FLAG", "TYPE", "REQUIRED", "DESCRIPTION"},
		Gap:    1,
	}
	for _, f := range c.Flags {
		req := ""
		if f.Required {
			req = "yes"
		}
		tbl.Rows = append(tbl.Rows, []string{" -" + f.Name, f.Type, req, f.Description})
	}
	tblSurf, err := tbl.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: detailHeight - 3}))
	if err != nil {
		return err
	}
	s.AddChild(0, row+3, tblSurf)
	return nil
}

// Draw renders the command list above the detail pane.
func (cv *CommandsView) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	if !cv.loaded {
		return drawLoadingState(ctx, cv)
	}
	if len(cv.commands) == 0 {
		return drawMessage(ctx, cv, "No commands.")
	}

	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, cv)

	headerSurf, err := drawHeader(ctx, fmt.Sprintf(" %-18s%-13s%8s  %s", "NAME", "CATEGORY", "COOLDOWN", "DESCRIPTION"))
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 0, headerSurf)

	listHeight := int(ctx.Max.Height) - 1
	showDetail := listHeight > detailHeight*2
	if showDetail {
		listHeight -= detailHeight
	}
	if listHeight <= 0 {
		return s, nil
	}

	listSurf, err := cv.list.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: uint16(listHeight)}))
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 1, listSurf)

	if showDetail {
		if err := cv.drawDetail(ctx, &s, 1+listHeight); err != nil {
			return vxfw.Surface{}, err
		}
	}
	return s, nil
}

// HandleEvent delegates to the list widget for navigation.
func (cv *CommandsView) HandleEvent(ev vaxis.Event, phase vxfw.EventPhase) (vxfw.Command, error) {
	return cv.list.HandleEvent(ev, phase)
}
