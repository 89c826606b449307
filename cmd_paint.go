package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"
	"golang.org/x/net/html"

	"github.com/potatbotat/potat-tui/internal/paint"
)

var (
	paintPreview string
	paintHTML    string
	paintTarget  string
	paintOut     string
)

var paintCmd = &cobra.Command{
	Use:   "paint <file.json|->",
	Short: "Render a 7TV paint as CSS, a terminal preview or into HTML",
	Example: `  # Print the CSS declarations
  potat paint paint.json

  # Preview a name in the terminal
  potat paint paint.json --preview potatbotat

  # Paint an element of an HTML page
  potat paint paint.json --html page.html --target "#username" --out painted.html`,
	Args: cobra.ExactArgs(1),
	RunE: runPaint,
}

func init() {
	paintCmd.Flags().StringVar(&paintPreview, "preview", "", "print this text coloured with the paint")
	paintCmd.Flags().StringVar(&paintHTML, "html", "", "HTML file to apply the paint to")
	paintCmd.Flags().StringVar(&paintTarget, "target", "", "element id or CSS selector inside --html")
	paintCmd.Flags().StringVar(&paintOut, "out", "", "write the painted HTML here instead of stdout")
	rootCmd.AddCommand(paintCmd)
}

// readPaint decodes a paint from path, or stdin for "-".
func readPaint(path string, stdin io.Reader) (*paint.Paint, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening paint: %w", err)
		}
		defer f.Close()
		r = f
	}
	var p paint.Paint
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decoding paint: %w", err)
	}
	return &p, nil
}

// previewFallback colours previews of image paints.
var previewFallback = colorful.Color{R: 1, G: 1, B: 1}

// renderPreview colours each rune of text along the paint's gradient.
func renderPreview(p *paint.Paint, text string) string {
	runes := []rune(text)
	colors := p.Colors(len(runes), previewFallback)
	var sb strings.Builder
	for i, r := range runes {
		style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colors[i].Hex()))
		sb.WriteString(style.Render(string(r)))
	}
	return sb.String()
}

// paintDocument applies p to target in the HTML read from r and writes the
// result to w. It reports whether the target was found.
func paintDocument(p *paint.Paint, r io.Reader, target string, w io.Writer) (bool, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return false, fmt.Errorf("parsing html: %w", err)
	}
	found := paint.Apply(p, doc, target)
	if err := html.Render(w, doc); err != nil {
		return found, fmt.Errorf("rendering html: %w", err)
	}
	return found, nil
}

func runPaint(cmd *cobra.Command, args []string) error {
	p, err := readPaint(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	switch {
	case paintHTML != "":
		if paintTarget == "" {
			return fmt.Errorf("--target is required with --html")
		}
		in, err := os.Open(paintHTML)
		if err != nil {
			return fmt.Errorf("opening html: %w", err)
		}
		defer in.Close()

		w := out
		if paintOut != "" {
			f, err := os.Create(paintOut)
			if err != nil {
				return fmt.Errorf("creating output: %w", err)
			}
			defer f.Close()
			w = f
		}
		found, err := paintDocument(p, in, paintTarget, w)
		if err != nil {
			return err
		}
		if !found {
			fmt.Fprintln(cmd.ErrOrStderr(), warnStyle.Render(fmt.Sprintf("no element matches %q; document unchanged", paintTarget)))
		}
	case paintPreview != "":
		fmt.Fprintln(out, renderPreview(p, paintPreview))
	default:
		fmt.Fprintln(out, paint.ComputeStyle(p))
	}
	return nil
}
