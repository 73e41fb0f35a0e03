package cli

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchbook/pkg/pipeline"
	"github.com/matzehuels/sketchbook/pkg/render/sink"
	"github.com/matzehuels/sketchbook/pkg/session"
	"github.com/matzehuels/sketchbook/pkg/sketch"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// previewWidth is the terminal preview width in cells.
const previewWidth = 48

// pickCommand browses sketches and previews them in the terminal.
func (c *CLI) pickCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Browse sketches and reroll them interactively",
		Long: `Pick a sketch from a list, then preview it in the terminal.

In the preview: r rerolls, c cycles the palette, d toggles debug drawing,
l toggles the overlay layer, s and p save SVG and PNG, q goes back.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = c.cfg().Output
			}
			runner, err := c.newRunner(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer runner.Close()

			m := newPickModel(cmd.Context(), c, runner, output)
			final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			for _, p := range final.(pickModel).saved {
				printFile(p)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory for saved artifacts")
	return cmd
}

// =============================================================================
// pickModel - sketch list and live preview
// =============================================================================

type outcomeMsg struct {
	out session.Outcome
	err error
}

type savedMsg struct {
	paths []string
	err   error
}

type pickModel struct {
	ctx    context.Context
	cli    *CLI
	runner *pipeline.Runner
	output string
	keys   session.Keymap

	infos  []sketch.Info
	cursor int

	sess    *session.Session
	preview string
	status  string
	busy    bool
	saved   []string
}

func newPickModel(ctx context.Context, c *CLI, runner *pipeline.Runner, output string) pickModel {
	all := runner.Registry.All()
	infos := make([]sketch.Info, len(all))
	for i, s := range all {
		infos[i] = s.Info()
	}
	return pickModel{ctx: ctx, cli: c, runner: runner, output: output, keys: session.DefaultKeymap(), infos: infos}
}

func (m pickModel) Init() tea.Cmd {
	return nil
}

func (m pickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.sess == nil {
			return m.updateList(msg)
		}
		return m.updatePreview(msg)
	case outcomeMsg:
		m.busy = false
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		if c := msg.out.Composition; c != nil {
			m.preview = m.renderPreview(c)
			m.status = fmt.Sprintf("%s · %s", msg.out.Action, c.Palette.Name)
		}
		return m, nil
	case savedMsg:
		m.busy = false
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.saved = append(m.saved, msg.paths...)
		m.status = "saved " + strings.Join(msg.paths, ", ")
	}
	return m, nil
}

func (m pickModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.infos)-1 {
			m.cursor++
		}
	case "enter":
		s, err := m.runner.Registry.Lookup(m.infos[m.cursor].Name)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.sess = session.New(s,
			session.WithPalettes(m.cli.palettes()),
			session.WithLogger(m.cli.Logger),
			session.WithPatch(m.cli.cfg().patchFor(s.Info().Name, nil)))
		m.busy = true
		m.status = "generating"
		sess := m.sess
		return m, func() tea.Msg {
			c, err := sess.Reroll()
			return outcomeMsg{out: session.Outcome{Action: session.ActionReroll, Composition: c}, err: err}
		}
	}
	return m, nil
}

func (m pickModel) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if m.keys.Lookup(key) == session.ActionQuit {
		if key == "ctrl+c" {
			return m, tea.Quit
		}
		m.sess, m.preview, m.status = nil, "", ""
		return m, nil
	}
	if m.busy || m.keys.Lookup(key) == session.ActionNone {
		return m, nil
	}
	m.busy = true
	sess := m.sess
	return m, func() tea.Msg {
		out, err := sess.Dispatch(m.keys, key)
		if err != nil {
			return outcomeMsg{err: err}
		}
		if out.Format != "" {
			return m.save(out)
		}
		return outcomeMsg{out: out}
	}
}

// save renders one artifact and writes it to the output directory.
func (m pickModel) save(out session.Outcome) tea.Msg {
	opts := pipeline.Options{
		Formats: []string{out.Format},
		Font:    m.cli.font(),
		Logger:  m.cli.Logger,
	}
	r, _, err := m.runner.RenderWithCacheInfo(m.ctx, out.Composition, opts)
	if err != nil {
		return savedMsg{err: err}
	}
	paths, err := pipeline.WriteArtifacts(m.output, time.Now(), r.Artifacts, m.cli.Logger)
	return savedMsg{paths: paths, err: err}
}

func (m pickModel) renderPreview(c *sketch.Composition) string {
	data, err := pipeline.RenderFormat(sink.FormatPNG, m.sess.Sketch(), c, pipeline.Options{Font: m.cli.font()})
	if err != nil {
		return listDimStyle.Render(err.Error())
	}
	s, err := termPreview(data, previewWidth)
	if err != nil {
		return listDimStyle.Render(err.Error())
	}
	return s
}

// termPreview draws a PNG with half-block characters, two pixel rows per
// terminal line.
func termPreview(data []byte, width int) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	small := imaging.Resize(img, width, 0, imaging.Box)
	b := small.Bounds()
	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			style := lipgloss.NewStyle().Foreground(hexColor(small.At(x, y)))
			if y+1 < b.Max.Y {
				style = style.Background(hexColor(small.At(x, y+1)))
			}
			sb.WriteString(style.Render("▀"))
		}
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

func hexColor(c color.Color) lipgloss.Color {
	r, g, b, _ := c.RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
}

func (m pickModel) View() string {
	if m.sess != nil {
		return m.viewPreview()
	}
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Sketch"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ preview  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.infos))
	for i, info := range m.infos {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		rows[i] = []string{cursor, info.Name, info.Title, formatDays(info.Days)}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Sketch", "Title", "Days").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case row == m.cursor:
				return listSelectedStyle
			case col == 3:
				return listDimStyle
			}
			return listNormalStyle
		})
	b.WriteString(t.Render())
	if m.status != "" {
		b.WriteString("\n\n")
		b.WriteString(StyleWarning.Render(m.status))
	}
	return b.String()
}

func (m pickModel) viewPreview() string {
	var b strings.Builder
	title := m.sess.Sketch().Info().Name
	if c := m.sess.Composition(); c != nil {
		title += fmt.Sprintf(" · seed %d · %d entities", c.Seed, c.Count())
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("r reroll  c palette  d debug  l layer  s svg  p png  q back"))
	b.WriteString("\n\n")
	b.WriteString(m.preview)
	b.WriteString("\n")
	status := m.status
	if m.busy {
		status = "working…"
	}
	b.WriteString(listDimStyle.Render(status))
	return b.String()
}
