package cli

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/drpeachy/tagbubbles/pkg/animate"
	"github.com/drpeachy/tagbubbles/pkg/bubbles"
	"github.com/drpeachy/tagbubbles/pkg/render/sink"
)

// frameInterval is the preview's frame period.
const frameInterval = 16 * time.Millisecond

// Preview styles
var (
	previewLineStyle   = lipgloss.NewStyle().Foreground(colorDim)
	previewCursorStyle = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	previewBorderStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	previewHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PreviewModel - Live terminal canvas
// =============================================================================

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// PreviewModel is the bubbletea model for the live preview. It drives the
// component from its own ticks, so every engine step happens on the
// bubbletea goroutine.
type PreviewModel struct {
	ctx   context.Context
	name  string
	comp  *animate.Component
	sched *animate.ManualScheduler
	host  *animate.EventHost

	// Terminal grid, excluding the border and the two status lines.
	cols, rows int
	// Canvas pixels per cell. A cell is twice as tall as it is wide.
	cellW float64

	pointer bool
	mouseX  float64 // target cursor cell
	mouseY  float64
	curX    float64 // sprung cursor cell
	curY    float64
	velX    float64
	velY    float64
	spring  harmonica.Spring

	status string
	styles map[string]lipgloss.Style
}

// NewPreviewModel wraps a mounted component.
func NewPreviewModel(ctx context.Context, name string, comp *animate.Component, sched *animate.ManualScheduler, host *animate.EventHost) PreviewModel {
	m := PreviewModel{
		ctx:    ctx,
		name:   name,
		comp:   comp,
		sched:  sched,
		host:   host,
		spring: harmonica.NewSpring(harmonica.FPS(60), 8.0, 0.6),
		styles: make(map[string]lipgloss.Style),
	}
	return m.resize(80, 24)
}

// resize fits the canvas into a terminal of w×h cells.
func (m PreviewModel) resize(w, h int) PreviewModel {
	m.cols = max(w-2, 10)
	m.rows = max(h-4, 5)
	f := m.comp.Frame()
	m.cellW = math.Max(f.Width/float64(m.cols), f.Height/float64(2*m.rows))
	if m.cellW <= 0 {
		m.cellW = 1
	}
	return m
}

// toCanvas converts a terminal cell to canvas coordinates at the cell
// center. The border occupies row and column zero.
func (m PreviewModel) toCanvas(col, row int) (float64, float64, bool) {
	gx, gy := col-1, row-1
	if gx < 0 || gy < 0 || gx >= m.cols || gy >= m.rows {
		return 0, 0, false
	}
	f := m.comp.Frame()
	x := (float64(gx) + 0.5) * m.cellW
	y := (float64(gy) + 0.5) * m.cellW * 2
	if x > f.Width || y > f.Height {
		return 0, 0, false
	}
	return x, y, true
}

func (m PreviewModel) Init() tea.Cmd {
	return tick()
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg.Width, msg.Height), nil

	case tickMsg:
		m.sched.Advance(1, frameInterval)
		m.curX, m.velX = m.spring.Update(m.curX, m.velX, m.mouseX)
		m.curY, m.velY = m.spring.Update(m.curY, m.velY, m.mouseY)
		return m, tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.comp.Unmount()
			return m, tea.Quit
		case "esc":
			m.leave()
			m.status = ""
		case "r":
			cfg := m.comp.Config()
			if cfg.Seed != 0 {
				cfg.Seed++
			}
			if err := m.comp.Replace(cfg); err != nil {
				m.status = "reshuffle failed: " + err.Error()
			} else {
				m.status = "reshuffled"
			}
		}

	case tea.MouseMsg:
		x, y, inside := m.toCanvas(msg.X, msg.Y)
		if !inside {
			m.leave()
			return m, nil
		}
		if !m.pointer {
			m.curX, m.curY = float64(msg.X-1), float64(msg.Y-1)
		}
		m.pointer = true
		m.mouseX, m.mouseY = float64(msg.X-1), float64(msg.Y-1)
		m.host.Dispatch(animate.Event{Kind: animate.PointerMove, X: x, Y: y})

		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.status = m.click(x, y)
		}
	}
	return m, nil
}

func (m *PreviewModel) leave() {
	if m.pointer {
		m.host.Dispatch(animate.Event{Kind: animate.PointerLeave})
	}
	m.pointer = false
}

func (m PreviewModel) click(x, y float64) string {
	it, hit, err := m.comp.Click(m.ctx, x, y)
	switch {
	case err != nil:
		return "open failed: " + err.Error()
	case !hit:
		return ""
	case it.Action:
		return "opened " + it.Target
	default:
		return "clicked " + it.Label
	}
}

func (m PreviewModel) View() string {
	f := m.comp.Frame()
	g := newGrid(m.cols, m.rows)

	cellH := m.cellW * 2
	for _, l := range f.Lines {
		n := int(math.Ceil(l.A.Sub(l.B).Len()/(m.cellW/2))) + 1
		for i := 0; i <= n; i++ {
			t := float64(i) / float64(n)
			p := l.A.Add(l.B.Sub(l.A).Scale(t))
			g.setIfEmpty(int(p.X/m.cellW), int(p.Y/cellH), '·', "line")
		}
	}

	for _, it := range f.Items {
		if !it.Action {
			m.drawItem(g, it)
		}
	}
	if act, ok := f.Action(); ok {
		m.drawItem(g, act)
	}
	if m.pointer {
		g.set(int(math.Round(m.curX)), int(math.Round(m.curY)), '+', "cursor")
	}

	var b strings.Builder
	b.WriteString(previewBorderStyle.Render(m.renderGrid(g)))
	b.WriteString("\n")
	b.WriteString(m.statusLine(f))
	b.WriteString("\n")
	b.WriteString(previewHelpStyle.Render("move: attract  click: open action  r: reshuffle  esc: clear  q: quit"))
	return b.String()
}

func (m PreviewModel) statusLine(f bubbles.Frame) string {
	parts := []string{
		StyleTitle.Render(m.name),
		StyleDim.Render(fmt.Sprintf("step %d", f.Step)),
		StyleDim.Render(fmt.Sprintf("%d bubbles", len(f.Items))),
	}
	if f.Pointer != nil {
		parts = append(parts, StyleHighlight.Render(fmt.Sprintf("pointer %.0f,%.0f", f.Pointer.X, f.Pointer.Y)))
	}
	if m.status != "" {
		parts = append(parts, StyleValue.Render(m.status))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

// drawItem fills the cells whose centers fall inside the bubble and writes
// its text across the middle row.
func (m PreviewModel) drawItem(g *grid, it bubbles.Item) {
	r := it.VisualRadius()
	if r <= 0 || it.Opacity <= 0 {
		return
	}
	key := m.colorKey(it)
	cellH := m.cellW * 2
	x0, x1 := int((it.Pos.X-r)/m.cellW), int((it.Pos.X+r)/m.cellW)
	y0, y1 := int((it.Pos.Y-r)/cellH), int((it.Pos.Y+r)/cellH)
	for gy := y0; gy <= y1; gy++ {
		for gx := x0; gx <= x1; gx++ {
			cx := (float64(gx) + 0.5) * m.cellW
			cy := (float64(gy) + 0.5) * cellH
			if math.Hypot(cx-it.Pos.X, cy-it.Pos.Y) <= r {
				g.set(gx, gy, ' ', key)
			}
		}
	}

	text := []rune(it.Text)
	row := int(it.Pos.Y / cellH)
	width := int(2 * r / m.cellW)
	if len(text) > width {
		text = text[:max(width, 0)]
	}
	start := int(it.Pos.X/m.cellW) - len(text)/2
	for i, ch := range text {
		g.set(start+i, row, ch, key)
	}
}

// colorKey registers a lipgloss style for the item's fill, dimmed by its
// entrance opacity, and returns its key.
func (m PreviewModel) colorKey(it bubbles.Item) string {
	c, alpha, err := sink.ParseColor(it.Color)
	if err != nil {
		c, alpha = colorful.Color{R: 0.2, G: 0.6, B: 1}, 1
	}
	hex := colorful.Color{}.BlendRgb(c, alpha*it.Opacity).Clamped().Hex()
	if _, ok := m.styles[hex]; !ok {
		m.styles[hex] = lipgloss.NewStyle().
			Background(lipgloss.Color(hex)).
			Foreground(colorWhite).
			Bold(true)
	}
	return hex
}

func (m PreviewModel) renderGrid(g *grid) string {
	var b strings.Builder
	for y := 0; y < g.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		x := 0
		for x < g.w {
			key := g.keys[y][x]
			end := x
			for end < g.w && g.keys[y][end] == key {
				end++
			}
			run := string(g.cells[y][x:end])
			b.WriteString(m.styleFor(key).Render(run))
			x = end
		}
	}
	return b.String()
}

func (m PreviewModel) styleFor(key string) lipgloss.Style {
	switch key {
	case "":
		return lipgloss.NewStyle()
	case "line":
		return previewLineStyle
	case "cursor":
		return previewCursorStyle
	}
	return m.styles[key]
}

// =============================================================================
// Grid
// =============================================================================

type grid struct {
	w, h  int
	cells [][]rune
	keys  [][]string
}

func newGrid(w, h int) *grid {
	g := &grid{w: w, h: h, cells: make([][]rune, h), keys: make([][]string, h)}
	for y := range h {
		g.cells[y] = []rune(strings.Repeat(" ", w))
		g.keys[y] = make([]string, w)
	}
	return g
}

func (g *grid) set(x, y int, ch rune, key string) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.cells[y][x] = ch
	g.keys[y][x] = key
}

func (g *grid) setIfEmpty(x, y int, ch rune, key string) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h || g.keys[y][x] != "" {
		return
	}
	g.set(x, y, ch, key)
}
