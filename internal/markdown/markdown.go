package markdown

import (
	"strings"
	"sync"
	"unicode"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"
)

// Renderer converts message markdown to styled terminal text.
// Renderers are built lazily per wrap width and reused.
type Renderer struct {
	style string

	mu    sync.Mutex
	cache map[int]*glamour.TermRenderer
}

// New returns a renderer for style: "auto", "dark", "light", "notty" or a
// glamour style file path.
func New(style string) *Renderer {
	style = strings.TrimSpace(style)
	if style == "" {
		style = "auto"
	}
	return &Renderer{style: style, cache: make(map[int]*glamour.TermRenderer)}
}

// Render sanitizes md and renders it wrapped at width. Rendering failures
// fall back to the sanitized plain text.
func (r *Renderer) Render(md string, width int) string {
	clean := Sanitize(md)
	if strings.TrimSpace(clean) == "" {
		return clean
	}
	if width < 10 {
		width = 10
	}
	tr, err := r.renderer(width)
	if err != nil {
		return clean
	}
	out, err := tr.Render(clean)
	if err != nil {
		return clean
	}
	return strings.Trim(out, "\n")
}

func (r *Renderer) renderer(width int) (*glamour.TermRenderer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tr, ok := r.cache[width]; ok {
		return tr, nil
	}
	styleOpt := glamour.WithAutoStyle()
	switch r.style {
	case "auto":
	case "dark", "light", "notty", "ascii", "dracula", "pink", "tokyo-night":
		styleOpt = glamour.WithStandardStyle(r.style)
	default:
		styleOpt = glamour.WithStylePath(r.style)
	}
	tr, err := glamour.NewTermRenderer(
		styleOpt,
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		return nil, err
	}
	r.cache[width] = tr
	return tr, nil
}

// Sanitize strips terminal escape sequences and control characters from
// server-provided text, keeping newlines and tabs.
func Sanitize(text string) string {
	text = ansi.Strip(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)
}

// Plain returns sanitized single-line text, used for previews and notices.
func Plain(text string) string {
	return strings.Join(strings.Fields(Sanitize(text)), " ")
}
