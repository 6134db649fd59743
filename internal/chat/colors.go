package chat

import (
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/driima/chat/internal/i18n"
)

var (
	inputBg     = lipgloss.Color("235")
	caretColor  = lipgloss.Color("39")
	textColor   = lipgloss.Color("252")
	blurText    = lipgloss.Color("245")
	metaColor   = lipgloss.Color("242")
	statusColor = lipgloss.Color("245")
	errorColor  = lipgloss.Color("196")
	noticeColor = lipgloss.Color("220")
	aiColor     = lipgloss.Color("141")
	selectedBg  = lipgloss.Color("236")
	skipColor   = lipgloss.Color("173")
)

var senderPalette = []lipgloss.Color{
	lipgloss.Color("111"),
	lipgloss.Color("157"),
	lipgloss.Color("216"),
	lipgloss.Color("36"),
	lipgloss.Color("183"),
	lipgloss.Color("230"),
}

// colorForSender hashes a sender name onto the palette. AI senders share one color.
func colorForSender(name string) lipgloss.Color {
	if i18n.IsAI(name) {
		return aiColor
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(name)))
	return senderPalette[int(h.Sum32()%uint32(len(senderPalette)))]
}

func contrastTextColor(color lipgloss.Color) lipgloss.Color {
	code, ok := parseColorCode(color)
	if !ok {
		return lipgloss.Color("231")
	}
	r, g, b := colorCodeToRGB(code)
	luminance := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
	if luminance > 128 {
		return lipgloss.Color("16")
	}
	return lipgloss.Color("231")
}

func parseColorCode(color lipgloss.Color) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(string(color)))
	if err != nil || parsed < 0 || parsed > 255 {
		return 0, false
	}
	return parsed, true
}

// colorCodeToRGB maps an xterm-256 code to RGB.
func colorCodeToRGB(code int) (int, int, int) {
	switch {
	case code < 16:
		standard := [16][3]int{
			{0, 0, 0}, {128, 0, 0}, {0, 128, 0}, {128, 128, 0},
			{0, 0, 128}, {128, 0, 128}, {0, 128, 128}, {192, 192, 192},
			{128, 128, 128}, {255, 0, 0}, {0, 255, 0}, {255, 255, 0},
			{0, 0, 255}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
		}
		values := standard[code]
		return values[0], values[1], values[2]
	case code <= 231:
		index := code - 16
		level := func(value int) int {
			if value == 0 {
				return 0
			}
			return 55 + value*40
		}
		return level(index / 36), level((index % 36) / 6), level(index % 6)
	default:
		gray := 8 + (code-232)*10
		return gray, gray, gray
	}
}
