package chat

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/lipgloss"

	"github.com/driima/chat/internal/i18n"
)

const inputMaxHeight = 8
const inputPadding = 1

func newInputModel(tr i18n.Translator) textarea.Model {
	input := textarea.New()
	input.CharLimit = 0
	input.ShowLineNumbers = false
	input.MaxHeight = inputMaxHeight
	input.Placeholder = tr.T("Type a message")
	input.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "› "
		}
		return "  "
	})
	input.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	applyInputStyles(&input, textColor, blurText)
	input.Focus()
	return input
}

func applyInputStyles(input *textarea.Model, textColor, blurColor lipgloss.Color) {
	input.FocusedStyle.Base = lipgloss.NewStyle().Foreground(textColor).Background(inputBg)
	input.FocusedStyle.Text = lipgloss.NewStyle().Foreground(textColor).Background(inputBg)
	input.FocusedStyle.Prompt = lipgloss.NewStyle().Foreground(caretColor).Background(inputBg)
	input.FocusedStyle.CursorLine = lipgloss.NewStyle().Background(inputBg)
	input.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(metaColor).Background(inputBg)
	input.BlurredStyle.Base = lipgloss.NewStyle().Foreground(blurColor).Background(inputBg)
	input.BlurredStyle.Text = lipgloss.NewStyle().Foreground(blurColor).Background(inputBg)
	input.BlurredStyle.Prompt = lipgloss.NewStyle().Foreground(caretColor).Background(inputBg)
	input.BlurredStyle.CursorLine = lipgloss.NewStyle().Background(inputBg)
}

// textInput exposes the textarea to the reply composer. Only the UI
// goroutine may call it.
type textInput struct {
	model *textarea.Model
}

func (i textInput) Value() string { return i.model.Value() }

func (i textInput) SetValue(value string) {
	i.model.SetValue(value)
	i.model.CursorEnd()
}

// Focus drops the blink command; replyToSelected restarts the blink.
func (i textInput) Focus() { _ = i.model.Focus() }
