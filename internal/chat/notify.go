package chat

import (
	"strings"

	"github.com/gen2brain/beeep"
)

const notificationBodyLength = 100

// Alerter raises desktop notifications.
type Alerter interface {
	Alert(title, body string) error
}

// DesktopAlerter notifies through the OS notification service.
type DesktopAlerter struct{}

// Alert implements Alerter.
func (DesktopAlerter) Alert(title, body string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "driima"
	} else {
		title = "driima · " + title
	}
	return beeep.Notify(title, truncateNotification(body, notificationBodyLength), "")
}

func truncateNotification(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}
