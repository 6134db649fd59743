package logger

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestPlainFormatter(t *testing.T) {
	l := logrus.New()
	var buf bytes.Buffer
	l.SetOutput(&buf)
	l.SetFormatter(PlainFormatter{})

	SetRoot(l)
	t.Cleanup(func() { SetRoot(nil) })

	Named("sync").WithField("room", 7).WithField("cursor", "x").Warn("poll failed")

	line := buf.String()
	for _, want := range []string{"[WARNING]", "[sync]", "poll failed", "cursor=x room=7"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should not be repeated as a field: %q", line)
	}
}

func TestSetupFile(t *testing.T) {
	l := logrus.New()
	SetRoot(l)
	t.Cleanup(func() { SetRoot(nil) })

	path := filepath.Join(t.TempDir(), "logs", "driima.log")
	closer, err := SetupFile(path)
	if err != nil {
		t.Fatalf("SetupFile: %v", err)
	}
	defer closer.Close()
	if l.Out == nil {
		t.Fatalf("expected output to be set")
	}
}

func TestShortenFilePath(t *testing.T) {
	if got := shortenFilePath("/home/u/src/chat/internal/session/loop.go"); got != "internal/session/loop.go" {
		t.Fatalf("unexpected short path %q", got)
	}
	if got := shortenFilePath("/tmp/x.go"); got != "x.go" {
		t.Fatalf("unexpected short path %q", got)
	}
}
