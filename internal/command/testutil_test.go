package command

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
)

func executeCommand(cmd *cobra.Command, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

const roomOneMessages = `{"roomInfo":{"id":1,"name":"General","joined":true,"skippedMessageId":""},
	"messages":[
		{"id":"m1","senderName":"Alice","content":"hello **team**","dateSent":"2024-03-01T09:00:00.000000Z"},
		{"id":"m2","senderName":"Me","content":"my question","dateSent":"2024-03-01T09:01:00.000000Z","sentByMe":true},
		{"id":"m3","parentId":"m2","senderName":"AI","content":"an answer","dateSent":"2024-03-01T09:02:00.000000Z"}
	]}`

const roomTwoMessages = `{"roomInfo":{"id":2,"name":"Book club","joined":false,"skippedMessageId":""},
	"messages":[{"id":"b1","senderName":"Bob","content":"chapter one","dateSent":"2024-03-02T09:00:00.000000Z"}]}`

const roomsList = `{"rooms":[
	{"roomId":1,"roomName":"General","latestDateSent":"2024-03-01T09:02:00.000000Z","latestMessage":"an answer"},
	{"roomId":2,"roomName":"Book club","latestDateSent":"2024-03-02T09:00:00.000000Z","latestMessage":"chapter one"},
	{"roomId":3,"groupName":"Genealogy"}
]}`

type fakeServer struct {
	t      *testing.T
	server *httptest.Server

	mu      sync.Mutex
	calls   []string
	sent    []map[string]any
	login   map[string]string
	authErr bool
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	f := &fakeServer{t: t}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/rooms", func(w http.ResponseWriter, r *http.Request) {
		if f.unauthorized(w) {
			return
		}
		_, _ = io.WriteString(w, roomsList)
	})
	mux.HandleFunc("/api/room/messages", func(w http.ResponseWriter, r *http.Request) {
		if f.unauthorized(w) {
			return
		}
		switch r.URL.Query().Get("r") {
		case "1":
			_, _ = io.WriteString(w, roomOneMessages)
		case "2":
			_, _ = io.WriteString(w, roomTwoMessages)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"title":"Room not found"}`)
		}
	})
	mux.HandleFunc("/api/message/send", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode send: %v", err)
		}
		f.mu.Lock()
		f.sent = append(f.sent, payload)
		f.mu.Unlock()
		_, _ = io.WriteString(w, `{"id":"m9","ai_is_busy":true}`)
	})
	mux.HandleFunc("/api/account/login", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		f.mu.Lock()
		f.login = map[string]string{"username": r.PostForm.Get("username"), "password": r.PostForm.Get("password")}
		f.mu.Unlock()
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
	})
	handleOK := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
	for _, path := range []string{"/api/message/delete", "/api/message/hide-from-ai", "/api/room/join", "/api/account/logout"} {
		mux.HandleFunc(path, handleOK)
	}

	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls = append(f.calls, r.Method+" "+r.URL.Path+"?"+r.URL.RawQuery)
		f.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeServer) unauthorized(w http.ResponseWriter) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.authErr {
		return false
	}
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = io.WriteString(w, `{"title":"Not signed in"}`)
	return true
}

func (f *fakeServer) called(prefix string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, call := range f.calls {
		if strings.HasPrefix(call, prefix) {
			return true
		}
	}
	return false
}

// env runs commands against the fake server with state in a temp dir.
type env struct {
	t      *testing.T
	dir    string
	server *fakeServer
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("DRIIMA_SERVER", "")
	t.Setenv("DRIIMA_LANG", "")
	return &env{t: t, dir: dir, server: newFakeServer(t)}
}

func (e *env) args(args ...string) []string {
	return append(args,
		"--config", filepath.Join(e.dir, "config.toml"),
		"--server", e.server.server.URL,
		"-c", "database="+filepath.Join(e.dir, "state.db"),
		"-c", "log_file=",
	)
}

func (e *env) run(args ...string) (string, error) {
	e.t.Helper()
	return executeCommand(NewRootCmd("test"), e.args(args...)...)
}

func (e *env) mustRun(args ...string) string {
	e.t.Helper()
	output, err := e.run(args...)
	if err != nil {
		e.t.Fatalf("%v: %v\n%s", args, err, output)
	}
	return output
}
