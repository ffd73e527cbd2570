//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"

	"moviesearch/internal/cli"
)

// maxOutput bounds the captured terminal output; older bytes are dropped
const maxOutput = 1 << 20

const (
	keyEnter = "\r"
	keyTab   = "\t"
	keyCtrlC = "\x03"
	keyDown  = "j"
	keyQuit  = "q"
)

// escapes matches CSI, OSC, charset and keypad sequences plus carriage returns
var escapes = regexp.MustCompile(
	`\x1b\[[0-9;?]*[ -/]*[@-~]|\x1b\][^\x07]*\x07|\x1b[()][A-Za-z]|\x1b[=>]|\r`,
)

func stripEscapes(s string) string {
	return escapes.ReplaceAllString(s, "")
}

// binPath is set by TestMain
var binPath string

// session drives one moviesearch process on a pseudo-terminal
type session struct {
	t      *testing.T
	home   string
	env    []string
	cmd    *exec.Cmd
	ptmx   *os.File
	done   chan struct{} // closed once the process has been reaped
	waited error

	mu      sync.Mutex
	out     []byte
	dropped int // bytes trimmed from the front of out
}

// newSession prepares an isolated $HOME; the process starts with start
func newSession(t *testing.T) *session {
	t.Helper()
	s := &session{t: t, home: t.TempDir(), done: make(chan struct{})}
	t.Cleanup(s.close)
	return s
}

// start launches the binary at 40x120 and begins capturing its output
func (s *session) start(args ...string) error {
	s.cmd = exec.Command(binPath, args...)
	s.cmd.Dir = s.home
	s.cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"LANG=C.UTF-8",
		"HOME="+s.home,
		"XDG_CONFIG_HOME="+s.home,
		cli.EnvReadyMarker+"=1",
	)
	s.cmd.Env = append(s.cmd.Env, s.env...)

	ptmx, err := pty.StartWithSize(s.cmd, &pty.Winsize{Rows: 40, Cols: 120})
	if err != nil {
		return fmt.Errorf("start %s: %w", binPath, err)
	}
	s.ptmx = ptmx

	go s.capture()
	go func() {
		s.waited = s.cmd.Wait()
		close(s.done)
	}()
	return nil
}

func (s *session) capture() {
	chunk := make([]byte, 8192)
	for {
		n, err := s.ptmx.Read(chunk)
		if n > 0 {
			s.mu.Lock()
			s.out = append(s.out, chunk[:n]...)
			if over := len(s.out) - maxOutput; over > 0 {
				s.out = append(s.out[:0], s.out[over:]...)
				s.dropped += over
			}
			s.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// press writes raw keystrokes to the terminal
func (s *session) press(keys ...string) error {
	_, err := s.ptmx.Write([]byte(strings.Join(keys, "")))
	return err
}

// mark returns a position in the output stream for since
func (s *session) mark() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped + len(s.out)
}

// since returns the plain output written after mark
func (s *session) since(mark int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	from := mark - s.dropped
	if from < 0 {
		from = 0
	}
	if from > len(s.out) {
		from = len(s.out)
	}
	return stripEscapes(string(s.out[from:]))
}

// screen returns everything captured so far without escape sequences
func (s *session) screen() string {
	return s.since(0)
}

// waitFor polls the output written after mark until ok accepts it
func (s *session) waitFor(mark int, timeout time.Duration, what string, ok func(plain string) bool) error {
	deadline := time.Now().Add(timeout)
	for {
		if ok(s.since(mark)) {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("timed out after %s waiting for %s\n--- tail ---\n%s", timeout, what, s.tail(4096))
		}
		time.Sleep(25 * time.Millisecond)
	}
}

// see waits until text appears anywhere in the output
func (s *session) see(text string, timeout time.Duration) error {
	return s.seeSince(0, text, timeout)
}

// seeSince waits until text appears after mark
func (s *session) seeSince(mark int, text string, timeout time.Duration) error {
	return s.waitFor(mark, timeout, fmt.Sprintf("%q", text), func(plain string) bool {
		return strings.Contains(plain, text)
	})
}

// ready waits for the marker printed once the program is built
func (s *session) ready() error {
	return s.see(cli.ReadyMarker, 5*time.Second)
}

// waitExit waits for the process to end and returns its exit error
func (s *session) waitExit(timeout time.Duration) error {
	select {
	case <-s.done:
		return s.waited
	case <-time.After(timeout):
		return fmt.Errorf("process still running after %s\n--- tail ---\n%s", timeout, s.tail(4096))
	}
}

func (s *session) tail(n int) string {
	plain := s.screen()
	if len(plain) > n {
		plain = plain[len(plain)-n:]
	}
	return plain
}

// close kills the process if it is still running and releases the terminal
func (s *session) close() {
	if s.cmd != nil && s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
		select {
		case <-s.done:
		case <-time.After(2 * time.Second):
		}
	}
	if s.ptmx != nil {
		_ = s.ptmx.Close()
	}
}
