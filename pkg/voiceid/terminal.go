package voiceid

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Terminal implements Notifier, Confirmer, and NamePrompter over plain
// text streams. It is the blocking fallback used by Session when no
// collaborator is injected, and the default interaction surface for the
// CLI.
type Terminal struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal creates a Terminal reading from in and writing to out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// Speak prints the text as a line.
func (t *Terminal) Speak(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, text)
}

// Confirm prints the prompt and blocks for a yes/no answer. Any of
// y/yes/yeah/sure/ok/okay (case-insensitive) counts as yes; everything
// else, including a read error, is no.
func (t *Terminal) Confirm(prompt string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, prompt)
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "yeah", "sure", "ok", "okay":
		return true
	}
	return false
}

// PromptName prints the prompt and reads one trimmed line.
func (t *Terminal) PromptName(prompt string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprint(t.out, prompt)
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

var (
	terminalOnce sync.Once
	stdTerminal  *Terminal
)

// terminal returns the shared process terminal. Shared so interleaved
// prompts do not each buffer ahead on stdin.
func terminal() *Terminal {
	terminalOnce.Do(func() {
		stdTerminal = NewTerminal(os.Stdin, os.Stdout)
	})
	return stdTerminal
}
