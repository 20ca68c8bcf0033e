package voiceid

import (
	"bytes"
	"strings"
	"testing"
)

func TestTerminalConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"yes\n", true},
		{"Y\n", true},
		{"  Sure \n", true},
		{"okay\n", true},
		{"no\n", false},
		{"\n", false},
		{"", false}, // EOF
		{"nope\n", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		term := NewTerminal(strings.NewReader(tt.input), &out)
		if got := term.Confirm("ready?"); got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "ready?") {
			t.Errorf("prompt not written for %q", tt.input)
		}
	}
}

func TestTerminalPromptName(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("  Alice Smith \n"), &out)
	name, err := term.PromptName("name: ")
	if err != nil {
		t.Fatal(err)
	}
	if name != "Alice Smith" {
		t.Errorf("name = %q, want Alice Smith", name)
	}
}

func TestTerminalPromptNameEOF(t *testing.T) {
	term := NewTerminal(strings.NewReader(""), &bytes.Buffer{})
	if _, err := term.PromptName("name: "); err == nil {
		t.Fatal("expected error on EOF")
	}
}

func TestTerminalSpeak(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader(""), &out)
	term.Speak("hello")
	if out.String() != "hello\n" {
		t.Errorf("out = %q, want hello newline", out.String())
	}
}
