package tui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestWrapTextBreaksAtSpaces(t *testing.T) {
	lines := wrapText("which service stores session state", 14)
	want := []string{"which service", "stores session", "state"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected wrap: %q", lines)
	}
}

func TestWrapTextSplitsLongWords(t *testing.T) {
	lines := wrapText("arn:aws:iam::123456789012:role", 10)
	for _, line := range lines {
		if runewidth.StringWidth(line) > 10 {
			t.Fatalf("line too wide: %q", line)
		}
	}
	if strings.Join(lines, "") != "arn:aws:iam::123456789012:role" {
		t.Fatalf("word content lost: %q", lines)
	}
}

func TestWrapTextWideRunes(t *testing.T) {
	lines := wrapText("日本語 テキスト", 6)
	for _, line := range lines {
		if runewidth.StringWidth(line) > 6 {
			t.Fatalf("line too wide: %q", line)
		}
	}
	if lines[0] != "日本語" {
		t.Fatalf("unexpected first line: %q", lines[0])
	}
}

func TestWrapTextKeepsParagraphs(t *testing.T) {
	lines := wrapText("one\n\ntwo", 20)
	if len(lines) != 3 || lines[1] != "" {
		t.Fatalf("expected blank line between paragraphs, got %q", lines)
	}
}

func TestWrapTextNoWidth(t *testing.T) {
	lines := wrapText("a b c", 0)
	if len(lines) != 1 || lines[0] != "a b c" {
		t.Fatalf("expected unwrapped text, got %q", lines)
	}
}

func TestHangingIndent(t *testing.T) {
	lines := hangingIndent("1) ", "alpha beta gamma", 13)
	want := []string{"1) alpha beta", "   gamma"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected lines: %q", lines)
	}
}
