package bot

import (
	"strings"
	"testing"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

func TestSanitizeEscapesReservedChars(t *testing.T) {
	got := Sanitize("a_b*c.d!e")
	want := `a\_b\*c\.d\!e`
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestSanitizePlainTextUntouched(t *testing.T) {
	if got := Sanitize("hello world"); got != "hello world" {
		t.Fatalf("expected unchanged text, got %q", got)
	}
}

func TestSplitMessageShortText(t *testing.T) {
	parts := splitMessage("short", 100)
	if len(parts) != 1 || parts[0] != "short" {
		t.Fatalf("expected single part, got %v", parts)
	}
}

func TestSplitMessagePrefersNewlines(t *testing.T) {
	text := strings.Repeat("line\n", 10)
	parts := splitMessage(text, 12)
	if len(parts) < 2 {
		t.Fatalf("expected multiple parts, got %d", len(parts))
	}
	var total int
	for _, p := range parts {
		if len(p) > 12 {
			t.Fatalf("part exceeds limit: %q", p)
		}
		total += len(p)
	}
	if total != len(text) {
		t.Fatalf("expected no content lost, got %d of %d bytes", total, len(text))
	}
}

func TestCommandBody(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"/broadcast hello there", "hello there"},
		{"/broadcast    spaced   ", "spaced"},
		{"/broadcast", ""},
		{"/broadcast ", ""},
	}
	for _, tc := range cases {
		if got := commandBody(tc.text); got != tc.want {
			t.Fatalf("commandBody(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestCandidateCodeFilter(t *testing.T) {
	private := tgbotapi.Chat{Type: "private"}
	group := tgbotapi.Chat{Type: "group"}

	cases := []struct {
		msg  tgbotapi.Message
		want bool
	}{
		{tgbotapi.Message{Text: "482913", Chat: private}, true},
		{tgbotapi.Message{Text: "/start", Chat: private}, false},
		{tgbotapi.Message{Text: "", Chat: private}, false},
		{tgbotapi.Message{Text: "482913", Chat: group}, false},
	}
	for _, tc := range cases {
		if got := candidateCode(&tc.msg); got != tc.want {
			t.Fatalf("candidateCode(%q, %s) = %v, want %v", tc.msg.Text, tc.msg.Chat.Type, got, tc.want)
		}
	}
}
