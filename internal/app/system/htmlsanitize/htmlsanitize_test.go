package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/wakaladigital/wakala/internal/app/system/htmlsanitize"
)

func TestStripTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "Nairobi Savers", "Nairobi Savers"},
		{"trims", "  Savers  ", "Savers"},
		{"bold removed", "<b>Savers</b> club", "Savers club"},
		{"script removed", "Savers<script>alert('x')</script>", "Savers"},
		{"entities kept readable", "Tom & Jerry's", "Tom & Jerry's"},
		{"less than kept", "5 < 10", "5 < 10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := htmlsanitize.StripTags(tt.in); got != tt.want {
				t.Errorf("StripTags(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPlainTextToHTML_Empty(t *testing.T) {
	result := htmlsanitize.PlainTextToHTML("")
	if result != "" {
		t.Errorf("expected empty string, got %q", result)
	}
}

func TestPlainTextToHTML_SimpleText(t *testing.T) {
	result := htmlsanitize.PlainTextToHTML("Hello, World!")
	expected := "<p>Hello, World!</p>"
	if string(result) != expected {
		t.Errorf("expected %q, got %q", expected, result)
	}
}

func TestPlainTextToHTML_NewlinesConverted(t *testing.T) {
	result := htmlsanitize.PlainTextToHTML("Line 1\nLine 2\r\nLine 3")
	expected := "<p>Line 1<br>Line 2<br>Line 3</p>"
	if string(result) != expected {
		t.Errorf("expected %q, got %q", expected, result)
	}
}

func TestPlainTextToHTML_Paragraphs(t *testing.T) {
	result := htmlsanitize.PlainTextToHTML("First\n\n\nSecond")
	expected := "<p>First</p><p>Second</p>"
	if string(result) != expected {
		t.Errorf("expected %q, got %q", expected, result)
	}
}

func TestPlainTextToHTML_HTMLEscaped(t *testing.T) {
	result := string(htmlsanitize.PlainTextToHTML("<script>alert('xss')</script>"))
	if strings.Contains(result, "<script>") {
		t.Error("expected HTML to be escaped")
	}
	if !strings.Contains(result, "&lt;") || !strings.Contains(result, "&gt;") {
		t.Error("expected < and > to be escaped")
	}
}

func TestPlainTextToHTML_AmpersandEscaped(t *testing.T) {
	result := htmlsanitize.PlainTextToHTML("A & B")
	expected := "<p>A &amp; B</p>"
	if string(result) != expected {
		t.Errorf("expected %q, got %q", expected, result)
	}
}
