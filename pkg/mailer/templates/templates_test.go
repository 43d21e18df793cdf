package templates

import (
	"strings"
	"testing"
)

func TestRenderWelcome(t *testing.T) {
	subject, text, html, err := RenderWelcome(Welcome{
		Name:       "Ana <b>",
		Email:      "ana@example.com",
		AppName:    "users",
		SupportURL: "https://example.com/help",
	})
	if err != nil {
		t.Fatalf("RenderWelcome returned error: %v", err)
	}
	if subject != "Welcome to users, Ana <b>" {
		t.Fatalf("unexpected subject %q", subject)
	}
	if !strings.Contains(text, "ana@example.com") || !strings.Contains(text, "https://example.com/help") {
		t.Fatalf("unexpected text body: %s", text)
	}
	if strings.Contains(html, "<b>,") || !strings.Contains(html, "Ana &lt;b&gt;") {
		t.Fatalf("expected html body to escape the name: %s", html)
	}
}
