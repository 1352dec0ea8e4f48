package notify

import (
	"fmt"
	"html"
	"strings"

	"crewdesk/internal/utils/text"
)

// smsRuneBudget is the single-segment SMS character budget. Messages over
// the budget are truncated with an ellipsis rather than split into
// multi-segment sends.
const smsRuneBudget = 160

// smsEllipsis marks a truncated SMS body.
const smsEllipsis = "..."

// FormatSMS renders a notification as a single SMS segment: title and body
// joined, truncated to the 160-character budget with a trailing ellipsis
// when over.
func FormatSMS(title, body string) string {
	msg := strings.TrimSpace(title)
	if b := strings.TrimSpace(body); b != "" {
		if msg != "" {
			msg = msg + ": " + b
		} else {
			msg = b
		}
	}
	return text.TruncateRunes(msg, smsRuneBudget, smsEllipsis)
}

// FormatEmailHTML renders a notification body as HTML. A body that already
// contains markup passes through unchanged; plain text is escaped and
// wrapped in a minimal envelope with the title as a heading and line breaks
// preserved.
func FormatEmailHTML(title, body string) string {
	if looksLikeHTML(body) {
		return body
	}

	escaped := html.EscapeString(body)
	escaped = strings.ReplaceAll(escaped, "\n", "<br>\n")

	return fmt.Sprintf(`<html>
<body>
<h2>%s</h2>
<p>%s</p>
</body>
</html>`, html.EscapeString(title), escaped)
}

// looksLikeHTML reports whether the body appears to already carry markup.
func looksLikeHTML(body string) bool {
	trimmed := strings.TrimSpace(body)
	return strings.HasPrefix(trimmed, "<") && strings.Contains(trimmed, ">")
}

// FormatInApp passes title and body through unchanged. In-app rendering is
// owned by the surrounding application.
func FormatInApp(title, body string) (string, string) {
	return title, body
}
