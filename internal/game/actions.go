package game

import (
	"regexp"
	"strings"
)

// Agents commit to an action with an inline tag in their response text:
// [CLOSE: pitch] attempts the sale, [FLAG: reason] accuses fraud. Either one
// ends the call immediately.

var (
	closeRe = regexp.MustCompile(`(?is)\[CLOSE:\s*(.+?)\]`)
	flagRe  = regexp.MustCompile(`(?is)\[FLAG:\s*(.+?)\]`)
)

// CheckClose reports whether the agent attempted to close, and the pitch.
func CheckClose(text string) (bool, string) {
	if m := closeRe.FindStringSubmatch(text); m != nil {
		return true, strings.TrimSpace(m[1])
	}
	return false, ""
}

// CheckFlag reports whether the agent flagged fraud, and the reason.
func CheckFlag(text string) (bool, string) {
	if m := flagRe.FindStringSubmatch(text); m != nil {
		return true, strings.TrimSpace(m[1])
	}
	return false, ""
}

// StripActionTags removes action tags from text for display.
func StripActionTags(text string) string {
	text = closeRe.ReplaceAllString(text, "")
	text = flagRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
