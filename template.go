package main

import (
	"regexp"
	"strings"
)

var placeholderRx = regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}`)

// fillTemplate substitutes {{name}}-style placeholders from vars. Unknown
// placeholders render as empty strings rather than leaking into the output.
func fillTemplate(tpl string, vars map[string]string) string {
	return placeholderRx.ReplaceAllStringFunc(tpl, func(m string) string {
		key := placeholderRx.FindStringSubmatch(m)[1]
		return vars[key]
	})
}

// escapeHTML converts &, < and > to entities. Deliberately minimal; the email
// HTML body is the only consumer and the templates stay authorable as-is.
func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// sanitizeForDiscord neutralizes mentions like @everyone and softens backticks
// so submitted text can't hijack message formatting.
func sanitizeForDiscord(s string) string {
	s = strings.ReplaceAll(s, "@", "@\u200b")
	s = strings.ReplaceAll(s, "`", "´")
	return s
}

// clip truncates s to at most n runes.
func clip(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// clipWithMarker truncates s to at most n runes, replacing the tail with "..."
// when anything was cut.
func clipWithMarker(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	if n <= 3 {
		return clip(s, n)
	}
	return clip(s, n-3) + "..."
}
