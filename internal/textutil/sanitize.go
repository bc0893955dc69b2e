package textutil

import "strings"

// SanitizeToken converts a string to a lowercase filesystem-safe token.
// Letters are lowercased; digits, dots, hyphens and underscores are kept;
// everything else becomes an underscore. Returns "unknown" for empty input.
func SanitizeToken(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "_-.")
	if out == "" {
		return "unknown"
	}
	return out
}

// JoinTokens sanitizes each part and joins them with an underscore, skipping
// parts that sanitize to nothing useful.
func JoinTokens(parts ...string) string {
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		tok := SanitizeToken(p)
		if tok == "unknown" {
			continue
		}
		tokens = append(tokens, tok)
	}
	if len(tokens) == 0 {
		return "unknown"
	}
	return strings.Join(tokens, "_")
}
