package generation

import "strings"

// Compose builds the full prompt for one angle: the angle's base
// instruction, then the user's free-text detail, then the style fragment.
// Empty inputs are skipped so the result never carries doubled or
// surrounding whitespace. No content validation happens here.
func Compose(anglePrompt, userDetail, styleFragment string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{anglePrompt, userDetail, styleFragment} {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " ")
}
