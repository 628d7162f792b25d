package interact

import "strings"

// normalizeKey folds key names from browsers and terminals into one form:
// "Control+S", "cmd+s" and "ctrl+s" all become "ctrl+s", "Del" becomes
// "delete" and "Esc" becomes "escape".
func normalizeKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	for _, prefix := range []string{"control+", "cmd+", "meta+"} {
		if rest, ok := strings.CutPrefix(k, prefix); ok {
			k = "ctrl+" + rest
			break
		}
	}
	switch k {
	case "del", "backspace":
		return "delete"
	case "esc":
		return "escape"
	}
	return k
}
