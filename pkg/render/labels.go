package render

import (
	"strconv"
	"unicode/utf8"

	"github.com/matzehuels/organogram/pkg/diagram"
)

// TitleMaxLen is the longest node title drawn before truncation.
const TitleMaxLen = 18

var entityIcons = map[string]string{
	"TRUST":              "🛡️",
	"FOREIGN_TRUST":      "🛡️",
	"FUND":               "💰",
	"IBC":                "🏢",
	"LLC_DISREGARDED":    "🏛️",
	"LLC_PARTNERSHIP":    "🤝",
	"LLC_AS_CORP":        "🏢",
	"CORP":               "🏢",
	"WYOMING_FOUNDATION": "🏛️",
}

// Icon returns the glyph drawn at the top of a node.
func Icon(n diagram.Node) string {
	if n.Kind == diagram.KindParty {
		return "👤"
	}
	if icon, ok := entityIcons[n.EntityType]; ok {
		return icon
	}
	return "🏢"
}

// Details returns the secondary line of a node: jurisdiction for entities,
// nationality for parties.
func Details(n diagram.Node) string {
	if n.Kind == diagram.KindParty {
		return n.Nationality
	}
	return n.Jurisdiction
}

// Truncate shortens s to at most max runes, ending in "..." when cut.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	if max <= 3 {
		return string([]rune(s)[:max])
	}
	return string([]rune(s)[:max-3]) + "..."
}

// PercentLabel formats an ownership percentage as drawn on a connector.
func PercentLabel(pct float64) string {
	return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}
