package lp

import (
	"fmt"
	"strings"
)

// LegendEntry maps a generated token back to the semantic name it stands for
type LegendEntry struct {
	Token       string
	Description string
}

// FormatLegend renders a titled legend, one "token: description" line per entry
func FormatLegend(title string, entries []LegendEntry) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "%s:\n", title)
	for _, entry := range entries {
		fmt.Fprintf(&builder, "%s: %s\n", entry.Token, entry.Description)
	}
	return builder.String()
}
