// Package report renders the final markdown safety report.
package report

import (
	"fmt"
	"strings"

	"safescout/pkg/model"
)

// Compose builds the markdown report from the location context and the
// assessment summary. The layout is fixed: downstream consumers convert
// it to HTML for mail and read it aloud for the audio track.
func Compose(loc model.LocationContext, summary string) string {
	var sb strings.Builder

	sb.WriteString("**Location-Based Safety Report**\n\n")
	sb.WriteString("**Location Information:**\n")
	sb.WriteString(loc.Text)
	sb.WriteString("\n\n")
	sb.WriteString("**Analysis Summary:**\n")
	sb.WriteString(summary)
	sb.WriteString("\n\n")

	if len(loc.Sources) > 0 {
		sb.WriteString("**Sources:**\n")
		for _, source := range loc.Sources {
			fmt.Fprintf(&sb, "- %s: %s\n", source.Name, source.Link)
		}
	} else {
		sb.WriteString("**Sources:**\nNo sources found.\n")
	}

	return sb.String()
}
