/*
Package notify delivers a finished trend report to the console and by email.
*/
package notify

import (
	"fmt"
	"io"
	"strings"

	"github.com/shanehull/trendscan/internal/types"
)

// ReportResult prints a console banner around the text report.
func ReportResult(w io.Writer, result *types.TrendAnalysisResult, text string, exportPath string) {
	rule := strings.Repeat("=", 43)

	if len(result.Topics) == 0 {
		fmt.Fprintln(w, "\n"+strings.Repeat("-", 43))
		fmt.Fprintln(w, "No trending topics returned for this niche.")
		fmt.Fprintln(w, strings.Repeat("-", 43))
	} else {
		fmt.Fprintln(w, "\n"+rule)
		fmt.Fprintf(w, "✅ %d TOPICS FOUND\n", len(result.Topics))
		fmt.Fprintln(w, rule)
	}

	fmt.Fprintln(w)
	fmt.Fprint(w, text)

	fmt.Fprintln(w, "\n"+rule)
	if exportPath != "" {
		fmt.Fprintf(w, "Analysis complete. Report saved to %s.\n", exportPath)
	} else {
		fmt.Fprintln(w, "Analysis complete.")
	}
	fmt.Fprintln(w, rule)
}
