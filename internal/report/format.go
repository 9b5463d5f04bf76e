package report

import (
	"fmt"
	"strings"

	"CountSpectra/internal/model"
)

// Format renders a report as the classic output block: configuration echo,
// stream counters, one line per reported item, then the error and moment
// summary. The same text goes to the console and to the text writer.
func Format(r *model.Report) string {
	var b strings.Builder

	b.WriteString("****** OUTPUT ******\n")
	fmt.Fprintf(&b, "D = %d W = %d [left,right] = [%d,%d] K = %d\n",
		r.D, r.W, r.Left, r.Right, r.K)
	fmt.Fprintf(&b, "Total number of items = %d\n", r.TotalSeen)
	fmt.Fprintf(&b, "Total number of items in [%d,%d] = %d\n", r.Left, r.Right, r.TotalAdmitted)
	fmt.Fprintf(&b, "Number of distinct items in [%d,%d] = %d\n", r.Left, r.Right, r.DistinctItems)

	for _, e := range r.Entries {
		fmt.Fprintf(&b, "Item %d Freq = %d Est. Freq = %g\n", e.Item, e.TrueFreq, e.EstFreq)
	}

	fmt.Fprintf(&b, "Avg err for top %d = %g\n", r.K, r.AvgRelErr)
	fmt.Fprintf(&b, "F2 %g F2 Estimate %g\n", r.F2True, r.F2Approx)

	return b.String()
}
