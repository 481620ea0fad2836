// Package report renders analysis results to the terminal using pterm.
package report

import (
	"github.com/pterm/pterm"

	"github.com/octoreflex/fbas-analyzer/internal/fbas"
	"github.com/octoreflex/fbas-analyzer/internal/store"
)

// maxQuorumsListed bounds how many minimal quorums are printed in the
// table; beyond this the remainder is summarized instead, since
// GetMinimalQuorums may return an exponential number of results.
const maxQuorumsListed = 50

// Result is the summary of one analysis run, ready to render.
type Result struct {
	NodeCount       int
	MinimalQuorums  []fbas.NodeSet
	HasIntersection bool
}

// PrintSummary renders a panel (node count, minimal-quorum count, and
// intersection verdict) followed by a bounded table of minimal quorums.
func PrintSummary(r Result) {
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)

	verdict := pterm.LightGreen("INTERSECTS")
	if !r.HasIntersection {
		verdict = pterm.LightRed("DOES NOT INTERSECT")
	}

	summary := pterm.Sprintfln("Nodes: %d", r.NodeCount) +
		pterm.Sprintfln("Minimal quorums found: %d", len(r.MinimalQuorums)) +
		pterm.Sprintfln("Quorum intersection: %s", verdict)

	panel := pbox.WithTitle(pterm.LightCyan("|FBAS ANALYSIS|")).WithTitleTopCenter().Sprintf(summary)
	pterm.Println(panel)

	printQuorumTable(r.MinimalQuorums)
}

func printQuorumTable(quorums []fbas.NodeSet) {
	if len(quorums) == 0 {
		pterm.Warning.Println("No minimal quorums found.")
		return
	}

	rows := pterm.TableData{{"#", "Size", "Members"}}
	shown := quorums
	elided := 0
	if len(shown) > maxQuorumsListed {
		shown = shown[:maxQuorumsListed]
		elided = len(quorums) - maxQuorumsListed
	}

	for i, q := range shown {
		rows = append(rows, []string{
			pterm.Sprintf("%d", i+1),
			pterm.Sprintf("%d", q.Len()),
			pterm.Sprintf("%v", q.Iter()),
		})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		pterm.Error.Printfln("failed to render quorum table: %v", err)
	}

	if elided > 0 {
		pterm.Info.Printfln("%d additional minimal quorums not shown", elided)
	}
}

// PrintHistory renders the stored AnalysisRecords (oldest first, as
// returned by store.DB.ReadRuns) as a table.
func PrintHistory(runs []store.AnalysisRecord) {
	if len(runs) == 0 {
		pterm.Warning.Println("No stored analysis runs.")
		return
	}

	rows := pterm.TableData{{"Run at", "Network", "Nodes", "Min. quorums", "Intersects", "Duration"}}
	for _, r := range runs {
		intersects := pterm.LightGreen("yes")
		if !r.HasIntersection {
			intersects = pterm.LightRed("no")
		}
		rows = append(rows, []string{
			r.RunAt.Format("2006-01-02T15:04:05Z"),
			r.NetworkHash,
			pterm.Sprintf("%d", r.NodeCount),
			pterm.Sprintf("%d", r.MinimalQuorumCount),
			intersects,
			r.Duration.String(),
		})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		pterm.Error.Printfln("failed to render run history table: %v", err)
	}
}
