package main

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/samvad-hq/crawlstats/pkg/statistics"
)

func writeWebsite(w io.Writer, format string, res statistics.StatisticsResult) error {
	if format == formatJSON {
		return writeJSON(w, res)
	}
	md := markdown.NewMarkdown(w)
	md.H2("Statistics: " + res.Data.Website.Name)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Website ID", "`" + res.Data.Website.ID + "`"},
			{"Period", periodText(res.Data.Period)},
		},
	})
	md.PlainText("")
	writeSummary(md, res.Data.Summary)
	return md.Build()
}

func writeAll(w io.Writer, format string, res statistics.AllStatisticsResult) error {
	if format == formatJSON {
		return writeJSON(w, res)
	}
	md := markdown.NewMarkdown(w)
	md.H2("Statistics: all websites")
	md.PlainText("")
	md.PlainText("Period: " + periodText(res.Data.Period))
	md.PlainText("")
	writeSummary(md, res.Data.Summary)
	return md.Build()
}

func writeSummary(md *markdown.Markdown, s statistics.Summary) {
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total tasks", strconv.FormatInt(s.TotalTasks, 10)},
			{"Completed tasks", strconv.FormatInt(s.CompletedTasks, 10)},
			{"Failed tasks", strconv.FormatInt(s.FailedTasks, 10)},
			{"Links crawled", strconv.FormatInt(s.TotalLinksCrawled, 10)},
			{"New links", strconv.FormatInt(s.NewLinksFound, 10)},
			{"Avg valid rate", strconv.FormatFloat(s.AvgValidRate, 'f', 4, 64)},
			{"Avg precision rate", strconv.FormatFloat(s.AvgPrecisionRate, 'f', 4, 64)},
		},
	})
}

func periodText(p statistics.Period) string {
	if p.From == "" && p.To == "" {
		return "all time"
	}
	from, to := p.From, p.To
	if from == "" {
		from = "…"
	}
	if to == "" {
		to = "…"
	}
	return from + " to " + to
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
