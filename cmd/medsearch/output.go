package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	json "github.com/goccy/go-json"
	"github.com/poiesic/medsearch/core"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

// output renders results in the selected format.
type output struct {
	w       io.Writer
	format  string
	explain bool
	info    *core.DatasetInfo
}

type jsonResult struct {
	Row      int               `json:"row"`
	Name     string            `json:"name"`
	Score    float64           `json:"score"`
	Semantic *float64          `json:"semantic,omitempty"`
	Fuzzy    *float64          `json:"fuzzy,omitempty"`
	Fields   map[string]string `json:"fields"`
}

type jsonBatch struct {
	Query   string       `json:"query"`
	Results []jsonResult `json:"results"`
}

func (o *output) write(results []*core.ScoredResult) error {
	if o.format == formatJSON {
		return o.encode(o.toJSON(results))
	}
	return o.writeTable(results)
}

func (o *output) writeBatch(queries []string, results [][]*core.ScoredResult) error {
	if o.format == formatJSON {
		batch := make([]jsonBatch, len(queries))
		for i, q := range queries {
			batch[i] = jsonBatch{Query: q, Results: o.toJSON(results[i])}
		}
		return o.encode(batch)
	}

	for i, q := range queries {
		if i > 0 {
			fmt.Fprintln(o.w)
		}
		fmt.Fprintf(o.w, "== %s ==\n", q)
		if err := o.writeTable(results[i]); err != nil {
			return err
		}
	}
	return nil
}

func (o *output) encode(v any) error {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (o *output) toJSON(results []*core.ScoredResult) []jsonResult {
	out := make([]jsonResult, len(results))
	for i, r := range results {
		out[i] = jsonResult{
			Row:    r.Record.Row,
			Name:   r.Record.Name,
			Score:  r.Score,
			Fields: r.Record.Fields,
		}
		if o.explain {
			semantic, fuzzy := r.Semantic, r.Fuzzy
			out[i].Semantic = &semantic
			out[i].Fuzzy = &fuzzy
		}
	}
	return out
}

// extraColumns lists the pass-through columns in header order. The name
// column is already shown.
func (o *output) extraColumns() []string {
	if o.info == nil {
		return nil
	}
	columns := make([]string, 0, len(o.info.Columns))
	for _, col := range o.info.Columns {
		if col != o.info.NameColumn {
			columns = append(columns, col)
		}
	}
	return columns
}

func (o *output) writeTable(results []*core.ScoredResult) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(o.w, "No matches.")
		return err
	}

	extra := o.extraColumns()
	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)

	header := []string{"ROW", "NAME", "SCORE"}
	if o.explain {
		header = append(header, "SEMANTIC", "FUZZY")
	}
	for _, col := range extra {
		header = append(header, strings.ToUpper(col))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, r := range results {
		row := []string{
			strconv.Itoa(r.Record.Row),
			cell(r.Record.Name),
			formatScore(r.Score),
		}
		if o.explain {
			row = append(row, formatScore(r.Semantic), formatScore(r.Fuzzy))
		}
		for _, col := range extra {
			v, _ := r.Record.Field(col)
			row = append(row, cell(v))
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// cell flattens a value onto one table line.
func cell(v string) string {
	v = strings.Join(strings.Fields(v), " ")
	if v == "" {
		return "-"
	}
	return v
}
