package output

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/leapstack-labs/trendsql/internal/batch"
)

// QueryLine writes the progress line for one finished query.
func (r *Renderer) QueryLine(e batch.Entry) {
	label := fmt.Sprintf("Q%s %s", e.QueryNum, e.Name)
	if e.OK() {
		r.StatusLine(label, StatusSuccess, fmt.Sprintf("(%d rows) → %s", e.Rows, e.OutputFile))
		return
	}
	r.StatusLine(label, StatusError, e.Status)
}

// Summary writes the run summary: a table of entries plus totals, or the
// whole manifest in JSON mode.
func (r *Renderer) Summary(m *batch.Manifest) error {
	mode := r.EffectiveMode()
	if mode == ModeJSON {
		return r.JSON(m)
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Name", "Rows", "Output", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 3, Align: text.AlignRight}})
	for _, e := range m.Entries {
		rows := strconv.Itoa(e.Rows)
		if !e.OK() && e.OutputFile == "" && e.Rows == 0 {
			rows = "-"
		}
		t.AppendRow(table.Row{e.QueryNum, e.Name, rows, e.OutputFile, e.Status})
	}

	totals := fmt.Sprintf("%d succeeded, %d failed in %s", m.Succeeded(), m.Failed(), m.Duration.Round(time.Millisecond))

	r.Println("")
	if mode == ModeMarkdown {
		r.Println("## Run summary")
		r.Println("")
		r.Println(t.RenderMarkdown())
		r.Println("")
		r.Println(totals)
		r.Println("")
		r.Printf("Manifest: `%s`\n", m.Path)
		return nil
	}

	r.Println(r.styles.Header1.Render("Run summary"))
	r.Println(t.Render())
	status := r.styles.Success
	if m.Failed() > 0 {
		status = r.styles.Warning
	}
	r.Println(status.Render(totals))
	r.Println(r.styles.Muted.Render("Manifest: " + m.Path))
	return nil
}
