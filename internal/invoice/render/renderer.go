// Package render produces the invoice PDF from the typed document model.
// Rendering is deterministic and performs no I/O; pagination is decided
// here and nowhere else.
package render

import (
	"fmt"

	"github.com/Nairolf13/Frimousse-sub002/internal/invoice/domain"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// Five fixed table columns on the 12-column grid: name, group, days, rate,
// subtotal. Numeric columns are right-aligned; label and value cells never
// share a grid column, so labels cannot overlap values.
const (
	colName     = 4
	colGroup    = 2
	colDays     = 2
	colRate     = 2
	colSubtotal = 2
)

const baseRowHeight = 8

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render lays out the document and returns the PDF bytes. The header block
// and table header are registered as the page header, so every page after a
// break repeats them with identical geometry. Rows are never split across
// pages.
func (r *Renderer) Render(doc domain.InvoiceDocument) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithRightMargin(15).
		WithTopMargin(10).
		WithBottomMargin(10).
		Build()

	m := maroto.New(cfg)

	if err := m.RegisterHeader(headerRows(doc)...); err != nil {
		return nil, fmt.Errorf("register header: %w", err)
	}
	if err := m.RegisterFooter(footerRows(doc)...); err != nil {
		return nil, fmt.Errorf("register footer: %w", err)
	}

	if len(doc.Rows) == 0 {
		m.AddRow(baseRowHeight,
			text.NewCol(12, "No attendance recorded for this period", props.Text{
				Size:  9,
				Style: fontstyle.Italic,
				Align: align.Center,
			}),
		)
	}
	for _, item := range doc.Rows {
		m.AddRows(itemRow(item))
	}

	m.AddRow(4, line.NewCol(12, props.Line{SizePercent: 100}))
	m.AddRows(totalsRows(doc.Totals)...)

	rendered, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate invoice pdf: %w", err)
	}
	return rendered.GetBytes(), nil
}

// headerRows builds the issuer block, the three metadata boxes, the summary
// cards and the table header. Registered per page.
func headerRows(doc domain.InvoiceDocument) []core.Row {
	rows := []core.Row{
		row.New(12).Add(
			text.NewCol(8, doc.Issuer.Name, props.Text{
				Size:  18,
				Style: fontstyle.Bold,
			}),
			text.NewCol(4, "INVOICE", props.Text{
				Size:  18,
				Style: fontstyle.Bold,
				Align: align.Right,
			}),
		),
		row.New(12).Add(
			col.New(8).Add(
				text.New(doc.Issuer.AddressLine, props.Text{Size: 8}),
				text.New(doc.Issuer.City, props.Text{Size: 8, Top: 4}),
				text.New(doc.Issuer.Email, props.Text{Size: 8, Top: 8}),
			),
			col.New(4).Add(
				text.New("Invoice number: "+doc.Number, props.Text{Size: 8, Align: align.Right}),
				text.New("Issue date: "+doc.IssueDate, props.Text{Size: 8, Top: 4, Align: align.Right}),
				text.New("Due date: "+doc.DueDate, props.Text{Size: 8, Top: 8, Align: align.Right}),
			),
		),
		row.New(16).Add(
			col.New(6).Add(
				text.New("Billed to", props.Text{Size: 8, Style: fontstyle.Bold}),
				text.New(doc.BillTo.Name, props.Text{Size: 9, Top: 4}),
				text.New(doc.BillTo.Email, props.Text{Size: 8, Top: 8}),
			),
			col.New(6).Add(
				text.New("Billing period", props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}),
				text.New(doc.Period, props.Text{Size: 9, Top: 4, Align: align.Right}),
			),
		),
		row.New(8).WithStyle(&props.Cell{
			BackgroundColor: &props.Color{Red: 235, Green: 235, Blue: 235},
		}).Add(
			text.NewCol(colName, "Child", props.Text{Size: 9, Style: fontstyle.Bold, Left: 1}),
			text.NewCol(colGroup, "Group", props.Text{Size: 9, Style: fontstyle.Bold}),
			text.NewCol(colDays, "Days", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
			text.NewCol(colRate, "Rate/day", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
			text.NewCol(colSubtotal, "Subtotal", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right, Right: 1}),
		),
	}
	return rows
}

func itemRow(item domain.Row) core.Row {
	return row.New(rowHeight(item.ChildName)).Add(
		text.NewCol(colName, item.ChildName, props.Text{Size: 9, Left: 1}),
		text.NewCol(colGroup, item.ChildGroup, props.Text{Size: 9}),
		text.NewCol(colDays, item.Days, props.Text{Size: 9, Align: align.Right}),
		text.NewCol(colRate, item.Rate, props.Text{Size: 9, Align: align.Right}),
		text.NewCol(colSubtotal, item.Subtotal, props.Text{Size: 9, Align: align.Right, Right: 1}),
	)
}

// rowHeight grows with the wrapped name so long names keep their padding
// instead of bleeding into the next row.
func rowHeight(name string) float64 {
	const charsPerLine = 34
	lines := 1 + len(name)/charsPerLine
	return float64(baseRowHeight + (lines-1)*4)
}

func totalsRows(t domain.Totals) []core.Row {
	rows := []core.Row{
		totalsLine("Subtotal", t.Subtotal, false),
	}
	if t.ShowDiscount {
		rows = append(rows, totalsLine("Discount", t.Discount, false))
	}
	if t.ShowTax {
		rows = append(rows, totalsLine(t.TaxLabel, t.Tax, false))
	}
	rows = append(rows, row.New(10).WithStyle(&props.Cell{
		BackgroundColor: &props.Color{Red: 220, Green: 230, Blue: 242},
	}).Add(
		col.New(6),
		text.NewCol(3, "Total due", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(3, t.Total, props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right, Right: 1}),
	))
	return rows
}

func totalsLine(label, value string, bold bool) core.Row {
	style := fontstyle.Normal
	if bold {
		style = fontstyle.Bold
	}
	return row.New(7).Add(
		col.New(6),
		text.NewCol(3, label, props.Text{Size: 9, Style: style, Align: align.Right}),
		text.NewCol(3, value, props.Text{Size: 9, Style: style, Align: align.Right, Right: 1}),
	)
}

func footerRows(doc domain.InvoiceDocument) []core.Row {
	return []core.Row{
		row.New(8).Add(
			text.NewCol(12, doc.Footer, props.Text{
				Size:  8,
				Align: align.Center,
			}),
		),
	}
}
