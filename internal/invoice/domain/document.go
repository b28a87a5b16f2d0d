// Package domain defines the typed invoice document model. The builder
// turns a ledger record into a block tree; the renderer walks that tree and
// decides page breaks. Keeping the two apart keeps pagination decisions out
// of the billing code.
package domain

import (
	"time"

	billingdomain "github.com/Nairolf13/Frimousse-sub002/internal/billing/domain"
	directorydomain "github.com/Nairolf13/Frimousse-sub002/internal/directory/domain"
	"github.com/Nairolf13/Frimousse-sub002/internal/invoice/format"
	"github.com/shopspring/decimal"
)

// Issuer is the center block at the top of the document.
type Issuer struct {
	Name        string
	AddressLine string
	City        string
	Email       string
}

// BillTo identifies the billed parent.
type BillTo struct {
	Name  string
	Email string
	Phone string
}

// Row is one table line. Numeric cells are pre-formatted so the renderer
// stays free of monetary logic.
type Row struct {
	ChildName  string
	ChildGroup string
	Days       string
	Rate       string
	Subtotal   string
}

// Totals is the closing block. ShowDiscount and ShowTax gate the optional
// lines; the subtotal line always renders.
type Totals struct {
	Subtotal     string
	Discount     string
	ShowDiscount bool
	Tax          string
	TaxLabel     string
	ShowTax      bool
	Total        string
}

// InvoiceDocument is the complete block model handed to the renderer.
type InvoiceDocument struct {
	Number    string
	IssueDate string
	DueDate   string
	Period    string
	Issuer    Issuer
	BillTo    BillTo
	Rows      []Row
	Totals    Totals
	Footer    string
}

// BuildDocument assembles the block model from a ledger record, its parent
// and the issuing center. issued is the issue instant in the center
// timezone; the same inputs always build the same document.
func BuildDocument(record *billingdomain.PaymentHistory, parent *directorydomain.Parent, center *directorydomain.Center, currency string, issued time.Time) InvoiceDocument {
	rows := make([]Row, 0, len(record.Items))
	subtotal := decimal.Zero
	for _, item := range record.Items {
		subtotal = subtotal.Add(item.Subtotal)
		rows = append(rows, Row{
			ChildName:  item.ChildName,
			ChildGroup: item.ChildGroup,
			Days:       decimal.NewFromInt(int64(item.DaysPresent)).String(),
			Rate:       format.Money(item.RatePerDay, currency),
			Subtotal:   format.Money(item.Subtotal, currency),
		})
	}

	tax := subtotal.Mul(record.TaxRatePercent).Div(decimal.NewFromInt(100)).Round(2)

	return InvoiceDocument{
		Number:    format.DocumentNumber(record.ID.String(), issued.Year()),
		IssueDate: format.Date(issued),
		DueDate:   format.Date(format.DueDate(issued)),
		Period:    format.Period(record.Year, record.Month),
		Issuer: Issuer{
			Name:        center.Name,
			AddressLine: center.AddressLine,
			City:        center.City,
			Email:       center.Email,
		},
		BillTo: BillTo{
			Name:  parent.Name,
			Email: parent.Email,
			Phone: parent.Phone,
		},
		Rows: rows,
		Totals: Totals{
			Subtotal:     format.Money(subtotal, currency),
			Discount:     format.Money(record.Discount.Neg(), currency),
			ShowDiscount: record.Discount.IsPositive(),
			Tax:          format.Money(tax, currency),
			TaxLabel:     "Tax (" + record.TaxRatePercent.String() + "%)",
			ShowTax:      record.TaxRatePercent.IsPositive(),
			Total:        format.Money(record.Total, currency),
		},
		Footer: "Thank you for your trust. Payment is due within 15 days of the issue date.",
	}
}
