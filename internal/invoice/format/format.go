package format

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DueDays is the payment term applied to every invoice.
const DueDays = 15

// DocumentNumber formats a deterministic invoice number from the ledger
// record id and the issue year: "FA-" + year + "-" + first 6 characters of
// the id.
//
// This function is PURE:
// - No side effects
// - No DB access
// - Fully deterministic
func DocumentNumber(recordID string, issueYear int) string {
	short := recordID
	if len(short) > 6 {
		short = short[:6]
	}
	return fmt.Sprintf("FA-%d-%s", issueYear, short)
}

// DueDate returns the payment deadline for an issue date.
func DueDate(issued time.Time) time.Time {
	return issued.AddDate(0, 0, DueDays)
}

// Money renders a monetary amount with two decimals and a currency suffix,
// e.g. "125.50 EUR".
func Money(amount decimal.Decimal, currency string) string {
	return amount.StringFixed(2) + " " + currency
}

// Period renders the billing period, e.g. "March 2025".
func Period(year, month int) string {
	return fmt.Sprintf("%s %d", time.Month(month).String(), year)
}

// Date renders dates the way they appear on the document.
func Date(t time.Time) string {
	return t.Format("02/01/2006")
}
