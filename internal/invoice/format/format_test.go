package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDocumentNumber(t *testing.T) {
	assert.Equal(t, "FA-2025-abc123", DocumentNumber("abc123xyz", 2025))
}

func TestDocumentNumber_ShortID(t *testing.T) {
	assert.Equal(t, "FA-2025-ab", DocumentNumber("ab", 2025))
}

func TestDocumentNumber_Deterministic(t *testing.T) {
	first := DocumentNumber("1903581297444130816", 2025)
	second := DocumentNumber("1903581297444130816", 2025)
	assert.Equal(t, first, second)
	assert.Equal(t, "FA-2025-190358", first)
}

func TestDueDate(t *testing.T) {
	issued := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 4, 16, 9, 0, 0, 0, time.UTC), DueDate(issued))
}

func TestMoney(t *testing.T) {
	amount, _ := decimal.NewFromString("125.5")
	assert.Equal(t, "125.50 EUR", Money(amount, "EUR"))
}

func TestPeriod(t *testing.T) {
	assert.Equal(t, "March 2025", Period(2025, 3))
}
