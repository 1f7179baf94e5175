package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextDueDateMonthly(t *testing.T) {
	invoice := &Invoice{DueDate: day(2025, time.January, 5), Qty: 1}
	assert.Equal(t, day(2025, time.February, 5), invoice.NextDueDate())
}

func TestNextDueDateQuarterly(t *testing.T) {
	invoice := &Invoice{DueDate: day(2025, time.January, 5), Qty: 3}
	assert.Equal(t, day(2025, time.April, 5), invoice.NextDueDate())
}

func TestNextDueDateYearly(t *testing.T) {
	invoice := &Invoice{DueDate: day(2025, time.January, 5), Qty: 12}
	assert.Equal(t, day(2026, time.January, 5), invoice.NextDueDate())
}

func TestNextDueDateZeroQtyBillsMonthly(t *testing.T) {
	invoice := &Invoice{DueDate: day(2025, time.January, 5), Qty: 0}
	assert.Equal(t, day(2025, time.February, 5), invoice.NextDueDate())
}

func TestNextDueDateYearRollover(t *testing.T) {
	invoice := &Invoice{DueDate: day(2025, time.December, 5), Qty: 1}
	assert.Equal(t, day(2026, time.January, 5), invoice.NextDueDate())
}

func TestInContractWindow(t *testing.T) {
	tenant := &Tenant{
		ContractStart: day(2024, time.June, 1),
		ContractEnd:   day(2025, time.June, 1),
	}
	assert.True(t, tenant.InContractWindow(day(2024, time.June, 1)))
	assert.True(t, tenant.InContractWindow(day(2025, time.January, 15)))
	assert.True(t, tenant.InContractWindow(day(2025, time.June, 1)))
	assert.False(t, tenant.InContractWindow(day(2024, time.May, 31)))
	assert.False(t, tenant.InContractWindow(day(2025, time.June, 2)))
}
