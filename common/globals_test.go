package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCycleMonths(t *testing.T) {
	assert.Equal(t, 1, CycleMonths(PaymentCycleMonthly))
	assert.Equal(t, 3, CycleMonths(PaymentCycleQuarterly))
	assert.Equal(t, 12, CycleMonths(PaymentCycleYearly))
	// unknown cycles bill monthly
	assert.Equal(t, 1, CycleMonths("weekly"))
	assert.Equal(t, 1, CycleMonths(""))
}
