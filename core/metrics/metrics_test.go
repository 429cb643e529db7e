package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNopMetrics(t *testing.T) {
	m := NopMetrics()

	assert.NotPanics(t, func() {
		m.Transactions.With("type", "0x01", "code", "0").Add(1)
		m.TransactionDuration.With("type", "0x01").Observe(0.1)
		m.Supporters.With("contract", "Mx00").Set(3)
		m.Height.Set(10)
		m.APIDuration.With("route", "/api/v1/status").Observe(0.01)
	})
}
