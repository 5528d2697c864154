package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestStatusClass(t *testing.T) {
	require.Equal(t, "2xx", statusClass(200))
	require.Equal(t, "4xx", statusClass(409))
	require.Equal(t, "5xx", statusClass(503))
	require.Equal(t, "unknown", statusClass(0))
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(decisionsTotal.WithLabelValues("APPROVED"))
	RecordDecision("APPROVED")
	RecordDecision("APPROVED")
	require.Equal(t, before+2, testutil.ToFloat64(decisionsTotal.WithLabelValues("APPROVED")))

	before = testutil.ToFloat64(remindersTotal)
	RecordReminders(3)
	require.Equal(t, before+3, testutil.ToFloat64(remindersTotal))
}
