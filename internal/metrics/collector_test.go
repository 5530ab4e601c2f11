package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ObserveHelperCall(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("helpermesh", reg)

	c.ObserveHelperCall("math_add", StatusOK, 10*time.Millisecond)
	c.ObserveHelperCall("math_add", StatusOK, 5*time.Millisecond)
	c.ObserveHelperCall("math_add", StatusBindingError, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.helperCalls.WithLabelValues("math_add", StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.helperCalls.WithLabelValues("math_add", StatusBindingError)))

	count, err := testutil.GatherAndCount(reg, "helpermesh_helper_call_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCollector_Registrations(t *testing.T) {
	c := NewCollector("helpermesh", nil)
	c.AddRegistrations(3)
	c.AddRegistrations(0)
	assert.Equal(t, 3.0, testutil.ToFloat64(c.registrations))
}

func TestCollector_NilSafe(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveHelperCall("x", StatusOK, time.Second)
		c.AddRegistrations(1)
	})
	assert.Nil(t, c.Registerer())
}
