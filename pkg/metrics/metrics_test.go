package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRegisterCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	RegisterCollectors(reg)

	CourseOperations.WithLabelValues("create", OutcomeOK).Inc()
	CoursesStored.Set(4)

	require.Equal(t, 4.0, testutil.ToFloat64(CoursesStored))
	n, err := testutil.GatherAndCount(reg, "courses_operations_total", "courses_stored")
	require.NoError(t, err)
	require.Equal(t, 2, n)

	// registering twice on the same registry must panic
	require.Panics(t, func() { RegisterCollectors(reg) })
}
