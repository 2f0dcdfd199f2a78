package metrics_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/secmon-lab/sirico/pkg/utils/metrics"
)

func TestScoresComputed(t *testing.T) {
	counter := metrics.ScoresComputed.WithLabelValues("inherent", metrics.ResultClassified)
	before := testutil.ToFloat64(counter)

	counter.Inc()
	gt.Value(t, testutil.ToFloat64(counter)).Equal(before + 1)
}
