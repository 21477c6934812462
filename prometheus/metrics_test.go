package prometheus

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestTrackDBOperationObservesDuration(t *testing.T) {
	before := testutil.CollectAndCount(DBOperationDuration)

	done := TrackDBOperation("test_operation")
	done(time.Now())

	after := testutil.CollectAndCount(DBOperationDuration)
	if after <= before {
		t.Errorf("no observation recorded: before=%d after=%d", before, after)
	}
}

func TestRecordAuthErrorIncrementsCounter(t *testing.T) {
	RecordAuthError("test_error")
	got := testutil.ToFloat64(AuthErrorCounter.WithLabelValues("test_error"))
	if got < 1 {
		t.Errorf("auth error counter = %v, want >= 1", got)
	}
}
