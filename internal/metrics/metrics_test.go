package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInitRegistryIsIdempotent(t *testing.T) {
	first := InitRegistry()
	second := InitRegistry()
	if first != second {
		t.Error("InitRegistry must return the same registry on repeated calls")
	}
	if GetRegistry() != first {
		t.Error("GetRegistry must return the initialized registry")
	}
}

func TestRecordHelpersIncrementCounters(t *testing.T) {
	InitRegistry()

	before := testutil.ToFloat64(PredictionRunsTotal)
	RecordRunStarted()
	if got := testutil.ToFloat64(PredictionRunsTotal); got != before+1 {
		t.Errorf("expected runs counter %v, got %v", before+1, got)
	}

	beforeSkip := testutil.ToFloat64(MatchupsSkippedTotal.WithLabelValues("insufficient_data"))
	RecordMatchupSkipped("insufficient_data")
	if got := testutil.ToFloat64(MatchupsSkippedTotal.WithLabelValues("insufficient_data")); got != beforeSkip+1 {
		t.Errorf("expected skip counter %v, got %v", beforeSkip+1, got)
	}

	RecordRunCompleted(7, 12.5)
	if got := testutil.ToFloat64(LastRunPredictions); got != 7 {
		t.Errorf("expected last run predictions 7, got %v", got)
	}
}

func TestHandlerServesRegisteredMetrics(t *testing.T) {
	InitRegistry()
	RecordRunStarted()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "tennis_moneyline_prediction_runs_total") {
		t.Error("metrics output missing prediction runs counter")
	}
	if !strings.Contains(body, "tennis_moneyline_last_run_predictions") {
		t.Error("metrics output missing last run gauge")
	}
}
