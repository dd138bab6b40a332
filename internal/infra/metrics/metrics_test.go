package metrics

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, kind, outcome string) float64 {
	t.Helper()
	var m dto.Metric
	if err := Commands.WithLabelValues(kind, outcome).Write(&m); err != nil {
		t.Fatal(err)
	}
	return m.GetCounter().GetValue()
}

func TestObserve(t *testing.T) {
	before := counterValue(t, "ping", "ok")
	Observe("ping", "ok", time.Now())
	if got := counterValue(t, "ping", "ok"); got != before+1 {
		t.Errorf("commands_total = %v, want %v", got, before+1)
	}
}
