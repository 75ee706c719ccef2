package orchestration

import "testing"

func TestNewProgressAggregator(t *testing.T) {
	if agg := NewProgressAggregator(3); agg == nil || agg.NumBenchmarks() != 3 {
		t.Fatalf("NewProgressAggregator(3) = %+v, want 3 benchmarks", agg)
	}
	for _, n := range []int{0, -1} {
		if agg := NewProgressAggregator(n); agg != nil {
			t.Errorf("NewProgressAggregator(%d) = %+v, want nil", n, agg)
		}
	}
}

func TestProgressAggregator_Update(t *testing.T) {
	agg := NewProgressAggregator(2)

	ap := agg.Update(ProgressUpdate{Index: 0, Value: 0.5})
	if ap.Index != 0 || ap.Value != 0.5 {
		t.Errorf("update echoed (%d, %f), want (0, 0.5)", ap.Index, ap.Value)
	}
	if ap.AverageProgress != 0.25 {
		t.Errorf("expected AverageProgress=0.25, got %f", ap.AverageProgress)
	}

	ap = agg.Update(ProgressUpdate{Index: 1, Value: 0.5})
	if ap.AverageProgress != 0.5 {
		t.Errorf("expected AverageProgress=0.5, got %f", ap.AverageProgress)
	}
	if agg.CalculateAverage() != 0.5 {
		t.Errorf("CalculateAverage() = %f, want 0.5", agg.CalculateAverage())
	}
}

func TestProgressAggregator_GetETA(t *testing.T) {
	agg := NewProgressAggregator(1)
	if eta := agg.GetETA(); eta != 0 {
		t.Errorf("expected initial ETA=0, got %v", eta)
	}
}

func TestDrainChannel(t *testing.T) {
	ch := make(chan ProgressUpdate, 5)
	ch <- ProgressUpdate{Index: 0, Value: 0.1}
	ch <- ProgressUpdate{Index: 0, Value: 0.2}
	close(ch)

	DrainChannel(ch)
	if len(ch) != 0 {
		t.Errorf("channel still holds %d updates", len(ch))
	}
}
