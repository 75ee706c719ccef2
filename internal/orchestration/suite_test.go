package orchestration

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/agbru/numkit/internal/binding"
)

func caseNames(cases []Case) []string {
	names := make([]string, len(cases))
	for i, c := range cases {
		names[i] = c.Name
	}
	return names
}

func TestDefaultSuite_ChecksPass(t *testing.T) {
	t.Parallel()
	for _, c := range DefaultSuite(binding.NewDefaultModule()) {
		if err := c.Check(); err != nil {
			t.Errorf("%s: %v", c.Name, err)
		}
	}
}

func TestDefaultSuite_BindingCaseOptional(t *testing.T) {
	t.Parallel()
	without, with := DefaultSuite(nil), DefaultSuite(binding.NewDefaultModule())
	if len(with) != len(without)+1 {
		t.Fatalf("with module: %d cases, without: %d", len(with), len(without))
	}
	if got := with[len(with)-1].Name; got != "binding add_numbers" {
		t.Errorf("last case = %q, want binding add_numbers", got)
	}
}

func TestSelectCases(t *testing.T) {
	t.Parallel()
	suite := DefaultSuite(nil)
	tests := []struct {
		filter string
		want   []string
	}{
		{"", caseNames(suite)},
		{"FIBONACCI 20", []string{"fibonacci 20", "fibonacci 20 (fast doubling)"}},
		{"calculator", []string{"calculator operations", "calculator single add"}},
		{"nothing-matches", nil},
	}
	for _, tt := range tests {
		got := caseNames(SelectCases(suite, tt.filter))
		if len(got) != len(tt.want) {
			t.Errorf("SelectCases(%q) = %q, want %q", tt.filter, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("SelectCases(%q)[%d] = %q, want %q", tt.filter, i, got[i], tt.want[i])
			}
		}
	}
}

func TestDefaultSuite_Runs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping suite run in short mode")
	}
	cases := SelectCases(DefaultSuite(binding.NewDefaultModule()), "sort")
	results := ExecuteBenchmarks(context.Background(), cases, Options{BenchTime: time.Millisecond, Parallel: 2}, NullProgressReporter{}, io.Discard)
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("%s: %v", r.Name, r.Err)
		}
		if r.AllocsPerOp == 0 {
			t.Logf("%s: no allocations recorded (%d iterations)", r.Name, r.Iterations)
		}
	}
}
