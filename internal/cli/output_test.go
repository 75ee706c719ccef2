package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/agbru/numkit/internal/orchestration"
	"github.com/agbru/numkit/internal/sysmon"
)

func TestFormatValue(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   any
		want string
	}{
		{uint64(12200160415121876738), "12200160415121876738"},
		{[]int32{1, 2, 5, 8, 9}, "[1, 2, 5, 8, 9]"},
		{[]int32{}, "[]"},
		{"Calculator(value=42)", "Calculator(value=42)"},
		{nil, "null"},
		{3.5, "3.5"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDisplayCallResult(t *testing.T) {
	noColor(t)
	tests := []struct {
		name   string
		result any
		cfg    OutputConfig
		want   []string
	}{
		{"plain", uint64(6765), OutputConfig{}, []string{"fibonacci = 6765"}},
		{"quiet", uint64(6765), OutputConfig{Quiet: true}, []string{"6765\n"}},
		{"verbose", uint64(12200160415121876738), OutputConfig{Verbose: true}, []string{"12,200,160,415,121,876,738", "computed in"}},
		{"list", []int32{1, 2}, OutputConfig{}, []string{"[1, 2]"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := DisplayCallResult(&out, "fibonacci", tt.result, time.Millisecond, tt.cfg); err != nil {
				t.Fatalf("DisplayCallResult: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("output = %q, want %q", out.String(), w)
				}
			}
		})
	}
}

func TestDisplayCallResult_JSON(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	if err := DisplayCallResult(&out, "fibonacci", uint64(12200160415121876738), time.Millisecond, OutputConfig{JSON: true}); err != nil {
		t.Fatalf("DisplayCallResult: %v", err)
	}

	dec := json.NewDecoder(&out)
	dec.UseNumber()
	var got map[string]any
	if err := dec.Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["function"] != "fibonacci" {
		t.Errorf("function = %v", got["function"])
	}
	// uint64 values above 2^53 must survive exactly.
	if got["result"] != json.Number("12200160415121876738") {
		t.Errorf("result = %v, want exact uint64", got["result"])
	}
}

func TestNewBenchReport(t *testing.T) {
	t.Parallel()
	report := NewBenchReport(sysmon.Host{GOOS: "linux"}, []orchestration.BenchmarkResult{
		{Name: "ok", Iterations: 10, NsPerOp: 1.5},
		{Name: "bad", Err: errors.New("nope")},
	})

	var out bytes.Buffer
	if err := DisplayJSON(&out, report); err != nil {
		t.Fatalf("DisplayJSON: %v", err)
	}
	for _, want := range []string{`"goos": "linux"`, `"name": "ok"`, `"ns_per_op": 1.5`, `"error": "nope"`} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("JSON missing %s:\n%s", want, out.String())
		}
	}
	if strings.Count(out.String(), `"error"`) != 1 {
		t.Errorf("error field should be omitted for successful results:\n%s", out.String())
	}
}
