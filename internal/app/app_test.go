package app

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	apperrors "github.com/agbru/numkit/internal/errors"
	"github.com/agbru/numkit/internal/logging"
)

func newApp(t *testing.T, args ...string) (*Application, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	var errOut bytes.Buffer
	a, err := New(append([]string{"numkit"}, args...), &errOut, WithLogger(logging.Nop()))
	if err != nil {
		t.Fatalf("New(%v): %v (stderr %q)", args, err, errOut.String())
	}
	return a, &errOut
}

func TestNew_Help(t *testing.T) {
	var errOut bytes.Buffer
	_, err := New([]string{"numkit", "--help"}, &errOut)
	if !IsHelpError(err) {
		t.Fatalf("err = %v, want help error", err)
	}
	if !strings.Contains(errOut.String(), "Usage: numkit") {
		t.Errorf("usage not printed: %q", errOut.String())
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	var errOut bytes.Buffer
	_, err := New([]string{"numkit", "--repl", "--bench"}, &errOut)
	if code := apperrors.ExitCodeFor(err); code != apperrors.ExitErrorConfig {
		t.Errorf("exit code = %d, want %d (err %v)", code, apperrors.ExitErrorConfig, err)
	}
}

func TestNew_TUIConflicts(t *testing.T) {
	for _, args := range [][]string{
		{"numkit", "--bench", "--tui", "--json"},
		{"numkit", "--bench", "--tui", "--quiet"},
	} {
		var errOut bytes.Buffer
		_, err := New(args, &errOut)
		if code := apperrors.ExitCodeFor(err); code != apperrors.ExitErrorConfig {
			t.Errorf("New(%v) exit code = %d, want %d (err %v)", args, code, apperrors.ExitErrorConfig, err)
		}
		if !strings.Contains(errOut.String(), "--tui") {
			t.Errorf("stderr = %q", errOut.String())
		}
	}
}

func TestRun_Demo(t *testing.T) {
	a, _ := newApp(t)
	var out bytes.Buffer
	if code := a.Run(t.Context(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	for _, want := range []string{"1. Add numbers: 42", "2. Fibonacci(15): 610", "3. Sort numbers: [1, 2, 5, 8, 9]", "Value: 15"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("demo output missing %q", want)
		}
	}
}

func TestRun_Call(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
		out  string
		err  string
	}{
		{"fibonacci", []string{"-q", "--call", "fibonacci", "93"}, apperrors.ExitSuccess, "12200160415121876738\n", ""},
		{"add", []string{"-q", "--call", "add_numbers", "10", "32"}, apperrors.ExitSuccess, "42\n", ""},
		{"sort words", []string{"-q", "--call", "sort_numbers", "--", "5", "-2", "8"}, apperrors.ExitSuccess, "[-2, 5, 8]\n", ""},
		{"sort list", []string{"-q", "--call", "sort_numbers", "[3,1,2]"}, apperrors.ExitSuccess, "[1, 2, 3]\n", ""},
		{"sort single", []string{"-q", "--call", "sort_numbers", "42"}, apperrors.ExitSuccess, "[42]\n", ""},
		{"unknown function", []string{"--call", "mul", "1", "2"}, apperrors.ExitErrorBinding, "", "unknown function"},
		{"bad argument", []string{"--call", "fibonacci", "x"}, apperrors.ExitErrorBinding, "", "fibonacci"},
		{"bad list", []string{"--call", "sort_numbers", "[1,"}, apperrors.ExitErrorBinding, "", "invalid list"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, errOut := newApp(t, tt.args...)
			var out bytes.Buffer
			if code := a.Run(t.Context(), &out); code != tt.code {
				t.Fatalf("exit code = %d, want %d (stderr %q)", code, tt.code, errOut.String())
			}
			if tt.out != "" && out.String() != tt.out {
				t.Errorf("stdout = %q, want %q", out.String(), tt.out)
			}
			if tt.err != "" && !strings.Contains(errOut.String(), tt.err) {
				t.Errorf("stderr = %q, want %q", errOut.String(), tt.err)
			}
		})
	}
}

func TestRun_CallJSON(t *testing.T) {
	a, _ := newApp(t, "--json", "--call", "fibonacci", "20")
	var out bytes.Buffer
	if code := a.Run(t.Context(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	var got struct {
		Function string `json:"function"`
		Result   uint64 `json:"result"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal %q: %v", out.String(), err)
	}
	if got.Function != "fibonacci" || got.Result != 6765 {
		t.Errorf("got %+v", got)
	}
}

func TestRun_Completion(t *testing.T) {
	a, _ := newApp(t, "--completion", "bash")
	var out bytes.Buffer
	if code := a.Run(t.Context(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(out.String(), "add_numbers fibonacci sort_numbers") {
		t.Errorf("completion does not offer the bound functions:\n%s", out.String())
	}
}

func TestRun_BenchJSON(t *testing.T) {
	a, _ := newApp(t, "--bench", "--json", "--bench-filter", "add", "--bench-time", "1ms", "--bench-parallel", "2")
	var out bytes.Buffer
	if code := a.Run(t.Context(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	var report struct {
		Host struct {
			GOOS string `json:"goos"`
		} `json:"host"`
		Results []struct {
			Name       string `json:"name"`
			Iterations int    `json:"iterations"`
			Error      string `json:"error"`
		} `json:"results"`
	}
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out.String())
	}
	if report.Host.GOOS == "" || len(report.Results) == 0 {
		t.Fatalf("report = %+v", report)
	}
	for _, r := range report.Results {
		if !strings.Contains(strings.ToLower(r.Name), "add") || r.Iterations < 1 || r.Error != "" {
			t.Errorf("unexpected result %+v", r)
		}
	}
}

func TestRun_BenchTable(t *testing.T) {
	a, _ := newApp(t, "--bench", "-q", "--bench-filter", "calculator single", "--bench-time", "1ms")
	var out bytes.Buffer
	if code := a.Run(t.Context(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d\n%s", code, out.String())
	}
	if !strings.Contains(out.String(), "calculator single add") || !strings.Contains(out.String(), "Global Status: Success") {
		t.Errorf("output:\n%s", out.String())
	}
}

func TestRun_BenchNoMatch(t *testing.T) {
	a, errOut := newApp(t, "--bench", "--bench-filter", "does-not-exist")
	if code := a.Run(t.Context(), &bytes.Buffer{}); code != apperrors.ExitErrorConfig {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorConfig)
	}
	if !strings.Contains(errOut.String(), "does-not-exist") {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestHasVersionFlag(t *testing.T) {
	t.Parallel()
	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"--version"}, true},
		{[]string{"-q", "-V"}, true},
		{[]string{"--call", "fibonacci", "10"}, false},
		{[]string{"--call", "sort_numbers", "--", "--version"}, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := HasVersionFlag(tt.args); got != tt.want {
			t.Errorf("HasVersionFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestPrintVersion(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	PrintVersion(&out)
	if !strings.HasPrefix(out.String(), "numkit "+Version) {
		t.Errorf("PrintVersion = %q", out.String())
	}
}
