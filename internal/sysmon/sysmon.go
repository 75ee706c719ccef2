// Package sysmon provides system-wide CPU and memory usage sampling and a
// description of the host the benchmarks run on.
package sysmon

import (
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	xcpu "golang.org/x/sys/cpu"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
}

// Sample collects a single system-wide CPU and memory snapshot.
// CPU uses interval=0 (delta since last call). Returns zero values on error.
func Sample() Stats {
	var s Stats
	cpuPcts, err := cpu.Percent(0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	vmem, err := mem.VirtualMemory()
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	return s
}

// Host describes the machine and runtime benchmark numbers were taken on.
type Host struct {
	GOOS        string `json:"goos"`
	GOARCH      string `json:"goarch"`
	GoVersion   string `json:"go_version"`
	NumCPU      int    `json:"num_cpu"`
	CPUModel    string `json:"cpu_model,omitempty"`
	TotalMemory uint64 `json:"total_memory,omitempty"`
	// Features lists the instruction set extensions detected at startup.
	Features []string `json:"features,omitempty"`
}

// DescribeHost gathers a Host description. Fields gopsutil cannot read on
// this platform are left empty.
func DescribeHost() Host {
	h := Host{
		GOOS:      runtime.GOOS,
		GOARCH:    runtime.GOARCH,
		GoVersion: runtime.Version(),
		NumCPU:    runtime.NumCPU(),
		Features:  CPUFeatures(),
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		h.CPUModel = strings.TrimSpace(infos[0].ModelName)
	}
	if vmem, err := mem.VirtualMemory(); err == nil && vmem != nil {
		h.TotalMemory = vmem.Total
	}
	return h
}

// CPUFeatures returns the names of the relevant CPU features present on the
// current processor, in a stable order.
func CPUFeatures() []string {
	var out []string
	add := func(name string, ok bool) {
		if ok {
			out = append(out, name)
		}
	}
	switch runtime.GOARCH {
	case "amd64", "386":
		add("sse4.2", xcpu.X86.HasSSE42)
		add("popcnt", xcpu.X86.HasPOPCNT)
		add("avx", xcpu.X86.HasAVX)
		add("avx2", xcpu.X86.HasAVX2)
		add("bmi2", xcpu.X86.HasBMI2)
		add("adx", xcpu.X86.HasADX)
		add("avx512f", xcpu.X86.HasAVX512F)
	case "arm64":
		add("asimd", xcpu.ARM64.HasASIMD)
		add("aes", xcpu.ARM64.HasAES)
		add("atomics", xcpu.ARM64.HasATOMICS)
		add("sve", xcpu.ARM64.HasSVE)
	}
	return out
}
