package renderer

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
)

// HostInfo describes the machine doing the rendering
type HostInfo struct {
	CPUModel     string
	LogicalCores int
	TotalMemory  uint64 // bytes
}

// String formats the host info for logging
func (h HostInfo) String() string {
	return fmt.Sprintf("%s, %d logical cores, %.1f GiB RAM",
		h.CPUModel, h.LogicalCores, float64(h.TotalMemory)/(1<<30))
}

// GetHostInfo queries CPU and memory information
func GetHostInfo() (HostInfo, error) {
	info := HostInfo{CPUModel: "unknown CPU", LogicalCores: runtime.NumCPU()}

	cpuInfo, err := cpu.Info()
	if err != nil {
		return info, fmt.Errorf("reading CPU info: %w", err)
	}
	if len(cpuInfo) > 0 && cpuInfo[0].ModelName != "" {
		info.CPUModel = cpuInfo[0].ModelName
	}

	if cores, err := cpu.Counts(true); err == nil && cores > 0 {
		info.LogicalCores = cores
	}

	memInfo, err := mem.VirtualMemory()
	if err != nil {
		return info, fmt.Errorf("reading memory info: %w", err)
	}
	info.TotalMemory = memInfo.Total

	return info, nil
}

// DefaultWorkers returns the logical core count reported by the host,
// falling back to runtime.NumCPU
func DefaultWorkers() int {
	if cores, err := cpu.Counts(true); err == nil && cores > 0 {
		return cores
	}
	return runtime.NumCPU()
}
