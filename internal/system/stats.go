package system

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostStats is a snapshot of the machine the frames were rendered on.
type HostStats struct {
	Platform    string
	CPUModel    string
	LogicalCPUs int
	CPUPercent  float64
	MemTotal    uint64
	MemUsed     uint64
	MemPercent  float64
	Canvases    int64
}

func SampleHost(ctx context.Context) (*HostStats, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("memory stats: %w", err)
	}
	s := &HostStats{
		Platform:    runtime.GOOS + "/" + runtime.GOARCH,
		LogicalCPUs: runtime.NumCPU(),
		MemTotal:    vm.Total,
		MemUsed:     vm.Used,
		MemPercent:  vm.UsedPercent,
		Canvases:    Allocated(),
	}
	if n, err := cpu.CountsWithContext(ctx, true); err == nil && n > 0 {
		s.LogicalCPUs = n
	}
	if infos, err := cpu.InfoWithContext(ctx); err == nil && len(infos) > 0 {
		s.CPUModel = infos[0].ModelName
	}
	if pct, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(pct) > 0 {
		s.CPUPercent = pct[0]
	}
	if hi, err := host.InfoWithContext(ctx); err == nil && hi.Platform != "" {
		s.Platform = fmt.Sprintf("%s %s (%s)", hi.Platform, hi.PlatformVersion, hi.KernelArch)
	}
	return s, nil
}

func (s *HostStats) String() string {
	return fmt.Sprintf("Host: %s | CPU: %s x%d (%.0f%%) | RAM: %d/%d MiB (%.0f%%) | Canvases: %d",
		s.Platform, s.CPUModel, s.LogicalCPUs, s.CPUPercent,
		s.MemUsed>>20, s.MemTotal>>20, s.MemPercent, s.Canvases)
}

// SuggestWorkers caps render workers so in-flight canvases stay within a
// quarter of available memory. Each worker holds about three frames.
func SuggestWorkers(ctx context.Context, requested, frameBytes int) int {
	if requested < 1 {
		requested = runtime.NumCPU()
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil || frameBytes <= 0 {
		return requested
	}
	return capWorkers(requested, vm.Available, frameBytes)
}

func capWorkers(requested int, available uint64, frameBytes int) int {
	limit := int(available / 4 / uint64(frameBytes*3))
	return max(1, min(requested, limit))
}
