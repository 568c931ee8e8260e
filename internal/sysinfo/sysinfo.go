// Package sysinfo gathers the host metrics behind /sysinfo.
package sysinfo

import (
	"context"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

type Snapshot struct {
	Platform  string
	Release   string
	GoVersion string

	CPUPercent float64
	CPUCores   int

	MemTotal   uint64
	MemUsed    uint64
	MemPercent float64

	DiskTotal   uint64
	DiskUsed    uint64
	DiskPercent float64

	StartedAt time.Time
	Uptime    time.Duration
}

type Collector struct {
	start time.Time
}

func NewCollector() *Collector {
	return &Collector{start: time.Now()}
}

// Collect takes about a second: CPU usage is sampled over a 1s window.
func (c *Collector) Collect(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{
		GoVersion: runtime.Version(),
		StartedAt: c.start,
		Uptime:    time.Since(c.start),
	}

	if info, err := host.InfoWithContext(ctx); err == nil {
		snap.Platform = info.Platform
		snap.Release = info.PlatformVersion
	}

	if percents, err := cpu.PercentWithContext(ctx, time.Second, false); err == nil && len(percents) > 0 {
		snap.CPUPercent = percents[0]
	}
	if cores, err := cpu.CountsWithContext(ctx, true); err == nil {
		snap.CPUCores = cores
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, err
	}
	snap.MemTotal = vm.Total
	snap.MemUsed = vm.Used
	snap.MemPercent = vm.UsedPercent

	du, err := disk.UsageWithContext(ctx, "/")
	if err != nil {
		return nil, err
	}
	snap.DiskTotal = du.Total
	snap.DiskUsed = du.Used
	snap.DiskPercent = du.UsedPercent

	return snap, nil
}
