package stats

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
)

type SystemInfo struct {
	OS           string
	Hostname     string
	SystemUptime time.Duration

	CPUCores int
	CPUUsage float64
	Load1    float64
	Load5    float64
	Load15   float64

	MemUsed      uint64
	MemTotal     uint64
	MemPercent   float64
	MemAvailable uint64

	// Disk figures describe the volume that holds DiskPath.
	DiskPath    string
	DiskUsed    uint64
	DiskTotal   uint64
	DiskPercent float64
	DiskFree    uint64

	NetSent uint64
	NetRecv uint64

	ProcessPID    int
	ProcessUptime time.Duration
	ProcessCPU    float64
	ProcessMem    uint64

	GoVersion  string
	Goroutines int
	HeapAlloc  uint64
	GCRuns     uint32
}

// Probe samples host and process metrics. Network counters are relative to
// the moment the probe was created.
type Probe struct {
	diskPath  string
	startTime time.Time
	sentBase  uint64
	recvBase  uint64
}

func NewProbe(diskPath string, startTime time.Time) *Probe {
	if diskPath == "" {
		diskPath = "/"
	}
	p := &Probe{diskPath: diskPath, startTime: startTime}
	if counters, err := net.IOCounters(false); err == nil && len(counters) > 0 {
		p.sentBase = counters[0].BytesSent
		p.recvBase = counters[0].BytesRecv
	}
	return p
}

// Collect never fails as a whole; metrics that cannot be read stay zero.
func (p *Probe) Collect(ctx context.Context) *SystemInfo {
	info := &SystemInfo{DiskPath: p.diskPath, CPUCores: runtime.NumCPU()}

	if h, err := host.InfoWithContext(ctx); err == nil {
		info.OS = h.OS
		info.Hostname = h.Hostname
		info.SystemUptime = time.Duration(h.Uptime) * time.Second
	}

	if pct, err := cpu.PercentWithContext(ctx, time.Second, false); err == nil && len(pct) > 0 {
		info.CPUUsage = pct[0]
	}
	if avg, err := load.AvgWithContext(ctx); err == nil {
		info.Load1, info.Load5, info.Load15 = avg.Load1, avg.Load5, avg.Load15
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		info.MemUsed = vm.Used
		info.MemTotal = vm.Total
		info.MemPercent = vm.UsedPercent
		info.MemAvailable = vm.Available
	}

	if d, err := disk.UsageWithContext(ctx, p.diskPath); err == nil {
		info.DiskUsed = d.Used
		info.DiskTotal = d.Total
		info.DiskPercent = d.UsedPercent
		info.DiskFree = d.Free
	}

	if counters, err := net.IOCountersWithContext(ctx, false); err == nil && len(counters) > 0 {
		info.NetSent = counters[0].BytesSent - p.sentBase
		info.NetRecv = counters[0].BytesRecv - p.recvBase
	}

	info.ProcessPID = os.Getpid()
	info.ProcessUptime = time.Since(p.startTime)
	if proc, err := process.NewProcessWithContext(ctx, int32(info.ProcessPID)); err == nil {
		if pct, err := proc.CPUPercentWithContext(ctx); err == nil {
			info.ProcessCPU = pct
		}
		if mi, err := proc.MemoryInfoWithContext(ctx); err == nil {
			info.ProcessMem = mi.RSS
		}
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	info.GoVersion = runtime.Version()
	info.Goroutines = runtime.NumGoroutine()
	info.HeapAlloc = m.Alloc
	info.GCRuns = m.NumGC

	return info
}
