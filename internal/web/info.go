package web

import (
	"time"

	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// DeviceInfo is the host summary shown on the status page. Zero fields are
// left out of the page.
type DeviceInfo struct {
	Hostname       string
	Uptime         time.Duration
	MemoryTotal    uint64
	MemoryUsedPerc float64
}

// HostInfo samples the local host. Values that cannot be read stay zero.
func HostInfo() DeviceInfo {
	var info DeviceInfo
	if stat, err := host.Info(); err == nil {
		info.Hostname = stat.Hostname
		info.Uptime = time.Duration(stat.Uptime) * time.Second
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.MemoryTotal = vm.Total
		info.MemoryUsedPerc = vm.UsedPercent
	}
	return info
}
