package diag

import "runtime"

// ResourceStats is spec §4.11's "resource stats" response. GPU fields are
// always nil: no GPU-stats library appears anywhere in the retrieved
// corpus, and probing vendor-specific tooling (nvidia-smi and
// equivalents) would be fabrication rather than grounding, so this
// reports only what the Go runtime itself can observe.
type ResourceStats struct {
	CPUCount         int    `json:"cpu_count"`
	Goroutines       int    `json:"goroutines"`
	MemAllocBytes    uint64 `json:"mem_alloc_bytes"`
	MemSysBytes      uint64 `json:"mem_sys_bytes"`
	GPUActiveBytes   *uint64 `json:"gpu_active_bytes,omitempty"`
	GPUPeakBytes     *uint64 `json:"gpu_peak_bytes,omitempty"`
}

// CollectResourceStats samples process-level memory/goroutine stats via
// runtime.MemStats, the only stats surface available without a
// third-party dependency.
func CollectResourceStats() ResourceStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return ResourceStats{
		CPUCount:      runtime.NumCPU(),
		Goroutines:    runtime.NumGoroutine(),
		MemAllocBytes: m.Alloc,
		MemSysBytes:   m.Sys,
	}
}
