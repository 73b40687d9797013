package monitor

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/process"
)

const bytesPerMB = 1024 * 1024

// MemoryUsage reports process memory in whole megabytes. Heap figures come
// from the Go runtime; RSS comes from the OS and is zero when the platform
// probe fails.
type MemoryUsage struct {
	HeapAllocMB uint64 `json:"heap_alloc_mb"`
	HeapSysMB   uint64 `json:"heap_sys_mb"`
	SysMB       uint64 `json:"sys_mb"`
	RSSMB       uint64 `json:"rss_mb"`
}

func ReadMemoryUsage() MemoryUsage {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	usage := MemoryUsage{
		HeapAllocMB: ms.HeapAlloc / bytesPerMB,
		HeapSysMB:   ms.HeapSys / bytesPerMB,
		SysMB:       ms.Sys / bytesPerMB,
	}

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if info, err := proc.MemoryInfo(); err == nil {
			usage.RSSMB = info.RSS / bytesPerMB
		}
	}

	return usage
}
