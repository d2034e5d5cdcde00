package vaultserver

import (
	"context"
	"math"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
)

// Health is the body of GET /api/health/.
type Health struct {
	Status            string  `json:"status"`
	Message           string  `json:"message"`
	UptimeSeconds     int64   `json:"uptime_seconds"`
	MemoryUsedPercent float64 `json:"memory_used_percent"`
}

func (s *Server) health(ctx context.Context) Health {
	h := Health{
		Status:        "healthy",
		Message:       "Aura vault is running",
		UptimeSeconds: int64(s.now().Sub(s.started) / time.Second),
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		h.MemoryUsedPercent = math.Round(vm.UsedPercent*100) / 100
	} else {
		s.log.Debug("memory stats unavailable", "err", err)
	}
	return h
}
