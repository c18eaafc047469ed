// AngelaMos | 2026
// dto.go

package admin

import (
	"database/sql"
	"runtime"

	"github.com/redis/go-redis/v9"
)

type SystemStatsResponse struct {
	Platform PlatformResponse `json:"platform"`
	Database DatabaseStatus   `json:"database"`
	Redis    RedisStatus      `json:"redis"`
	Runtime  RuntimeStats     `json:"runtime"`
}

type PlatformResponse struct {
	Tenants          int            `json:"tenants"`
	ActiveTenants    int            `json:"activeTenants"`
	TrialTenants     int            `json:"trialTenants"`
	SuspendedTenants int            `json:"suspendedTenants"`
	TenantsByPlan    map[string]int `json:"tenantsByPlan"`
	Users            int            `json:"users"`
	Projects         int            `json:"projects"`
	Tasks            int            `json:"tasks"`
	CompletedTasks   int            `json:"completedTasks"`
}

type DatabaseStatus struct {
	Healthy bool         `json:"healthy"`
	Stats   *DBPoolStats `json:"stats,omitempty"`
}

type RedisStatus struct {
	Healthy bool            `json:"healthy"`
	Stats   *RedisPoolStats `json:"stats,omitempty"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"maxOpenConnections"`
	OpenConnections    int    `json:"openConnections"`
	InUse              int    `json:"inUse"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"waitCount"`
	WaitDuration       string `json:"waitDuration"`
	MaxIdleClosed      int64  `json:"maxIdleClosed"`
	MaxIdleTimeClosed  int64  `json:"maxIdleTimeClosed"`
	MaxLifetimeClosed  int64  `json:"maxLifetimeClosed"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"totalConns"`
	IdleConns  uint32 `json:"idleConns"`
	StaleConns uint32 `json:"staleConns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"goVersion"`
	NumGoroutine int    `json:"numGoroutine"`
	NumCPU       int    `json:"numCpu"`
	MemAlloc     uint64 `json:"memAllocBytes"`
	MemSys       uint64 `json:"memSysBytes"`
	NumGC        uint32 `json:"numGc"`
}

func ToPlatformResponse(p *Platform) PlatformResponse {
	byPlan := make(map[string]int, len(p.Plans))
	for _, pc := range p.Plans {
		byPlan[pc.Plan] = pc.Tenants
	}

	return PlatformResponse{
		Tenants:          p.Counts.Tenants,
		ActiveTenants:    p.Counts.ActiveTenants,
		TrialTenants:     p.Counts.TrialTenants,
		SuspendedTenants: p.Counts.SuspendedTenants,
		TenantsByPlan:    byPlan,
		Users:            p.Counts.Users,
		Projects:         p.Counts.Projects,
		Tasks:            p.Counts.Tasks,
		CompletedTasks:   p.Counts.CompletedTasks,
	}
}

func toDBPoolStats(stats sql.DBStats) *DBPoolStats {
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
		MaxIdleClosed:      stats.MaxIdleClosed,
		MaxIdleTimeClosed:  stats.MaxIdleTimeClosed,
		MaxLifetimeClosed:  stats.MaxLifetimeClosed,
	}
}

func toRedisPoolStats(stats *redis.PoolStats) *RedisPoolStats {
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
		StaleConns: stats.StaleConns,
	}
}

func readRuntimeStats() RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     memStats.Alloc,
		MemSys:       memStats.Sys,
		NumGC:        memStats.NumGC,
	}
}
