// Tiendat | 2026
// handler.go

// Package admin exposes operational introspection behind the admin gate.
package admin

import (
	"net/http"
	"runtime"

	"github.com/Tiendat2703/bleen-private/internal/audit"
	"github.com/Tiendat2703/bleen-private/internal/core"
)

type Handler struct {
	db    *core.Database
	redis *core.Redis
	sink  *audit.Sink
}

func NewHandler(db *core.Database, redis *core.Redis, sink *audit.Sink) *Handler {
	return &Handler{db: db, redis: redis, sink: sink}
}

type runtimeStats struct {
	Goroutines   int    `json:"goroutines"`
	HeapAllocMB  uint64 `json:"heapAllocMb"`
	NumGC        uint32 `json:"numGc"`
	GoVersion    string `json:"goVersion"`
	AuditDropped int64  `json:"auditDropped"`
}

type poolStats struct {
	DBOpen        int    `json:"dbOpen"`
	DBInUse       int    `json:"dbInUse"`
	DBIdle        int    `json:"dbIdle"`
	DBWaitCount   int64  `json:"dbWaitCount"`
	RedisHits     uint32 `json:"redisHits"`
	RedisMisses   uint32 `json:"redisMisses"`
	RedisTimeouts uint32 `json:"redisTimeouts"`
}

func (h *Handler) Runtime(w http.ResponseWriter, r *http.Request) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	core.OK(w, "runtime stats", runtimeStats{
		Goroutines:   runtime.NumGoroutine(),
		HeapAllocMB:  mem.HeapAlloc / 1024 / 1024,
		NumGC:        mem.NumGC,
		GoVersion:    runtime.Version(),
		AuditDropped: h.sink.Dropped(),
	})
}

func (h *Handler) Pools(w http.ResponseWriter, r *http.Request) {
	db := h.db.Stats()
	redis := h.redis.PoolStats()

	core.OK(w, "pool stats", poolStats{
		DBOpen:        db.OpenConnections,
		DBInUse:       db.InUse,
		DBIdle:        db.Idle,
		DBWaitCount:   db.WaitCount,
		RedisHits:     redis.Hits,
		RedisMisses:   redis.Misses,
		RedisTimeouts: redis.Timeouts,
	})
}
