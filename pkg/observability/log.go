package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug-level
// structured log lines. The CLI installs it when --verbose is set.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnGenerateStart(_ context.Context, sketch string, seed int64) {
	h.logger.Debug("generate start", "sketch", sketch, "seed", seed)
}

func (h *LogHooks) OnGenerateComplete(_ context.Context, sketch string, seed int64, entities int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("generate failed", "sketch", sketch, "seed", seed, "error", err)
		return
	}
	h.logger.Debug("generate done", "sketch", sketch, "seed", seed, "entities", entities, "took", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("render done", "formats", formats, "took", d, "error", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "took", d)
}

func (h *LogHooks) OnAction(session, sketch, action string, entities int, err error) {
	if err != nil {
		h.logger.Debug("session action failed", "session", session, "sketch", sketch, "action", action, "err", err)
		return
	}
	h.logger.Debug("session action", "session", session, "sketch", sketch, "action", action, "entities", entities)
}
