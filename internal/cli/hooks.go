package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// logHooks reports pipeline, classification and HTTP events to the logger.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnCompileStart(_ context.Context, diagram, engine string) {
	h.logger.Debug("compile start", "diagram", diagram, "engine", engine)
}

func (h logHooks) OnCompileComplete(_ context.Context, diagram string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("compile failed", "diagram", diagram, "duration", d, "err", err)
		return
	}
	h.logger.Debug("compile done", "diagram", diagram, "bytes", size, "duration", d)
}

func (h logHooks) OnRenderStart(_ context.Context, diagram string, primitives int) {
	h.logger.Debug("render start", "diagram", diagram, "primitives", primitives)
}

func (h logHooks) OnRenderComplete(_ context.Context, diagram string, replaced, skipped int, d time.Duration, err error) {
	h.logger.Debug("render done", "diagram", diagram, "replaced", replaced, "skipped", skipped, "duration", d, "err", err)
}

func (h logHooks) OnClassify(_ context.Context, outcome string, d time.Duration) {
	h.logger.Debug("classified", "outcome", outcome, "duration", d)
}

func (h logHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request start", "method", method, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Info("request", "method", method, "path", path, "status", status, "duration", d)
}
