package hooks

import (
	"context"

	"go.uber.org/zap"

	"github.com/skylift/schedctl/pkg/schedctl/client"
)

// LoggingHook logs every job action and its outcome. It never vetoes.
type LoggingHook struct {
	log *zap.SugaredLogger
}

func NewLoggingHook(log *zap.SugaredLogger) *LoggingHook {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &LoggingHook{log: log}
}

func (h *LoggingHook) Name() string { return "logging" }

func (h *LoggingHook) PreJobAction(_ context.Context, action string, key client.JobKey) error {
	h.log.Infow("job action starting", "action", action, "job", key.String())
	return nil
}

func (h *LoggingHook) PostJobAction(_ context.Context, action string, key client.JobKey, err error) {
	if err != nil {
		h.log.Warnw("job action failed", "action", action, "job", key.String(), "error", err)
		return
	}
	h.log.Infow("job action completed", "action", action, "job", key.String())
}
