package server

import (
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// NewSupervisor returns the root of the service tree. Supervisor events
// (restarts, backoff, stop timeouts) are logged through slog.
func NewSupervisor(name string, log *slog.Logger) *suture.Supervisor {
	handler := &sutureslog.Handler{Logger: log.With("component", "supervisor")}
	return suture.New(name, suture.Spec{
		EventHook:        handler.MustHook(),
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		Timeout:          10 * time.Second,
	})
}
