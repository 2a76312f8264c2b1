package registry

import (
	"log/slog"
)

// Ensure implementations satisfy the interface.
var (
	_ ViolationHandler = (*PanicViolationHandler)(nil)
	_ ViolationHandler = (*LogViolationHandler)(nil)
	_ ViolationHandler = (*NopViolationHandler)(nil)
)

// PanicViolationHandler panics with the violation. It is the default.
type PanicViolationHandler struct{}

func (h *PanicViolationHandler) OnViolation(err *InvariantViolationError) {
	panic(err)
}

// LogViolationHandler logs violations and lets the query report absence.
type LogViolationHandler struct {
	Logger *slog.Logger
}

func (h *LogViolationHandler) OnViolation(err *InvariantViolationError) {
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Error("traitcast: registered downcast failed",
		"concrete", err.Key.Concrete.String(),
		"capability", err.Key.Capability.String(),
		"site", err.Site,
	)
}

// NopViolationHandler does nothing.
type NopViolationHandler struct{}

func (h *NopViolationHandler) OnViolation(err *InvariantViolationError) {}
