// Package abci provides shared handling for errors raised while a host
// delivers messages to module keepers.
package abci

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
)

// ErrorSeverity classifies how much operator attention a delivery error needs.
type ErrorSeverity int

const (
	// SeverityLow covers ordinary rejections raised through registered module errors.
	SeverityLow ErrorSeverity = iota

	// SeverityHigh covers errors no module registered, such as store decode failures.
	SeverityHigh

	// SeverityCritical covers handler panics.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// SeverityOf reports the severity of a delivery error.
func SeverityOf(err error) ErrorSeverity {
	codespace, _, _ := errorsmod.ABCIInfo(err, false)
	if codespace == errorsmod.UndefinedCodespace {
		return SeverityHigh
	}
	return SeverityLow
}

// ErrPanic is returned in place of a recovered handler panic.
var ErrPanic = errorsmod.Register("delivery", 2, "panic while delivering message")

// DeliveryErrorHandler logs delivery failures at a level matching their severity.
type DeliveryErrorHandler struct {
	moduleName string
	logger     log.Logger
}

// NewDeliveryErrorHandler creates an error handler for the given module.
func NewDeliveryErrorHandler(logger log.Logger, moduleName string) *DeliveryErrorHandler {
	return &DeliveryErrorHandler{
		moduleName: moduleName,
		logger:     logger,
	}
}

// HandleError logs err. Rejections are expected traffic and stay at debug level.
func (h *DeliveryErrorHandler) HandleError(operation string, height int64, err error) ErrorSeverity {
	if err == nil {
		return SeverityLow
	}

	severity := SeverityOf(err)
	if errorsmod.IsOf(err, ErrPanic) {
		severity = SeverityCritical
	}

	kv := []any{
		"module", h.moduleName,
		"operation", operation,
		"severity", severity.String(),
		"height", height,
		"error", err.Error(),
	}
	switch severity {
	case SeverityCritical:
		h.logger.Error("CRITICAL delivery error", kv...)
	case SeverityHigh:
		h.logger.Error("delivery error", kv...)
	default:
		h.logger.Debug("message rejected", kv...)
	}
	return severity
}

// Deliver runs fn and converts a panic into ErrPanic. Every failure is
// passed through HandleError before it is returned.
func (h *DeliveryErrorHandler) Deliver(operation string, height int64, fn func() (any, error)) (res any, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = ErrPanic.Wrapf("%s: %v", operation, r)
			h.HandleError(operation, height, err)
		}
	}()

	res, err = fn()
	if err != nil {
		h.HandleError(operation, height, err)
		return nil, err
	}
	return res, nil
}
