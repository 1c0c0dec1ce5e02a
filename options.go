package hwcomposer

import "log/slog"

// Option configures a Device during Open.
//
// Example:
//
//	// Default: globally registered block-transfer engine, if any
//	dev, err := hwcomposer.Open(hwcomposer.DeviceID)
//
//	// Explicit engine (dependency injection)
//	dev, err := hwcomposer.Open(hwcomposer.DeviceID,
//	    hwcomposer.WithBlockTransfer(engine))
type Option func(*deviceOptions)

// deviceOptions holds optional configuration for Device creation.
type deviceOptions struct {
	engine    BlockTransfer
	engineSet bool
	validator HandleValidator
}

// defaultOptions returns the default device options.
func defaultOptions() deviceOptions {
	return deviceOptions{
		validator: validateHandle,
	}
}

// WithBlockTransfer sets the hardware block-transfer engine for the
// device, bypassing the global registration from RegisterBlockTransfer.
// Passing nil disables the fast path entirely; every blit runs the
// software copy loop.
//
// The caller retains ownership of the engine; Device.Close does not
// close it.
func WithBlockTransfer(e BlockTransfer) Option {
	return func(o *deviceOptions) {
		o.engine = e
		o.engineSet = true
	}
}

// WithHandleValidator replaces the default buffer-handle validator run
// during Prepare. Validators must either accept the handle or terminate
// abnormally; returning normally means the handle is intact.
func WithHandleValidator(v HandleValidator) Option {
	return func(o *deviceOptions) {
		if v != nil {
			o.validator = v
		}
	}
}

// WithLogger sets the package-wide diagnostics logger at open time.
// It is shorthand for calling SetLogger before Open.
func WithLogger(l *slog.Logger) Option {
	return func(*deviceOptions) {
		SetLogger(l)
	}
}
