package dbg

/*
Package-wide constants, enums and small helpers:
  - default values (environment variable, buffer sizes, sentinels)
  - sink lifecycle states
  - normalization and panic description helpers
*/

const (
	// Default values for short init forms
	DEFAULT_ENV      = "DEBUG" // environment variable holding the enablement pattern
	DEFAULT_MSG_BUFF = 32      // default buffer size of the QueueSink channel
	DEFAULT_OUT_BUFF = 256     // initial buffer size for formatted output text
)

const (
	// Text substituted for values the formatter cannot render.
	CIRCULAR_TEXT = "[Circular]"
	NAN_TEXT      = "NaN"
	NULL_TEXT     = "null"
)

const (
	// QueueSink lifecycle states.
	_STATE_UNKNOWN sinkState = iota
	_STATE_ACTIVE
	_STATE_STOPPING
	_STATE_STOPPED
	_STATE_MAX_for_checks_only
)

const (
	// Error messages used across sink operations (used for testing).
	_ERROR_MESSAGE_SINK_STARTED  = "sink is already started"
	_ERROR_MESSAGE_SINK_STOPPING = "sink is stopping, wait for it before restarting"
	_ERROR_MESSAGE_SINK_INACTIVE = "sink is not active"
	_ERROR_MESSAGE_CHANNEL_NIL   = "sink channel is nil"
	_ERROR_UNKNOWN_PANIC_TEXT    = "[no panic description]"
)

// Generic byte normalization helper.
func norm_byte[T ~byte](val, overlimit, def T) T {
	if val < overlimit {
		return val
	}
	return def
}

// Ensures a provided sinkState is within the valid range
func normState(state sinkState) sinkState {
	return norm_byte(state, _STATE_MAX_for_checks_only, _STATE_UNKNOWN)
}

// Converts a panic value into a compact readable string (used when
// translating panics into errors or fallback messages)
func panicDesc(panic any) (errtext string) {
	switch v := panic.(type) {
	case string:
		errtext = ": `" + v + "`"
	case error:
		errtext = ": (error) `" + v.Error() + "`"
	default:
		errtext = " " + _ERROR_UNKNOWN_PANIC_TEXT
	}
	return errtext
}
