package telemetry

import (
	"errors"
	"fmt"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.Config{
	UseNumber:              true,
	EscapeHTML:             false,
	ValidateJsonRawMessage: true,
}.Froze()

// Decode failures. Callers drop the datagram on any of them.
var (
	ErrInvalidUTF8   = errors.New("payload is not valid UTF-8")
	ErrMalformed     = errors.New("payload is not a JSON object")
	ErrUnknownDevice = errors.New("unknown device id")
)

// Decode parses one heartbeat datagram. It never panics on bad input; every
// failure comes back as an error wrapping one of the sentinels above.
func Decode(payload []byte) (DeviceID, Record, error) {
	if !utf8.Valid(payload) {
		return "", nil, ErrInvalidUTF8
	}

	var rec Record
	if err := jsonAPI.Unmarshal(payload, &rec); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if rec == nil {
		// "null" decodes cleanly into a nil map
		return "", nil, ErrMalformed
	}

	id, ok := rec.ID()
	if !ok {
		return "", nil, fmt.Errorf("%w: missing or non-string %q field", ErrUnknownDevice, FieldID)
	}
	if !id.Known() {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownDevice, id)
	}
	return id, rec, nil
}
