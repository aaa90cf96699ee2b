package telemetry

import (
	"encoding/json"
	"strconv"
	"time"
)

// DeviceID names one of the monitored wall controllers.
type DeviceID string

const (
	DeviceLeft  DeviceID = "LEFT"
	DeviceRight DeviceID = "RIGHT"
)

// KnownDevices is the closed set of devices, in display order.
var KnownDevices = []DeviceID{DeviceLeft, DeviceRight}

// Known reports whether d is one of KnownDevices.
func (d DeviceID) Known() bool {
	for _, k := range KnownDevices {
		if d == k {
			return true
		}
	}
	return false
}

// Heartbeat field names sent by the firmware status task.
const (
	FieldID       = "id"
	FieldIP       = "ip"
	FieldUptime   = "uptime_ms"
	FieldLink     = "link"
	FieldRxFrames = "rx_frames"
	FieldComplete = "complete"
	FieldApplied  = "applied"
	FieldDropped  = "dropped_frames"
)

// Record is one decoded heartbeat. Numbers are held as json.Number so
// counters print exactly as sent. Fields beyond the known set are kept
// untouched. A Record is never mutated after decoding.
type Record map[string]any

// ID returns the device identifier carried by the record, if it is a string.
func (r Record) ID() (DeviceID, bool) {
	s, ok := r[FieldID].(string)
	if !ok {
		return "", false
	}
	return DeviceID(s), true
}

// Text returns the display form of a field. The boolean is false when the
// field is missing or null.
func (r Record) Text(field string) (string, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return "", false
	}

	switch val := v.(type) {
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case bool:
		return strconv.FormatBool(val), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	default:
		b, err := jsonAPI.Marshal(val)
		if err != nil {
			return "", false
		}
		return string(b), true
	}
}

// Entry is the store's view of one device.
type Entry struct {
	// Record is the latest heartbeat, nil until Seen.
	Record Record
	// LastSeen is when Record was ingested, zero until Seen.
	LastSeen time.Time
	// Seen is false until the first heartbeat for the device arrives.
	Seen bool
}

// DeviceState pairs a device with its entry for ordered snapshots.
type DeviceState struct {
	ID    DeviceID
	Entry Entry
}
