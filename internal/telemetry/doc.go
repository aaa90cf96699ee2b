// Package telemetry models the heartbeat datagrams sent by the LEFT and
// RIGHT wall controllers: decoding, the per-device latest-sample store, and
// staleness.
//
// A heartbeat is a UTF-8 JSON object such as
//
//	{"id":"LEFT","ip":"10.0.0.5","uptime_ms":1200,"link":true,
//	 "rx_frames":500,"complete":498,"applied":498,"dropped_frames":2}
//
// Only "id" is required. Anything else is stored as sent and rendered as a
// placeholder when missing.
package telemetry
