// Package id generates identifiers for traces, observations, scores and
// ingestion envelopes.
//
// IDs are UUIDv7 values, so they sort by creation time. When the random
// source fails the generator either falls back to a timestamp and counter
// based ID (IDModeFallback, the default) or returns the error (IDModeStrict).
//
//	gen := id.NewIDGenerator(&id.IDGeneratorConfig{Mode: id.IDModeStrict})
//	traceID, err := gen.Generate()
//
//	if id.IsFallbackID(traceID) {
//	    log.Warn("ID was generated using fallback method")
//	}
package id
