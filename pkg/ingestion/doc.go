// Package ingestion defines the wire types of the Langfuse batch ingestion
// endpoint and the pre-order flattening used to turn observation trees into
// a batch.
//
// A batch is a list of envelopes. Each envelope carries the entity's ID, a
// timestamp, an event type such as "span-create" and the entity's full body:
//
//	{"batch": [{"id": "...", "timestamp": "...", "type": "trace-create", "body": {...}}]}
//
// The endpoint answers 2xx when everything was accepted, or 207 with an
// errors list naming the rejected envelopes. Result models both.
package ingestion
