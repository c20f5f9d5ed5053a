// Package types provides the value types shared by the Langfuse SDK:
// the wire time format, validated metadata, tags and model parameters,
// observation enums, scores and prompt templates.
//
// Users can import this package directly to build values without importing
// the full SDK.
package types
