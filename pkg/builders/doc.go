// Package builders provides fluent builders for the value types attached to
// traces and observations.
//
//   - [MetadataBuilder] for scalar-only metadata
//   - [TagsBuilder] for trimmed, de-duplicated tags
//   - [ModelParametersBuilder] for generation sampling settings
//   - [UsageBuilder] and [CostBuilder] for generation usage and cost details
//
// Builders that can reject input return a [BuildResult], which forces the
// caller to look at the error:
//
//	params, err := builders.NewModelParameters().
//	    Temperature(0.7).
//	    MaxTokens(256).
//	    Stop("\n\n").
//	    Build().
//	    Unwrap()
//
//	gen := span.Generation("answer", "gpt-4o", langfuse.WithModelParameters(params))
package builders
