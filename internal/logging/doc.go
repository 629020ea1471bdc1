// Package logging configures the zerolog logger used across pxpantheon.
//
// Loggers travel in the context: the CLI builds one per invocation, stamps it with a
// ULID trace id and stores it with logger.WithContext. Everything below the CLI calls
// FromContext(ctx) and logs with .Ctx(ctx) so the trace id is attached by a hook.
package logging
