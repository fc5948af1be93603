// Package routinetypes defines the value types shared across RoutineShell.
//
// RoutineShell keeps a small amount of owned state (the selection set and the
// conversation log) consistent across several derived views. The types in this
// package are the currency passed between those layers:
//
//   - Catalog Types (product_types.go): ProductRecord, ProductID, ResolvedProduct
//   - Conversation Types (message_types.go): Role, Message, OutboundPayload
//   - Error Types (errors.go): the error taxonomy surfaced by the core
//   - Theme Types (theme_types.go): YAML theme configuration for text rendering
//
// Nothing in this package holds mutable state; ownership lives in the
// selection, conversation and controller packages.
package routinetypes
