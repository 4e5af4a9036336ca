package duckdb

import "github.com/tinytelemetry/tudu/internal/model"

// Type aliases re-export model types so duckdb.Store method
// signatures read naturally at call sites.
type (
	Todo  = model.Todo
	Stats = model.Stats
)
