package config

// Specification of requested output mode.
// ENUM(css, json)
type OutputMode int
