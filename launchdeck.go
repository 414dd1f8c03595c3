// Package launchdeck holds shared module metadata.
package launchdeck

// Version is the launchdeck release version.
const Version = "0.3.0"
