// Package log is a small wrapper around the standard library logger that
// gives every component of tweetmetrics its own named logger.
//
// Every line carries the component name as a `[name>]` marker so output can be
// grepped per component:
//
//	INFO [dataset>] loaded 11 rows from T01VEGAN_KEYWORDS_TBL_yyyy.xlsx
//
// Usage
//
//	l := log.ForService("dataset")
//	l.Infof("loaded %d rows", n)
//	l.Warnf("source %s not found", path)
//	l.Debugf("row %d: %v", i, rec) // printed only when debug is enabled
//
// Debug output can be enabled for every logger with SetGlobalDebug (wired to
// the --debug flag) or for a single component with EnableDebugFor.
//
// Tests redirect output with SetOutput and assert on the buffer contents.
//
// The package name collides with the standard library "log"; alias one of
// them when both are needed in the same file.
package log
