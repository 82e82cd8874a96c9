// Package dataprocessing implements the punch-parsing and daily-aggregation
// engine that converts raw time-clock punch rows into normalized attendance
// records.
//
// # Architecture
//
// The package is organized around the stages of one conversion:
//
//  1. ResolveColumns: maps free-text CSV headers onto the four canonical
//     fields (name, employee id, datetime, punch type)
//  2. ParseDateTime: multi-format timestamp normalization with device-code
//     stripping
//  3. BreakEstimator: infers the lunch/rest window from punch timing
//  4. RoundCheckIn / ComputeHours: rounding policy and hour arithmetic
//  5. Aggregator: per-employee-per-day grouping producing DailyRecords
//  6. Summarizer: per-employee and per-date statistics over the result
//
// # Data Flow
//
//	Headers+Rows → ColumnMapping → RawPunch → NormalizedPunch → DailyRecord
//
// Data flows strictly downward; no component calls back upward.
//
// # Error Handling
//
// Only column resolution fails a whole run (MissingColumnError). Timestamp
// parse failures drop the affected row and date-extraction failures drop the
// affected punch from grouping; both are absorbed silently, with their
// aggregate effect visible as fewer output rows.
//
// # Determinism
//
// Given identical input rows and employee configuration the output is
// byte-for-byte identical: scanning is first-match-wins in file order, time
// ties are broken by original row position through stable sorts, and no map
// iteration order leaks into results.
package dataprocessing
