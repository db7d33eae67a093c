// Package dataprocessing implements the core of the student-records
// pipeline: loading the three raw tables, integrating them into one
// row-per-enrollment unified table, and cleaning that table (deduplication,
// cause-split imputation of missing values, range normalization and letter
// grade derivation).
//
// Integrate and Clean are deterministic functions over immutable inputs.
// They perform no I/O and hold no state between invocations; the stage
// runner owns reading inputs and writing snapshots.
package dataprocessing
