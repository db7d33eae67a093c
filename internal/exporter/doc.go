// Package exporter writes pipeline snapshots to durable storage. CSV writes
// are atomic (write to a temp file, then rename) so a consumer reading the
// cleaned table concurrently never observes a partial file. An XLSX export
// of the cleaned master table serves spreadsheet consumers.
package exporter
