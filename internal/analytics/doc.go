// Package analytics computes descriptive statistics over the cleaned master
// table and renders them as a text report and interactive HTML charts. It is
// a pure consumer of the cleaned dataset: it never reads the raw tables and
// recomputes risk fields on demand instead of persisting them.
package analytics
