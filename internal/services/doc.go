// Package services implements the business logic layer between the HTTP
// handlers and the cleaned dataset on disk. Handlers stay thin: filtering,
// aggregation and risk classification all live here, and every read derives
// the risk fields fresh instead of trusting anything persisted.
package services
