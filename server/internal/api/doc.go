// Package api implements the ceimd REST surface.
//
// All endpoints live under /api/v1 and return JSON:
//
//	GET /api/v1/health        overall pipeline health and pair counts
//	GET /api/v1/results       all live impact results
//	GET /api/v1/results/{key} one result by node:contaminant key
//	GET /api/v1/report        the annual karma report built from live results
//	GET /api/v1/history       persisted results, filterable by node and time
//	GET /api/v1/alerts        firing and recently resolved alerts
package api
