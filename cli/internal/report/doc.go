// Package report assembles per-(node, contaminant) karma report rows from
// the impact engine and renders them as CSV (the canonical shard format,
// byte-stable across runs) or XLSX.
package report
