// Package ceim defines the shared core types of the Contaminant Eco-Impact
// Model and the node impact engine that both the CLIs and the watch daemon
// drive.
//
// Compute is a pure single-pass accumulator over an ordered sample series.
// Everything stateful (shard loading, cataloguing, report rendering,
// serving) lives in the packages around it.
package ceim
