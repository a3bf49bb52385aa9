// Package cpvm links physical-virtual water asset metadata into bound node
// configurations and evaluates single-window eco-impact for a proposed
// outflow concentration.
//
// Unlike the batch series loader, the shard parser here is strict: a data
// row with fewer than twelve fields fails the whole load, because every row
// becomes a bound configuration.
package cpvm
