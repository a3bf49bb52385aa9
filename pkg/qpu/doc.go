// Package qpu loads qpudatashard CSV inputs: per-node contaminant time
// series and the Arizona station-metadata shard.
//
// Failure policy: an unopenable file (or a missing header where one is
// required) aborts the load; a row of the wrong shape is skipped; a numeric
// field that fails to parse in a row the caller actually consumes is fatal
// for that load call, since consumed rows are deserialized eagerly.
package qpu
