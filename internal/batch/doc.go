// Package batch drives a full classification run over a dataset.
//
// A run takes an exclusive lock on the results directory, assigns a run id,
// analyzes every discovered test case on a bounded worker pool, writes a
// report folder for cases worth reviewing and records every case in the
// results store. A case that cannot be loaded is recorded with an error
// status and never stops the run; only store failures and cancellation do.
package batch
