// Package provisioning provides the step sequencer at the core of provflow.
//
// A run is an ordered list of Steps executed strictly sequentially against a
// single deployment target. Each step may name dependency checks that are
// polled with bounded retries before the step's action runs; a failed step
// halts the run and every later step is recorded as skipped. The concrete
// step library lives in the steps subpackage.
package provisioning
