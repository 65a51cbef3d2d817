// Package config defines the target descriptor for a deployment run.
//
// A run is parameterized entirely by an immutable Config value loaded from a
// YAML file (provflow.yaml by default) with CLI flag overrides applied on
// top. Steps read the descriptor; nothing writes to it after load. Timeout
// tuning happens separately through environment variables (see LoadTimeouts).
package config
