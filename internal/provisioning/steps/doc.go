// Package steps implements the provisioning step library for a 2-tier
// deployment: database tier (install, configure, restart, create schema,
// seed) and application tier (build, launch).
//
// Steps that are not naturally idempotent (database creation, seeding,
// process launch) carry existence guards, enabled by default through the
// target descriptor's guard flag. With guards disabled a re-run against an
// already provisioned target surfaces a duplicate-resource error instead of
// failing opaquely, preserving the single-run behavior of the shell scripts
// this tool replaces.
package steps
