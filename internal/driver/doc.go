// Package driver runs the meta-prompt orchestration loop: poll a remote
// run until it completes or demands a tool output, service the first
// pending tool call through the registry, submit the result, repeat.
//
// Known stall, kept on purpose: when the serviced tool produces no output
// (failed or empty expert reply), nothing is submitted and the loop
// re-polls a run that is still blocked in requires_action. The remote run
// stays pending until it expires or the configured poll timeout fires.
package driver
