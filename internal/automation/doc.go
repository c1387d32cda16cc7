// Package automation drives scripted batches of scene runs: YAML
// scenarios that run a list of configured scenes, and sweeps that vary
// one world parameter across a range.
package automation
