// Package job coordinates report generation runs.
//
// A Tracker serializes runs and publishes a Snapshot of the active
// one; a Runner wires the pipeline stages (fetch, summarize, render,
// persist) into a supervised worker. Exactly one run is active at a
// time, every run ends in a terminal state even when a stage panics,
// and the published progress never moves backwards within a run.
package job
