// Package harness executes end-to-end query scenarios: a plan file, a graph
// fixture, and arguments go in; result rows come out and are compared
// against expected rows or golden files in canonical JSON form.
package harness
