// Package operations runs the attendance conversion pipeline: a fixed
// sequence of stages that turns a merged punch table into the sorted
// daily attendance result. Each run carries an explicit state machine
// so callers can observe exactly how far a run progressed and why it
// stopped.
package operations
