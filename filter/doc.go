// Package filter provides the RC filter entity.
//
// A Filter registers an "input" and an "output" port, copies the propagated
// parameters of its parent, and runs one of three models: a software model
// whose Main hook is meant to be supplied by the designer, a behavioral model
// that filters the input in-process, and a spice model that delegates to an
// external analog simulator and additionally fills the "waveform" port with
// the AC response.
package filter
