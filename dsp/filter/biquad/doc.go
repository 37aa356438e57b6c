// Package biquad provides the second-order IIR section used by every filter
// in the lo-fi chain.
//
// A [Section] runs Direct Form II Transposed on one channel. Coefficient
// design lives in dsp/filter/design; this package only evaluates and
// processes. Block processing is dispatched once per process to the fastest
// kernel registered for the running CPU.
package biquad
