// Package design computes biquad coefficients for the filters used by the
// lo-fi modules: RBJ cookbook lowpass, highpass, peaking and shelving
// sections.
//
// Designers return the zero [biquad.Coefficients] when the frequency is not
// strictly between 0 and Nyquist. Callers that sweep frequencies from user
// controls should pass them through [ClampFreq] first.
package design
