// Package resample provides integer-factor oversampling built from cascaded
// polyphase half-band FIR stages.
//
// An [Oversampler] lifts one channel to 2x or 4x the host rate, hands the
// caller a scratch slice to process at the high rate, and decimates back.
// Each stage is a Kaiser-windowed sinc half-band filter; every other tap is
// zero, so each polyphase branch only touches the non-zero taps.
//
// Default stage layout for 4x:
//
//	stage   rate   taps   kaiser beta
//	1       2x     31     8
//	2       4x     15     6
package resample
