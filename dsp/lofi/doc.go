// Package lofi runs the "really cheap" degradation chain: a fixed order of
// tape wobble, distortion, digital reduction, magnetic coloration, ambience
// noise and a small room, all steered by one macro control.
//
// A Chain owns every module. The host calls Prepare once per stream
// configuration, then Process per block with a parameter snapshot:
//
//	c, _ := lofi.NewChain()
//	_ = c.Prepare(48000, 512, 2)
//	c.Process(buf, host.Transport{}, store)
//
// Process never allocates, locks or blocks. Parameters outside their range
// are clamped, buffers that do not fit the prepared configuration pass
// through unchanged, and every sample written back is finite and within
// ±2.
package lofi
