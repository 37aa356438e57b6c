package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// CopyInto copies src into dst and returns the number of copied elements.
func CopyInto(dst, src []float64) int {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	copy(dst[:n], src[:n])
	return n
}

// NewMultiBuffer allocates channels slices of frames samples backed by a
// single contiguous array.
func NewMultiBuffer(channels, frames int) [][]float64 {
	if channels <= 0 || frames < 0 {
		return nil
	}
	backing := make([]float64, channels*frames)
	out := make([][]float64, channels)
	for ch := range out {
		out[ch] = backing[ch*frames : (ch+1)*frames : (ch+1)*frames]
	}
	return out
}

// Frames returns the shortest channel length in buf, or 0 for an empty buffer.
func Frames(buf [][]float64) int {
	if len(buf) == 0 {
		return 0
	}
	n := len(buf[0])
	for _, ch := range buf[1:] {
		if len(ch) < n {
			n = len(ch)
		}
	}
	return n
}

// CopyChannels copies the first frames samples of every channel of src into
// dst. Channels missing from either side are skipped.
func CopyChannels(dst, src [][]float64, frames int) {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	for ch := 0; ch < n; ch++ {
		copy(dst[ch][:frames], src[ch][:frames])
	}
}

// Interleave writes planar channels into an interleaved frame buffer.
// dst must hold at least frames*len(src) samples.
func Interleave(dst []float64, src [][]float64, frames int) {
	nch := len(src)
	for ch, s := range src {
		for i := 0; i < frames; i++ {
			dst[i*nch+ch] = s[i]
		}
	}
}

// Deinterleave splits an interleaved frame buffer into planar channels.
func Deinterleave(dst [][]float64, src []float64, frames int) {
	nch := len(dst)
	for ch, d := range dst {
		for i := 0; i < frames; i++ {
			d[i] = src[i*nch+ch]
		}
	}
}

// ForEachBlock calls fn with consecutive windows of at most block frames
// over every channel of buf. win is reused between calls.
func ForEachBlock(buf [][]float64, block int, fn func(win [][]float64)) {
	n := Frames(buf)
	if n == 0 || block <= 0 {
		return
	}
	win := make([][]float64, len(buf))
	for start := 0; start < n; start += block {
		end := min(start+block, n)
		for ch := range buf {
			win[ch] = buf[ch][start:end]
		}
		fn(win)
	}
}
