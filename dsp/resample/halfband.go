package resample

import "math"

// halfBand holds the non-zero polyphase taps of a (4k-1)-tap half-band
// lowpass. The centre tap is always 0.5 and is applied as a plain delay.
type halfBand struct {
	k    int
	taps []float64 // h[2j], j = 0..2k-1
}

func designHalfBand(k int, beta float64) halfBand {
	n := 4*k - 1
	centre := 2*k - 1
	taps := make([]float64, 2*k)

	sum := 0.0
	for j := range taps {
		i := 2 * j
		taps[j] = 0.5 * sinc(float64(i-centre)/2) * kaiserWindow(i, n, beta)
		sum += taps[j]
	}
	// Even taps together must contribute half of the unity DC gain.
	if sum != 0 {
		for j := range taps {
			taps[j] *= 0.5 / sum
		}
	}

	return halfBand{k: k, taps: taps}
}

// delay returns the group delay in samples at the stage's high rate.
func (h halfBand) delay() int {
	return 2*h.k - 1
}

// upStage doubles the rate of a stream.
type upStage struct {
	halfBand
	hist []float64
	pos  int
}

func newUpStage(h halfBand) upStage {
	return upStage{halfBand: h, hist: make([]float64, len(h.taps))}
}

// process writes 2*len(src) samples to dst.
func (s *upStage) process(dst, src []float64) {
	n := len(s.hist)
	for i, x := range src {
		s.pos++
		if s.pos == n {
			s.pos = 0
		}
		s.hist[s.pos] = x

		acc := 0.0
		p := s.pos
		for _, g := range s.taps {
			acc += g * s.hist[p]
			p--
			if p < 0 {
				p = n - 1
			}
		}

		mid := s.pos - (s.k - 1)
		if mid < 0 {
			mid += n
		}

		dst[2*i] = 2 * acc
		dst[2*i+1] = s.hist[mid]
	}
}

func (s *upStage) reset() {
	clear(s.hist)
	s.pos = 0
}

// downStage halves the rate of a stream.
type downStage struct {
	halfBand
	even    []float64
	odd     []float64
	evenPos int
	oddPos  int
}

func newDownStage(h halfBand) downStage {
	return downStage{
		halfBand: h,
		even:     make([]float64, len(h.taps)),
		odd:      make([]float64, h.k+1),
	}
}

// process reads 2*len(dst) samples from src.
func (s *downStage) process(dst, src []float64) {
	ne, no := len(s.even), len(s.odd)
	for i := range dst {
		s.evenPos++
		if s.evenPos == ne {
			s.evenPos = 0
		}
		s.even[s.evenPos] = src[2*i]

		acc := 0.0
		p := s.evenPos
		for _, g := range s.taps {
			acc += g * s.even[p]
			p--
			if p < 0 {
				p = ne - 1
			}
		}

		// odd[oddPos] holds the odd sample of frame i-1; k frames back from
		// frame i is therefore k-1 slots behind it.
		old := s.oddPos - (s.k - 1)
		if old < 0 {
			old += no
		}
		dst[i] = acc + 0.5*s.odd[old]

		s.oddPos++
		if s.oddPos == no {
			s.oddPos = 0
		}
		s.odd[s.oddPos] = src[2*i+1]
	}
}

func (s *downStage) reset() {
	clear(s.even)
	clear(s.odd)
	s.evenPos = 0
	s.oddPos = 0
}

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-12 {
		return 1
	}

	pix := math.Pi * x

	return math.Sin(pix) / pix
}

func kaiserWindow(i, n int, beta float64) float64 {
	if n <= 1 || beta == 0 {
		return 1
	}

	t := 2*float64(i)/float64(n-1) - 1
	a := math.Sqrt(math.Max(0, 1-t*t))

	return besselI0(beta*a) / besselI0(beta)
}

// besselI0 evaluates the zeroth-order modified Bessel function by its power
// series.
func besselI0(x float64) float64 {
	sum := 1.0
	term := 1.0

	x2 := (x * x) / 4
	for k := 1; k < 64; k++ {
		term *= x2 / float64(k*k)

		sum += term
		if term < 1e-16*sum {
			break
		}
	}

	return sum
}
