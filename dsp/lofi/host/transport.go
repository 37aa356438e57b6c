package host

// Transport is the host play-head. The current modules do not read it.
type Transport struct {
	Playing  bool
	HasTempo bool
	BPM      float64
	Position int64
}
