package bluetooth

// RSSIRing is a fixed-size circular buffer of RSSI readings.
type RSSIRing struct {
	buf   []float64
	next  int
	count int
}

// NewRSSIRing creates a ring holding up to capacity readings.
func NewRSSIRing(capacity int) *RSSIRing {
	if capacity < 1 {
		capacity = 1
	}
	return &RSSIRing{buf: make([]float64, capacity)}
}

// Push stores a reading, overwriting the oldest one when full.
func (r *RSSIRing) Push(val float64) {
	r.buf[r.next] = val
	r.next = (r.next + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// Values returns the stored readings, oldest first.
func (r *RSSIRing) Values() []float64 {
	out := make([]float64, 0, r.count)
	start := (r.next - r.count + len(r.buf)) % len(r.buf)
	for i := 0; i < r.count; i++ {
		out = append(out, r.buf[(start+i)%len(r.buf)])
	}
	return out
}

// Last returns the newest reading.
func (r *RSSIRing) Last() (float64, bool) {
	if r.count == 0 {
		return 0, false
	}
	return r.buf[(r.next-1+len(r.buf))%len(r.buf)], true
}

// Len returns the number of stored readings.
func (r *RSSIRing) Len() int {
	return r.count
}
