package indicator

import "math"

// window is a fixed-capacity ring buffer over float64 samples. Pushing
// past capacity overwrites the oldest sample.
type window struct {
	buf   []float64
	idx   int
	count int
}

func newWindow(capacity int) *window {
	return &window{buf: make([]float64, capacity)}
}

func (w *window) push(v float64) {
	w.buf[w.idx] = v
	w.idx = (w.idx + 1) % len(w.buf)
	w.count++
}

func (w *window) full() bool { return w.count >= len(w.buf) }

func (w *window) size() int {
	if w.count < len(w.buf) {
		return w.count
	}
	return len(w.buf)
}

func (w *window) mean() float64 {
	n := w.size()
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += w.buf[i]
	}
	return sum / float64(n)
}

// stdDev is the population standard deviation of the current contents.
func (w *window) stdDev() float64 {
	n := w.size()
	if n == 0 {
		return 0
	}
	m := w.mean()
	var variance float64
	for i := 0; i < n; i++ {
		d := w.buf[i] - m
		variance += d * d
	}
	return math.Sqrt(variance / float64(n))
}

func (w *window) max() float64 {
	n := w.size()
	if n == 0 {
		return 0
	}
	best := w.buf[0]
	for i := 1; i < n; i++ {
		if w.buf[i] > best {
			best = w.buf[i]
		}
	}
	return best
}

func (w *window) min() float64 {
	n := w.size()
	if n == 0 {
		return 0
	}
	best := w.buf[0]
	for i := 1; i < n; i++ {
		if w.buf[i] < best {
			best = w.buf[i]
		}
	}
	return best
}
