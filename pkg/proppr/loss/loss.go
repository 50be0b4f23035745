package loss

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Kind names one additive component of the training loss.
type Kind int

const (
	Regularization Kind = iota
	Log
	L2
)

func (k Kind) String() string {
	switch k {
	case Regularization:
		return "regularization"
	case Log:
		return "log"
	case L2:
		return "l2"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Data accumulates loss per component. Absent components read as 0.
// A Data is owned by one goroutine.
type Data struct {
	loss map[Kind]float64
}

// New returns an empty accumulator.
func New() *Data {
	return &Data{loss: make(map[Kind]float64)}
}

// Add accumulates v into component k.
func (d *Data) Add(k Kind, v float64) {
	if d.loss == nil {
		d.loss = make(map[Kind]float64)
	}
	d.loss[k] += v
}

// Get returns component k, or 0 when absent.
func (d *Data) Get(k Kind) float64 {
	return d.loss[k]
}

// Has reports whether component k is present.
func (d *Data) Has(k Kind) bool {
	_, ok := d.loss[k]
	return ok
}

// Len is the number of components present.
func (d *Data) Len() int {
	return len(d.loss)
}

// Clear resets to the empty bag.
func (d *Data) Clear() {
	clear(d.loss)
}

// Total sums every component present.
func (d *Data) Total() float64 {
	total := 0.0
	for _, v := range d.loss {
		total += v
	}
	return total
}

// Diff returns a new Data holding d[x] - that[x] for every component x
// present in either accumulator.
func (d *Data) Diff(that *Data) *Data {
	diff := New()
	for k, v := range d.loss {
		diff.loss[k] = v - that.Get(k)
	}
	for k, v := range that.loss {
		if _, ok := d.loss[k]; !ok {
			diff.loss[k] = -v
		}
	}
	return diff
}

// Copy returns an independent snapshot.
func (d *Data) Copy() *Data {
	cp := New()
	for k, v := range d.loss {
		cp.loss[k] = v
	}
	return cp
}

func (d *Data) String() string {
	kinds := make([]Kind, 0, len(d.loss))
	for k := range d.loss {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	parts := make([]string, 0, len(kinds)+1)
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%s=%.6g", k, d.loss[k]))
	}
	parts = append(parts, fmt.Sprintf("total=%.6g", d.Total()))
	return strings.Join(parts, " ")
}

// Example labels the solutions of one query.
type Example struct {
	Query     string   `yaml:"query"`
	Positives []string `yaml:"pos"`
	Negatives []string `yaml:"neg"`
}

// probability bounds keep log loss finite for missing or certain answers
const (
	minProb = 1e-10
	maxProb = 1 - 1e-10
)

// Evaluate adds the log loss of labelled solutions to d:
// -log p for each positive and -log(1-p) for each negative.
// A solution missing from the map counts as probability 0.
func (d *Data) Evaluate(solutions map[string]float64, ex Example) {
	for _, pos := range ex.Positives {
		d.Add(Log, -math.Log(clamp(solutions[pos])))
	}
	for _, neg := range ex.Negatives {
		d.Add(Log, -math.Log(1-clamp(solutions[neg])))
	}
}

// Regularize adds the L2 penalty mu * sum(theta^2) over a parameter table.
func (d *Data) Regularize(params map[string]float64, mu float64) {
	sum := 0.0
	for _, theta := range params {
		sum += theta * theta
	}
	d.Add(Regularization, mu*sum)
}

func clamp(p float64) float64 {
	return math.Min(maxProb, math.Max(minProb, p))
}
