package entropy

import "math"

// Picker draws one item at random with probability proportional to its weight.
type Picker[T any] struct {
	items   []T
	weights []float64
	total   float64
}

// Add registers an item. Non-positive and non-finite weights are ignored.
func (p *Picker[T]) Add(item T, weight float64) {
	if weight <= 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return
	}
	p.items = append(p.items, item)
	p.weights = append(p.weights, weight)
	p.total += weight
}

// Len is the number of pickable items.
func (p *Picker[T]) Len() int { return len(p.items) }

// Pick draws an item. It returns false when the picker is empty.
func (p *Picker[T]) Pick(src Source) (T, bool) {
	var zero T
	if len(p.items) == 0 {
		return zero, false
	}
	roll := src.Float64() * p.total
	for i, w := range p.weights {
		if roll < w {
			return p.items[i], true
		}
		roll -= w
	}
	return p.items[len(p.items)-1], true
}
