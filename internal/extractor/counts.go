package extractor

import "sort"

type LabelCount struct {
	Label string
	Count int
}

// Counts accumulates label frequencies while remembering first-seen order,
// so that equal counts rank deterministically.
type Counts struct {
	counts map[string]int
	order  []string
}

func NewCounts() *Counts {
	return &Counts{counts: make(map[string]int)}
}

func (c *Counts) Add(label string) {
	if _, ok := c.counts[label]; !ok {
		c.order = append(c.order, label)
	}
	c.counts[label]++
}

func (c *Counts) Get(label string) int {
	return c.counts[label]
}

func (c *Counts) Len() int {
	return len(c.order)
}

func (c *Counts) Total() int {
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// TopN returns the n most frequent labels, count descending, ties broken by
// first-seen order. n <= 0 or n > Len returns all labels.
func (c *Counts) TopN(n int) []LabelCount {
	all := make([]LabelCount, 0, len(c.order))
	for _, label := range c.order {
		all = append(all, LabelCount{Label: label, Count: c.counts[label]})
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Count > all[j].Count
	})

	if n > 0 && n < len(all) {
		all = all[:n]
	}
	return all
}
