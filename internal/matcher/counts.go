package matcher

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Counts maps each distinct keyword to its occurrence count. Iteration order is the
// order in which keywords were first added. The zero value is an empty Counts.
type Counts struct {
	keys   []string
	counts map[string]int
}

// NewCounts returns a Counts holding every distinct pattern (first occurrence wins) valued 0.
func NewCounts(patterns []string) *Counts {
	c := &Counts{
		keys:   make([]string, 0, len(patterns)),
		counts: make(map[string]int, len(patterns)),
	}
	for _, p := range patterns {
		c.add(p)
	}
	return c
}

func (c *Counts) add(key string) {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	if _, ok := c.counts[key]; ok {
		return
	}
	c.keys = append(c.keys, key)
	c.counts[key] = 0
}

// Set assigns n to key, appending key if it was not present.
func (c *Counts) Set(key string, n int) {
	c.add(key)
	c.counts[key] = n
}

// Get returns the count for key and whether key is present.
func (c *Counts) Get(key string) (int, bool) {
	n, ok := c.counts[key]
	return n, ok
}

// Keys returns the keywords in insertion order.
func (c *Counts) Keys() []string {
	return append([]string(nil), c.keys...)
}

// Len returns the number of distinct keywords.
func (c *Counts) Len() int {
	return len(c.keys)
}

// Each calls fn for every keyword in insertion order.
func (c *Counts) Each(fn func(key string, count int)) {
	for _, k := range c.keys {
		fn(k, c.counts[k])
	}
}

// Total returns the sum of all counts.
func (c *Counts) Total() int {
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// HasZero reports whether any keyword has a zero count.
func (c *Counts) HasZero() bool {
	for _, k := range c.keys {
		if c.counts[k] == 0 {
			return true
		}
	}
	return false
}

// Equal reports whether both hold the same keywords in the same order with the same counts.
func (c *Counts) Equal(other *Counts) bool {
	if c == nil || other == nil {
		return c == other
	}
	if len(c.keys) != len(other.keys) {
		return false
	}
	for i, k := range c.keys {
		if other.keys[i] != k || other.counts[k] != c.counts[k] {
			return false
		}
	}
	return true
}

// String renders the counts as {k: n, ...} in insertion order.
func (c *Counts) String() string {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range c.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q: %d", k, c.counts[k])
	}
	b.WriteByte('}')
	return b.String()
}

// MarshalJSON encodes the counts as a JSON object whose keys keep insertion order.
func (c *Counts) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range c.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		fmt.Fprintf(&b, "%d", c.counts[k])
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the key order of the document.
func (c *Counts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("counts: expected object, got %v", tok)
	}
	*c = Counts{counts: make(map[string]int)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("counts: expected string key, got %v", tok)
		}
		var n int
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("counts: value for %q: %w", key, err)
		}
		c.Set(key, n)
	}
	_, err = dec.Token()
	return err
}
