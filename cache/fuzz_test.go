package cache

import (
	"slices"
	"testing"
)

// model is a deliberately naive reference: a slice in insertion order,
// scanned linearly, with the same evict-then-replace rules.
type model struct {
	maxCost int64
	entries []modelEntry
}

type modelEntry struct {
	key  uint8
	val  int
	cost int64
}

func (m *model) total() int64 {
	var t int64
	for _, e := range m.entries {
		t += e.cost
	}
	return t
}

func (m *model) free(limit int64) {
	for m.total() > limit {
		m.entries = m.entries[1:]
	}
}

func (m *model) put(k uint8, v int, cost int64) bool {
	if cost > m.maxCost {
		return false
	}
	m.free(m.maxCost - cost)
	m.remove(k)
	m.entries = append(m.entries, modelEntry{k, v, cost})
	return true
}

func (m *model) remove(k uint8) bool {
	i := slices.IndexFunc(m.entries, func(e modelEntry) bool { return e.key == k })
	if i < 0 {
		return false
	}
	m.entries = slices.Delete(m.entries, i, i+1)
	return true
}

func (m *model) keys() []uint8 {
	out := make([]uint8, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.key)
	}
	return out
}

// Fuzz arbitrary operation sequences against the reference model.
// Each op is 3 bytes: opcode, key, cost. After every op the cache must agree
// with the model on key order and total cost, and stay within budget.
func FuzzCache_OpsMatchModel(f *testing.F) {
	f.Add(uint8(10), []byte{0, 1, 1, 0, 2, 5, 0, 1, 3})
	f.Add(uint8(3), []byte{0, 1, 1, 0, 2, 1, 0, 3, 1, 0, 4, 1, 4, 0, 2})
	f.Add(uint8(1), []byte{0, 1, 1, 0, 1, 1, 1, 1, 0})
	f.Add(uint8(0), []byte{0, 1, 0, 0, 2, 1, 5, 0, 0})
	f.Add(uint8(42), []byte{4, 0, 1, 0, 9, 200, 2, 9, 0, 3, 9, 0})

	f.Fuzz(func(t *testing.T, maxCost uint8, ops []byte) {
		const limit = 3 * 512
		if len(ops) > limit {
			ops = ops[:limit]
		}

		c, err := New[uint8, int](Options[uint8, int]{MaxCost: int64(maxCost)})
		if err != nil {
			t.Fatal(err)
		}
		m := &model{maxCost: c.MaxCost()}

		for i := 0; i+2 < len(ops); i += 3 {
			op, k, cost := ops[i]%6, ops[i+1]%16, int64(ops[i+2]%32)
			switch op {
			case 0: // put
				_, ok := c.PutWithCost(k, &i, cost)
				if want := m.put(k, i, cost); ok != want {
					t.Fatalf("op %d: put(%d, cost=%d) ok=%v, model %v", i, k, cost, ok, want)
				}
			case 1: // make
				_, ok := c.MakeWithCost(k, cost)
				if want := m.put(k, 0, cost); ok != want {
					t.Fatalf("op %d: make(%d, cost=%d) ok=%v, model %v", i, k, cost, ok, want)
				}
			case 2: // take
				_, ok := c.Take(k)
				if want := m.remove(k); ok != want {
					t.Fatalf("op %d: take(%d) ok=%v, model %v", i, k, ok, want)
				}
			case 3: // remove
				if got, want := c.Remove(k), m.remove(k); got != want {
					t.Fatalf("op %d: remove(%d)=%v, model %v", i, k, got, want)
				}
			case 4: // resize
				if err := c.SetMaxCost(cost); err != nil {
					t.Fatal(err)
				}
				m.maxCost = cost
				m.free(cost)
			case 5: // get must not change anything
				before := c.Keys()
				c.Get(k)
				if !slices.Equal(before, c.Keys()) {
					t.Fatalf("op %d: get(%d) reordered keys", i, k)
				}
			}

			if got, want := c.Keys(), m.keys(); !slices.Equal(got, want) {
				t.Fatalf("op %d: keys %v, model %v", i, got, want)
			}
			if got, want := c.TotalCost(), m.total(); got != want {
				t.Fatalf("op %d: total cost %d, model %d", i, got, want)
			}
			if c.TotalCost() > c.MaxCost() {
				t.Fatalf("op %d: total cost %d over budget %d", i, c.TotalCost(), c.MaxCost())
			}
			if c.Len() != len(m.entries) {
				t.Fatalf("op %d: len %d, model %d", i, c.Len(), len(m.entries))
			}
		}
	})
}
