package cache

// evictionQueue is the insertion-order list of resident nodes
// (head = oldest, tail = newest). It also carries the running totals,
// so the summed queue cost is by construction the cache's total cost.
type evictionQueue[K comparable, V any] struct {
	head *node[K, V] // oldest
	tail *node[K, V] // newest
	len  int         // number of linked nodes
	cost int64       // sum of linked node costs
}

// pushBack appends n at the tail in O(1).
func (q *evictionQueue[K, V]) pushBack(n *node[K, V]) {
	n.next = nil
	n.prev = q.tail
	if q.tail != nil {
		q.tail.next = n
	}
	q.tail = n
	if q.head == nil {
		q.head = n
	}
	q.len++
	q.cost += n.cost
}

// remove unlinks n and updates the totals in O(1).
func (q *evictionQueue[K, V]) remove(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if q.head == n {
		q.head = n.next
	}
	if q.tail == n {
		q.tail = n.prev
	}
	n.prev, n.next = nil, nil
	q.len--
	q.cost -= n.cost
}

// front returns the oldest node (or nil if empty).
func (q *evictionQueue[K, V]) front() *node[K, V] { return q.head }

// reset drops all links at once.
func (q *evictionQueue[K, V]) reset() {
	*q = evictionQueue[K, V]{}
}

// keys returns the linked keys oldest-first.
func (q *evictionQueue[K, V]) keys() []K {
	out := make([]K, 0, q.len)
	for n := q.head; n != nil; n = n.next {
		out = append(out, n.key)
	}
	return out
}
