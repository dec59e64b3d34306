package cache

// node is an intrusive doubly linked list element owned by the eviction queue
// and referenced from the index. The index holds the node only to find its
// queue position; the node's val is the cache's reference to the value.
type node[K comparable, V any] struct {
	key K
	val *V

	// Intrusive queue links: head is the oldest insertion, tail the newest.
	prev *node[K, V]
	next *node[K, V]

	// Cost charged against the budget while the node is resident.
	cost int64
}
