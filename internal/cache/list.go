package cache

// listNode is a node in a doubly linked List.
type listNode[K comparable] struct {
	key  K
	prev *listNode[K]
	next *listNode[K]
}

// List is a keyed doubly linked list. Each key appears at most once;
// inserting a key that is already present moves it.
//
// List is not thread-safe; callers must handle synchronization.
type List[K comparable] struct {
	head  *listNode[K]
	tail  *listNode[K]
	index map[K]*listNode[K]
}

// NewList creates an empty list.
func NewList[K comparable]() *List[K] {
	return &List[K]{index: make(map[K]*listNode[K])}
}

// Len returns the number of keys in the list.
func (l *List[K]) Len() int {
	return len(l.index)
}

// PushFront places key at the front.
func (l *List[K]) PushFront(key K) {
	node := l.detach(key)
	node.next = l.head
	if l.head != nil {
		l.head.prev = node
	}
	l.head = node
	if l.tail == nil {
		l.tail = node
	}
}

// InsertSorted places key before the first element e for which
// less(key, e) is true, or at the back if there is none. Elements that
// compare equal to key stay ahead of it.
func (l *List[K]) InsertSorted(key K, less func(a, b K) bool) {
	node := l.detach(key)

	mark := l.head
	for mark != nil && !less(key, mark.key) {
		mark = mark.next
	}
	if mark == nil {
		node.prev = l.tail
		if l.tail != nil {
			l.tail.next = node
		}
		l.tail = node
		if l.head == nil {
			l.head = node
		}
		return
	}

	node.next = mark
	node.prev = mark.prev
	if mark.prev != nil {
		mark.prev.next = node
	} else {
		l.head = node
	}
	mark.prev = node
}

// Remove removes key. Returns false if it was not present.
func (l *List[K]) Remove(key K) bool {
	node, ok := l.index[key]
	if !ok {
		return false
	}
	l.unlink(node)
	delete(l.index, key)
	return true
}

// PopFront removes and returns the first key.
func (l *List[K]) PopFront() (K, bool) {
	if l.head == nil {
		var zero K
		return zero, false
	}
	node := l.head
	l.unlink(node)
	delete(l.index, node.key)
	return node.key, true
}

// PopBack removes and returns the last key.
func (l *List[K]) PopBack() (K, bool) {
	if l.tail == nil {
		var zero K
		return zero, false
	}
	node := l.tail
	l.unlink(node)
	delete(l.index, node.key)
	return node.key, true
}

// Keys returns the keys from front to back.
func (l *List[K]) Keys() []K {
	keys := make([]K, 0, len(l.index))
	for n := l.head; n != nil; n = n.next {
		keys = append(keys, n.key)
	}
	return keys
}

// Clear removes all keys.
func (l *List[K]) Clear() {
	l.head = nil
	l.tail = nil
	clear(l.index)
}

// detach returns the node for key, unlinked from the list. A new node is
// created and indexed if the key is not present.
func (l *List[K]) detach(key K) *listNode[K] {
	if node, ok := l.index[key]; ok {
		l.unlink(node)
		return node
	}
	node := &listNode[K]{key: key}
	l.index[key] = node
	return node
}

// unlink removes a node from the chain and clears its pointers.
func (l *List[K]) unlink(node *listNode[K]) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}

	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}

	node.prev = nil
	node.next = nil
}
