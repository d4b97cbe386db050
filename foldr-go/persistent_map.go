package foldr_go

import (
	"math/bits"

	"github.com/segmentio/fasthash/fnv1a"
)

const (
	pmBits = 5
	pmMask = 1<<pmBits - 1
)

// / PersistentMap is an immutable hash array mapped trie keyed by strings.
// / Set returns a new map sharing every untouched node with the receiver,
// / which makes copying a map O(1).
type PersistentMap[V any] struct {
	root_ *pmNode[V]
	size_ int
}

type pmEntry[V any] struct {
	hash  uint64
	key   string
	value V
	child *pmNode[V]
}

// Below the last hash level a node is a plain collision list and bitmap is
// unused.
type pmNode[V any] struct {
	bitmap  uint32
	entries []pmEntry[V]
}

func (this PersistentMap[V]) Len() int { return this.size_ }

func (this PersistentMap[V]) Get(key string) (V, bool) {
	var zero V
	h := fnv1a.HashString64(key)
	n := this.root_
	for shift := uint(0); n != nil; shift += pmBits {
		if shift >= 64 {
			for _, e := range n.entries {
				if e.key == key {
					return e.value, true
				}
			}
			return zero, false
		}
		bit := uint32(1) << ((h >> shift) & pmMask)
		if n.bitmap&bit == 0 {
			return zero, false
		}
		e := &n.entries[bits.OnesCount32(n.bitmap&(bit-1))]
		if e.child != nil {
			n = e.child
			continue
		}
		if e.key == key {
			return e.value, true
		}
		return zero, false
	}
	return zero, false
}

func (this PersistentMap[V]) Set(key string, value V) PersistentMap[V] {
	e := pmEntry[V]{hash: fnv1a.HashString64(key), key: key, value: value}
	root, added := pmInsert(this.root_, 0, e)
	ret := PersistentMap[V]{root_: root, size_: this.size_}
	if added {
		ret.size_++
	}
	return ret
}

// / Range calls f for every entry, in no particular order, until f returns
// / false.
func (this PersistentMap[V]) Range(f func(key string, value V) bool) {
	pmRange(this.root_, f)
}

func pmRange[V any](n *pmNode[V], f func(string, V) bool) bool {
	if n == nil {
		return true
	}
	for _, e := range n.entries {
		if e.child != nil {
			if !pmRange(e.child, f) {
				return false
			}
		} else if !f(e.key, e.value) {
			return false
		}
	}
	return true
}

func pmInsert[V any](n *pmNode[V], shift uint, e pmEntry[V]) (*pmNode[V], bool) {
	if n == nil {
		n = &pmNode[V]{}
	}
	if shift >= 64 {
		entries := make([]pmEntry[V], len(n.entries), len(n.entries)+1)
		copy(entries, n.entries)
		for i := range entries {
			if entries[i].key == e.key {
				entries[i].value = e.value
				return &pmNode[V]{entries: entries}, false
			}
		}
		return &pmNode[V]{entries: append(entries, e)}, true
	}

	bit := uint32(1) << ((e.hash >> shift) & pmMask)
	idx := bits.OnesCount32(n.bitmap & (bit - 1))
	if n.bitmap&bit == 0 {
		entries := make([]pmEntry[V], 0, len(n.entries)+1)
		entries = append(entries, n.entries[:idx]...)
		entries = append(entries, e)
		entries = append(entries, n.entries[idx:]...)
		return &pmNode[V]{bitmap: n.bitmap | bit, entries: entries}, true
	}

	entries := make([]pmEntry[V], len(n.entries))
	copy(entries, n.entries)
	cur := entries[idx]
	added := false
	switch {
	case cur.child != nil:
		entries[idx].child, added = pmInsert(cur.child, shift+pmBits, e)
	case cur.key == e.key:
		entries[idx].value = e.value
	default:
		entries[idx] = pmEntry[V]{child: pmMerge(cur, e, shift+pmBits)}
		added = true
	}
	return &pmNode[V]{bitmap: n.bitmap, entries: entries}, added
}

func pmMerge[V any](a, b pmEntry[V], shift uint) *pmNode[V] {
	if shift >= 64 {
		return &pmNode[V]{entries: []pmEntry[V]{a, b}}
	}
	ia := (a.hash >> shift) & pmMask
	ib := (b.hash >> shift) & pmMask
	if ia == ib {
		return &pmNode[V]{
			bitmap:  uint32(1) << ia,
			entries: []pmEntry[V]{{child: pmMerge(a, b, shift+pmBits)}},
		}
	}
	if ia > ib {
		a, b = b, a
	}
	return &pmNode[V]{
		bitmap:  uint32(1)<<ia | uint32(1)<<ib,
		entries: []pmEntry[V]{a, b},
	}
}
