// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"slices"
	"sync"
)

// DefaultCapacity is the number of samples retained. At the device's
// ~50 Hz debug rate this is about twenty seconds of speech.
const DefaultCapacity = 1000

// Sample is one telemetry reading. Seq is 1-based and assigned by the
// ring in arrival order.
type Sample struct {
	Seq    uint64    `json:"seq"`
	Values []float64 `json:"values"`
}

// Ring is a fixed-capacity circular buffer of samples. Append evicts
// the oldest sample once the ring is full.
//
// All methods are safe for concurrent use. Readers receive copies and
// never observe a sample that is still being written.
type Ring struct {
	mutex    sync.RWMutex
	samples  []Sample
	capacity int
	// next is the slot the next Append writes (0 to capacity-1).
	next int
	// total is the number of samples ever appended, which is also the
	// Seq of the newest one. The retained window is
	// (total - stored, total] where stored = min(total, capacity).
	total uint64
}

// NewRing creates a ring holding up to capacity samples. A capacity
// below 1 uses DefaultCapacity.
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Ring{
		samples:  make([]Sample, capacity),
		capacity: capacity,
	}
}

// Append stores a copy of values as the newest sample and returns its
// sequence number.
func (ring *Ring) Append(values []float64) uint64 {
	owned := slices.Clone(values)

	ring.mutex.Lock()
	defer ring.mutex.Unlock()

	ring.total++
	ring.samples[ring.next] = Sample{Seq: ring.total, Values: owned}
	ring.next = (ring.next + 1) % ring.capacity
	return ring.total
}

// Recent returns up to limit of the most recent samples, oldest first.
// The result is never padded: fewer retained samples means a shorter
// slice. A limit of zero or less returns an empty slice.
func (ring *Ring) Recent(limit int) []Sample {
	if limit <= 0 {
		return []Sample{}
	}

	ring.mutex.RLock()
	defer ring.mutex.RUnlock()

	count := min(ring.storedLocked(), limit)
	return ring.copyNewestLocked(count)
}

// Since returns samples with Seq greater than seq, oldest first, at
// most limit of them (the newest limit when there are more). If seq is
// older than the oldest retained sample everything retained is
// eligible; compare the first Seq against seq+1 to detect the gap. A
// limit of zero or less means no limit.
func (ring *Ring) Since(seq uint64, limit int) []Sample {
	ring.mutex.RLock()
	defer ring.mutex.RUnlock()

	if seq >= ring.total {
		return []Sample{}
	}
	count := min(ring.total-seq, uint64(ring.storedLocked()))
	if limit > 0 && count > uint64(limit) {
		count = uint64(limit)
	}
	return ring.copyNewestLocked(int(count))
}

// Len returns the number of samples currently retained.
func (ring *Ring) Len() int {
	ring.mutex.RLock()
	defer ring.mutex.RUnlock()
	return ring.storedLocked()
}

// Capacity returns the maximum number of retained samples.
func (ring *Ring) Capacity() int {
	return ring.capacity
}

// Total returns the number of samples ever appended, which is also the
// Seq of the newest sample (0 when empty).
func (ring *Ring) Total() uint64 {
	ring.mutex.RLock()
	defer ring.mutex.RUnlock()
	return ring.total
}

// Evicted returns how many samples have been overwritten.
func (ring *Ring) Evicted() uint64 {
	ring.mutex.RLock()
	defer ring.mutex.RUnlock()
	return ring.total - uint64(ring.storedLocked())
}

func (ring *Ring) storedLocked() int {
	if ring.total > uint64(ring.capacity) {
		return ring.capacity
	}
	return int(ring.total)
}

// copyNewestLocked deep-copies the newest count samples, oldest first.
// The caller holds at least the read lock and has bounded count by the
// stored length.
func (ring *Ring) copyNewestLocked(count int) []Sample {
	result := make([]Sample, count)
	position := (ring.next - count + ring.capacity) % ring.capacity
	for i := range count {
		sample := ring.samples[position]
		result[i] = Sample{Seq: sample.Seq, Values: slices.Clone(sample.Values)}
		position = (position + 1) % ring.capacity
	}
	return result
}
