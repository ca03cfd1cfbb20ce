// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"sync"
	"testing"
)

func appendN(ring *Ring, n int) {
	for i := range n {
		ring.Append([]float64{float64(i + 1), 0, 0})
	}
}

func TestRingRecentOldestFirst(t *testing.T) {
	t.Parallel()
	ring := NewRing(10)
	appendN(ring, 5)

	got := ring.Recent(3)
	if len(got) != 3 {
		t.Fatalf("Recent(3): got %d samples, want 3", len(got))
	}
	for i, want := range []uint64{3, 4, 5} {
		if got[i].Seq != want {
			t.Errorf("Recent(3)[%d].Seq: got %d, want %d", i, got[i].Seq, want)
		}
		if got[i].Values[0] != float64(want) {
			t.Errorf("Recent(3)[%d].Values[0]: got %v, want %v", i, got[i].Values[0], want)
		}
	}
}

func TestRingNotPadded(t *testing.T) {
	t.Parallel()
	ring := NewRing(DefaultCapacity)
	appendN(ring, 10)

	got := ring.Recent(100)
	if len(got) != 10 {
		t.Errorf("Recent(100) with 10 samples: got %d, want 10", len(got))
	}
}

func TestRingRecentNonPositiveLimit(t *testing.T) {
	t.Parallel()
	ring := NewRing(4)
	appendN(ring, 2)

	for _, limit := range []int{0, -1} {
		got := ring.Recent(limit)
		if got == nil || len(got) != 0 {
			t.Errorf("Recent(%d): got %v, want empty non-nil slice", limit, got)
		}
	}
}

func TestRingEvictsOldest(t *testing.T) {
	t.Parallel()
	ring := NewRing(DefaultCapacity)
	appendN(ring, 1500)

	if ring.Len() != DefaultCapacity {
		t.Errorf("Len: got %d, want %d", ring.Len(), DefaultCapacity)
	}
	if ring.Total() != 1500 {
		t.Errorf("Total: got %d, want 1500", ring.Total())
	}
	if ring.Evicted() != 500 {
		t.Errorf("Evicted: got %d, want 500", ring.Evicted())
	}

	all := ring.Recent(DefaultCapacity + 1)
	if len(all) != DefaultCapacity {
		t.Fatalf("Recent: got %d samples, want %d", len(all), DefaultCapacity)
	}
	if all[0].Seq != 501 {
		t.Errorf("oldest retained Seq: got %d, want 501", all[0].Seq)
	}
	if all[len(all)-1].Seq != 1500 {
		t.Errorf("newest Seq: got %d, want 1500", all[len(all)-1].Seq)
	}
	for i := 1; i < len(all); i++ {
		if all[i].Seq != all[i-1].Seq+1 {
			t.Fatalf("Seq gap at %d: %d after %d", i, all[i].Seq, all[i-1].Seq)
		}
	}
}

func TestRingSince(t *testing.T) {
	t.Parallel()
	ring := NewRing(5)
	appendN(ring, 8) // retains 4..8

	tests := []struct {
		name    string
		seq     uint64
		limit   int
		wantSeq []uint64
	}{
		{"inside window", 6, 0, []uint64{7, 8}},
		{"older than window", 1, 0, []uint64{4, 5, 6, 7, 8}},
		{"limited keeps newest", 0, 2, []uint64{7, 8}},
		{"at newest", 8, 0, nil},
		{"beyond newest", 50, 0, nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got := ring.Since(test.seq, test.limit)
			if len(got) != len(test.wantSeq) {
				t.Fatalf("Since(%d, %d): got %d samples, want %d", test.seq, test.limit, len(got), len(test.wantSeq))
			}
			for i, want := range test.wantSeq {
				if got[i].Seq != want {
					t.Errorf("Since(%d, %d)[%d].Seq: got %d, want %d", test.seq, test.limit, i, got[i].Seq, want)
				}
			}
		})
	}
}

func TestRingReadersGetCopies(t *testing.T) {
	t.Parallel()
	ring := NewRing(4)
	input := []float64{1, 2, 3}
	ring.Append(input)
	input[0] = 99

	first := ring.Recent(1)
	if first[0].Values[0] != 1 {
		t.Fatalf("Append did not copy input: got %v", first[0].Values)
	}
	first[0].Values[1] = 99

	second := ring.Recent(1)
	if second[0].Values[1] != 2 {
		t.Errorf("Recent returned shared storage: got %v", second[0].Values)
	}
}

func TestRingDefaultCapacity(t *testing.T) {
	t.Parallel()
	if got := NewRing(0).Capacity(); got != DefaultCapacity {
		t.Errorf("NewRing(0).Capacity: got %d, want %d", got, DefaultCapacity)
	}
}

func TestRingConcurrentReaders(t *testing.T) {
	t.Parallel()
	ring := NewRing(64)

	var waitGroup sync.WaitGroup
	done := make(chan struct{})
	for range 4 {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				samples := ring.Recent(32)
				for i := 1; i < len(samples); i++ {
					if samples[i].Seq != samples[i-1].Seq+1 {
						t.Errorf("reader saw non-contiguous window: %d after %d", samples[i].Seq, samples[i-1].Seq)
						return
					}
				}
				for _, sample := range samples {
					if len(sample.Values) != 3 {
						t.Errorf("reader saw partial sample: %v", sample.Values)
						return
					}
				}
			}
		}()
	}

	appendN(ring, 10000)
	close(done)
	waitGroup.Wait()

	if ring.Total() != 10000 {
		t.Errorf("Total: got %d, want 10000", ring.Total())
	}
}
