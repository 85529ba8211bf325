package usecase

import (
	"fmt"
	"testing"

	"github.com/kirillkom/portfolio-feed/internal/core/domain"
)

func projectsN(n int) []domain.ProjectRecord {
	out := make([]domain.ProjectRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.ProjectRecord{
			SourceID: fmt.Sprintf("windows/IMG_%04d.jpg", i),
			Title:    fmt.Sprintf("Windows Project %04d", i),
			Category: "Windows",
			Location: domain.DefaultGazetteer[i%len(domain.DefaultGazetteer)],
		})
	}
	return out
}

func TestSampleSizeBound(t *testing.T) {
	for _, n := range []int{0, 1, 5, 6, 7, 20} {
		got := Sample(projectsN(n), 6)
		want := n
		if want > 6 {
			want = 6
		}
		if len(got) != want {
			t.Fatalf("Sample(n=%d) returned %d records, want %d", n, len(got), want)
		}
	}
}

func TestSampleDoesNotMutateInput(t *testing.T) {
	input := projectsN(20)
	before := append([]domain.ProjectRecord(nil), input...)

	for i := 0; i < 10; i++ {
		_ = Sample(input, 6)
	}

	for i := range before {
		if input[i] != before[i] {
			t.Fatalf("input changed at %d: %+v -> %+v", i, before[i], input[i])
		}
	}
}

func TestSampleReturnsDistinctMembers(t *testing.T) {
	input := projectsN(20)
	members := make(map[string]bool, len(input))
	for _, p := range input {
		members[p.SourceID] = true
	}

	got := Sample(input, 6)
	seen := make(map[string]bool)
	for _, p := range got {
		if !members[p.SourceID] {
			t.Fatalf("sampled record %q is not in input", p.SourceID)
		}
		if seen[p.SourceID] {
			t.Fatalf("sampled record %q twice", p.SourceID)
		}
		seen[p.SourceID] = true
	}
}

func TestSampleEmptyAndNonPositiveSize(t *testing.T) {
	if got := Sample(nil, 6); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil sample, got %#v", got)
	}
	if got := Sample(projectsN(3), 0); len(got) != 0 {
		t.Fatalf("expected empty sample for size 0, got %d", len(got))
	}
	if got := Sample(projectsN(3), -1); len(got) != 0 {
		t.Fatalf("expected empty sample for negative size, got %d", len(got))
	}
}

func TestSamplerUsesInjectedShuffle(t *testing.T) {
	reverse := func(n int, swap func(i, j int)) {
		for i := 0; i < n/2; i++ {
			swap(i, n-1-i)
		}
	}
	input := projectsN(8)
	got := NewSampler(reverse).Sample(input, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	for i := 0; i < 3; i++ {
		if got[i] != input[len(input)-1-i] {
			t.Fatalf("expected reversed order at %d, got %+v", i, got[i])
		}
	}
}

func TestSampleAppendDoesNotLeakIntoCopy(t *testing.T) {
	input := projectsN(10)
	got := Sample(input, 4)
	got = append(got, domain.ProjectRecord{SourceID: "extra"})
	for _, p := range input {
		if p.SourceID == "extra" {
			t.Fatalf("append to sample leaked into input")
		}
	}
}
