package bitvector

import "testing"

// fixtureVector builds a small BitVector with runs at positions (1,1),
// (9,2), (19,1), universe size 20 -- i.e. bits set at 1, 9, 10, 19.
func fixtureVector() *BitVector {
	b := NewBuilder()
	b.AddRun(1, 1)
	b.AddRun(9, 2)
	b.AddRun(19, 1)
	return b.Finish(20)
}

func TestRankFixture(t *testing.T) {
	v := fixtureVector()
	cases := []struct {
		i    uint64
		want uint64
	}{
		{0, 0},
		{1, 1},
		{8, 1},
		{9, 2},
		{10, 3},
		{19, 4},
		{100, 4},
	}
	for _, c := range cases {
		if got := v.Rank(c.i, true); got != c.want {
			t.Errorf("Rank(%d, true) = %d, want %d", c.i, got, c.want)
		}
	}
}

func TestSelectFixture(t *testing.T) {
	v := fixtureVector()
	cases := []struct {
		k    int64
		want uint64
	}{
		{0, 1},
		{1, 9},
		{2, 10},
		{3, 19},
		{500, 20},
	}
	for _, c := range cases {
		got, err := v.Select(c.k)
		if err != nil {
			t.Fatalf("Select(%d) returned error %v", c.k, err)
		}
		if got != c.want {
			t.Errorf("Select(%d) = %d, want %d", c.k, got, c.want)
		}
	}
}

func TestSelectNegativeIsOutOfRange(t *testing.T) {
	v := fixtureVector()
	if _, err := v.Select(-1); err == nil {
		t.Error("Select(-1) should return OutOfRange")
	}
}

func TestIsSet(t *testing.T) {
	v := fixtureVector()
	set := map[uint64]bool{1: true, 9: true, 10: true, 19: true}
	for i := uint64(0); i < 20; i++ {
		if got, want := v.IsSet(i), set[i]; got != want {
			t.Errorf("IsSet(%d) = %v, want %v", i, got, want)
		}
	}
}

func TestValueAfter(t *testing.T) {
	v := fixtureVector()
	cases := []struct {
		i        uint64
		wantPos  uint64
		wantRank uint64
	}{
		{0, 1, 0},
		{1, 1, 0},
		{2, 9, 1},
		{9, 9, 1},
		{11, 19, 3},
		{20, 20, 4},
	}
	for _, c := range cases {
		pos, rank := v.ValueAfter(c.i)
		if pos != c.wantPos || rank != c.wantRank {
			t.Errorf("ValueAfter(%d) = (%d, %d), want (%d, %d)", c.i, pos, rank, c.wantPos, c.wantRank)
		}
	}
}

func TestCount(t *testing.T) {
	v := fixtureVector()
	if v.Count() != 4 {
		t.Errorf("Count() = %d, want 4", v.Count())
	}
}

func TestEmptyVector(t *testing.T) {
	v := NewBuilder().Finish(10)
	if v.Count() != 0 {
		t.Errorf("Count() = %d, want 0", v.Count())
	}
	if pos, rank := v.ValueAfter(0); pos != 10 || rank != 0 {
		t.Errorf("ValueAfter(0) on empty vector = (%d, %d), want (10, 0)", pos, rank)
	}
	got, err := v.Select(0)
	if err != nil || got != 10 {
		t.Errorf("Select(0) on empty vector = (%d, %v), want (10, nil)", got, err)
	}
}

func TestOverlappingRunsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected AddRun to panic on an out-of-order run")
		}
	}()
	b := NewBuilder()
	b.AddRun(5, 2)
	b.AddRun(3, 1)
}
