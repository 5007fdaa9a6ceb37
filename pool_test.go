package grove

import "testing"

func TestSpritePool_GetCreatesOnce(t *testing.T) {
	var p spritePool[TileCoord]
	s1, created := p.get(TileCoord{1, 2}, CategoryTerrain)
	if !created {
		t.Error("first get should create")
	}
	if s1.Alpha != 1 || s1.Color != ColorWhite || s1.Category() != CategoryTerrain {
		t.Errorf("new sprite not reset: %+v", s1)
	}
	s2, created := p.get(TileCoord{1, 2}, CategoryTerrain)
	if created || s2 != s1 {
		t.Error("second get should return the same sprite")
	}
	if p.len() != 1 {
		t.Errorf("len = %d, want 1", p.len())
	}
}

func TestSpritePool_PointersStableAcrossGrowth(t *testing.T) {
	var p spritePool[int]
	first, _ := p.get(0, CategoryNPC)
	first.X = 42
	for i := 1; i < poolBlockSize*3+7; i++ {
		p.get(i, CategoryNPC)
	}
	again, ok := p.lookup(0)
	if !ok || again != first || again.X != 42 {
		t.Error("sprite pointer changed after the pool grew")
	}
	if p.len() != poolBlockSize*3+7 {
		t.Errorf("len = %d", p.len())
	}
}

func TestSpritePool_HideStale(t *testing.T) {
	var p spritePool[int]
	for i := range 5 {
		s, _ := p.get(i, CategoryTerrain)
		s.Visible = true
		s.seen = 1
	}
	// Frame 2 only touches 0 and 3.
	for _, i := range []int{0, 3} {
		s, _ := p.lookup(i)
		s.seen = 2
	}
	if got := p.hideStale(2); got != 2 {
		t.Errorf("visible = %d, want 2", got)
	}
	for i := range 5 {
		s, _ := p.lookup(i)
		want := i == 0 || i == 3
		if s.Visible != want {
			t.Errorf("sprite %d visible = %v, want %v", i, s.Visible, want)
		}
	}
	// Hidden, not destroyed.
	if p.len() != 5 {
		t.Errorf("len = %d after hideStale, want 5", p.len())
	}
}

func TestSpritePool_Reset(t *testing.T) {
	var p spritePool[string]
	p.get("a", CategoryPlayer)
	p.get("b", CategoryNPC)
	p.reset()
	if p.len() != 0 {
		t.Errorf("len after reset = %d", p.len())
	}
	if _, ok := p.lookup("a"); ok {
		t.Error("lookup after reset should miss")
	}
	if _, created := p.get("a", CategoryPlayer); !created {
		t.Error("get after reset should create")
	}
}

func BenchmarkSpritePool_Get(b *testing.B) {
	var p spritePool[TileCoord]
	for y := range 64 {
		for x := range 64 {
			p.get(TileCoord{x, y}, CategoryTerrain)
		}
	}
	b.ReportAllocs()
	for i := 0; b.Loop(); i++ {
		p.get(TileCoord{i & 63, (i >> 6) & 63}, CategoryTerrain)
	}
}
