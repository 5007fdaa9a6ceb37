package grove

// poolBlockSize is the number of sprites allocated at once. Sprites live in
// fixed-size blocks so pointers stay valid as the pool grows.
const poolBlockSize = 256

// spritePool is a hide-not-destroy arena of sprites keyed by K. Slots are
// created on first use, reused every frame, and only released by reset.
type spritePool[K comparable] struct {
	blocks [][]Sprite
	keys   []K
	index  map[K]int
}

// get returns the sprite for key, creating it if needed. created reports
// whether the slot is new this call.
func (p *spritePool[K]) get(key K, cat Category) (s *Sprite, created bool) {
	if i, ok := p.index[key]; ok {
		return p.at(i), false
	}
	if p.index == nil {
		p.index = make(map[K]int)
	}
	i := len(p.keys)
	if i/poolBlockSize >= len(p.blocks) {
		p.blocks = append(p.blocks, make([]Sprite, poolBlockSize))
		Logger().Debug("sprite pool grew", "category", cat.String(), "capacity", len(p.blocks)*poolBlockSize)
	}
	p.keys = append(p.keys, key)
	p.index[key] = i
	s = p.at(i)
	s.reset(cat)
	return s, true
}

// lookup returns the sprite for key without creating it.
func (p *spritePool[K]) lookup(key K) (*Sprite, bool) {
	i, ok := p.index[key]
	if !ok {
		return nil, false
	}
	return p.at(i), true
}

func (p *spritePool[K]) at(i int) *Sprite {
	return &p.blocks[i/poolBlockSize][i%poolBlockSize]
}

// len returns the number of live slots.
func (p *spritePool[K]) len() int {
	return len(p.keys)
}

// each calls fn for every slot in creation order.
func (p *spritePool[K]) each(fn func(key K, s *Sprite)) {
	for i, k := range p.keys {
		fn(k, p.at(i))
	}
}

// hideStale hides every sprite whose frame stamp is not frame and returns
// the number of sprites still visible.
func (p *spritePool[K]) hideStale(frame uint64) int {
	visible := 0
	for i := range p.keys {
		s := p.at(i)
		if s.seen != frame {
			s.Visible = false
		}
		if s.Visible {
			visible++
		}
	}
	return visible
}

// reset destroys every slot. Used on map change only.
func (p *spritePool[K]) reset() {
	p.blocks = nil
	p.keys = nil
	p.index = nil
}
