package ingest

import "sync"

// Pair is two documents that belong to one review.
type Pair struct {
	Name string
	A    string
	B    string
}

func (p Pair) complete() bool { return p.A != "" && p.B != "" }

// Pairer matches "<name>.a.*" with "<name>.b.*". Once both halves have been
// seen, every later change to either one yields the pair again.
type Pairer struct {
	mu    sync.Mutex
	pairs map[string]Pair
}

func NewPairer() *Pairer {
	return &Pairer{pairs: map[string]Pair{}}
}

// Add records path and returns the pair when it is complete.
func (p *Pairer) Add(path string) (Pair, bool) {
	name, side, ok := SplitPairName(path)
	if !ok {
		return Pair{}, false
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	pair := p.pairs[name]
	pair.Name = name
	if side == "a" {
		pair.A = path
	} else {
		pair.B = path
	}
	p.pairs[name] = pair
	return pair, pair.complete()
}

// Pending lists names still waiting for their other half.
func (p *Pairer) Pending() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for name, pair := range p.pairs {
		if !pair.complete() {
			out = append(out, name)
		}
	}
	return out
}
