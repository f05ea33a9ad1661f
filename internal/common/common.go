package common

// Gate injects suspension points into cursor operations. Armed with n
// yields, each logical operation must poll Block n times before it is
// allowed to complete; completing re-arms the gate for the next operation.
// The zero Gate never blocks.
type Gate struct {
	yields  int
	pending int
}

// Arm sets the number of suspended polls injected before every operation.
func (g *Gate) Arm(yields int) {
	g.yields = yields
	g.pending = yields
}

// Block reports whether the current poll must suspend. When it returns
// false the operation completes now and the gate re-arms for the next one.
func (g *Gate) Block() bool {
	if g.pending > 0 {
		g.pending--
		return true
	}
	g.pending = g.yields
	return false
}
