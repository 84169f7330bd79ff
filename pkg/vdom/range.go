package vdom

// Range returns the integers in [a, b). Called with a single argument n
// it returns [0, n). Mostly useful for building repeated children:
//
//	e.H("ul", nil, func() any {
//	    items := []*vdom.Node{}
//	    for _, i := range vdom.Range(3) {
//	        items = append(items, e.H("li", nil, i))
//	    }
//	    return items
//	})
func Range(bounds ...int) []int {
	var a, b int
	switch len(bounds) {
	case 0:
		return []int{}
	case 1:
		b = bounds[0]
	default:
		a, b = bounds[0], bounds[1]
	}
	if b <= a {
		return []int{}
	}
	out := make([]int, 0, b-a)
	for i := a; i < b; i++ {
		out = append(out, i)
	}
	return out
}
