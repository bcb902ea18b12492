package autowire

// buildStack tracks the entries currently under construction, so a
// factory chasing its own service is caught instead of recursing.
type buildStack []*entry

func (s *buildStack) Push(e *entry) { *s = append(*s, e) }

func (s *buildStack) Pop() {
	if len(*s) > 0 {
		*s = (*s)[:len(*s)-1]
	}
}

func (s buildStack) Contains(e *entry) bool {
	for _, item := range s {
		if item == e {
			return true
		}
	}

	return false
}

func (s buildStack) Names() []string {
	names := make([]string, 0, len(s))
	for _, item := range s {
		names = append(names, item.primary())
	}

	return names
}
