package tokencount

import "fmt"

// New builds a Counter for the named strategy: "simple" (chars/4 heuristic),
// "precise" (tiktoken-go BPE encoding), or "auto" (precise, silently falling
// back to simple if precise construction ever panics/fails to load its
// ranks). Any other strategy is an error.
func New(strategy string) (Counter, error) {
	switch strategy {
	case "simple", "":
		return NewSimpleCounter(), nil
	case "precise":
		return newPreciseOrError()
	case "auto":
		c, err := newPreciseOrError()
		if err != nil {
			return NewSimpleCounter(), nil
		}
		return c, nil
	default:
		return nil, fmt.Errorf("tokencount: invalid strategy %q, valid options are simple, precise, auto", strategy)
	}
}

func newPreciseOrError() (c Counter, err error) {
	defer func() {
		if r := recover(); r != nil {
			c, err = nil, fmt.Errorf("tokencount: precise counter unavailable: %v", r)
		}
	}()
	pc := NewPreciseCounter()
	pc.encodingFor("gpt-4") // load the ranks now so a failure surfaces here
	return pc, nil
}
