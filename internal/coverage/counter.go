package coverage

// CounterType names a JaCoCo counter kind.
type CounterType string

// Counter types emitted in reports, in the order JaCoCo writes them.
const (
	CounterInstruction CounterType = "INSTRUCTION"
	CounterLine        CounterType = "LINE"
	CounterMethod      CounterType = "METHOD"
	CounterClass       CounterType = "CLASS"
)

// Counter is a missed/covered pair.
type Counter struct {
	Missed  int
	Covered int
}

// Total returns Missed + Covered.
func (c Counter) Total() int {
	return c.Missed + c.Covered
}

// Add returns the element-wise sum of c and o.
func (c Counter) Add(o Counter) Counter {
	return Counter{Missed: c.Missed + o.Missed, Covered: c.Covered + o.Covered}
}

// Hit returns a counter of one item, covered when covered is true.
func Hit(covered bool) Counter {
	if covered {
		return Counter{Covered: 1}
	}
	return Counter{Missed: 1}
}

// Counters holds every counter tracked for a coverage node.
// Instructions are Go statements; classes are source files; methods are
// functions and methods.
type Counters struct {
	Instruction Counter
	Line        Counter
	Method      Counter
	Class       Counter
}

// Add returns the sum of c and o.
func (c Counters) Add(o Counters) Counters {
	return Counters{
		Instruction: c.Instruction.Add(o.Instruction),
		Line:        c.Line.Add(o.Line),
		Method:      c.Method.Add(o.Method),
		Class:       c.Class.Add(o.Class),
	}
}

// Each calls fn for every counter with a non-zero total, in report order.
func (c Counters) Each(fn func(CounterType, Counter) error) error {
	for _, e := range []struct {
		t CounterType
		c Counter
	}{
		{CounterInstruction, c.Instruction},
		{CounterLine, c.Line},
		{CounterMethod, c.Method},
		{CounterClass, c.Class},
	} {
		if e.c.Total() == 0 {
			continue
		}
		if err := fn(e.t, e.c); err != nil {
			return err
		}
	}
	return nil
}
