package extract

// Kind tags the shape of a Result.
type Kind int

const (
	KindEmpty Kind = iota
	KindSingle
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindList:
		return "list"
	default:
		return "empty"
	}
}

// Result is the value extracted from a page: nothing, one string, or an
// ordered list of strings. The zero value is Empty.
type Result struct {
	kind   Kind
	value  string
	values []string
}

// Empty is the result of a first query that found nothing usable.
func Empty() Result {
	return Result{kind: KindEmpty}
}

// Single wraps one extracted value.
func Single(value string) Result {
	return Result{kind: KindSingle, value: value}
}

// List wraps values in document order. A nil slice is an empty list.
func List(values []string) Result {
	if values == nil {
		values = []string{}
	}
	return Result{kind: KindList, values: values}
}

// Kind returns the result shape.
func (r Result) Kind() Kind {
	return r.kind
}

// Value returns the single value, or "" for other kinds.
func (r Result) Value() string {
	return r.value
}

// Values returns the list values, or nil for other kinds.
func (r Result) Values() []string {
	return r.values
}

// IsEmpty reports whether there is nothing to emit.
func (r Result) IsEmpty() bool {
	switch r.kind {
	case KindSingle:
		return r.value == ""
	case KindList:
		return len(r.values) == 0
	default:
		return true
	}
}

// Interface returns the result as a plain Go value for serializers:
// nil, a string, or a []string.
func (r Result) Interface() interface{} {
	switch r.kind {
	case KindSingle:
		return r.value
	case KindList:
		return r.values
	default:
		return nil
	}
}
