package facade

import "fmt"

// Kind is a number representing the kind of an outcome. Every request ends in
// exactly one outcome.
type Kind uint8

const (
	// KindMethodNotAllowed is for methods other than GET and POST, decided
	// before looking at anything else in the request.
	KindMethodNotAllowed Kind = iota

	// KindPathNotFound is a routing miss: the path is not /{table}/{key}.
	KindPathNotFound

	// KindStoreError collapses every failure of the underlying store. The
	// caller is not told what went wrong.
	KindStoreError

	// KindRetrievedValue is the result of a read. It carries the value, if the
	// key was found.
	KindRetrievedValue

	// KindUnauthorized is for writes without the right token. It is decided
	// before the path is looked at, so it reveals nothing about the path.
	KindUnauthorized

	// KindInvalidBody is for writes whose payload is not UTF-8 text.
	KindInvalidBody

	// KindStored acknowledges a write.
	KindStored

	numKinds
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindMethodNotAllowed:
		return "MethodNotAllowed"
	case KindPathNotFound:
		return "PathNotFound"
	case KindStoreError:
		return "StoreError"
	case KindRetrievedValue:
		return "RetrievedValue"
	case KindUnauthorized:
		return "Unauthorized"
	case KindInvalidBody:
		return "InvalidBody"
	case KindStored:
		return "Stored"
	default:
		return "unknown outcome kind"
	}
}

type Outcome struct {
	kind Kind

	// Meaningful for KindRetrievedValue only.
	value string
	found bool
}

func (o Outcome) Kind() Kind {
	return o.kind
}

// Value returns the retrieved value and whether the key was found. Call only
// for KindRetrievedValue, else it'll panic.
func (o Outcome) Value() (value string, found bool) {
	if o.kind != KindRetrievedValue {
		panic(fmt.Sprintf("cannot call .Value for outcome of kind %v", o.kind))
	}
	return o.value, o.found
}

// String implements fmt.Stringer.
func (o Outcome) String() string {
	if o.kind == KindRetrievedValue {
		if !o.found {
			return "RetrievedValue(none)"
		}
		return fmt.Sprintf("RetrievedValue(%d bytes)", len(o.value))
	}
	return o.kind.String()
}

func MethodNotAllowed() Outcome { return Outcome{kind: KindMethodNotAllowed} }
func PathNotFound() Outcome { return Outcome{kind: KindPathNotFound} }
func StoreError() Outcome { return Outcome{kind: KindStoreError} }
func Unauthorized() Outcome { return Outcome{kind: KindUnauthorized} }
func InvalidBody() Outcome { return Outcome{kind: KindInvalidBody} }
func Stored() Outcome { return Outcome{kind: KindStored} }

// RetrievedValue constructs the outcome of a read that hit the key.
func RetrievedValue(value string) Outcome {
	return Outcome{kind: KindRetrievedValue, value: value, found: true}
}

// NothingRetrieved constructs the outcome of a read that missed the key.
func NothingRetrieved() Outcome {
	return Outcome{kind: KindRetrievedValue}
}
