package facade

import (
	"fmt"
	"net/http"
)

// Response is the transport-neutral rendering of an Outcome.
type Response struct {
	StatusCode int

	// Empty for every outcome except a successful read.
	Body string
}

// Render maps an outcome to a response. An outcome kind without a mapping is a
// programming error, and Render panics on it.
func Render(o Outcome) Response {
	switch o.kind {
	case KindMethodNotAllowed:
		return Response{StatusCode: http.StatusMethodNotAllowed}
	case KindPathNotFound:
		return Response{StatusCode: http.StatusNotFound}
	case KindStoreError:
		return Response{StatusCode: http.StatusInternalServerError}
	case KindRetrievedValue:
		if !o.found {
			return Response{StatusCode: http.StatusNotFound}
		}
		return Response{StatusCode: http.StatusOK, Body: o.value}
	case KindUnauthorized:
		return Response{StatusCode: http.StatusUnauthorized}
	case KindInvalidBody:
		return Response{StatusCode: http.StatusBadRequest}
	case KindStored:
		return Response{StatusCode: http.StatusNoContent}
	default:
		panic(fmt.Sprintf("no response for outcome of kind %v", o.kind))
	}
}
