package state

import (
	"github.com/aliakborswe/travel-buddy-client/internal/api"
)

// Resource is the shared async-operation lifecycle every slice follows:
// pending sets Loading and clears the previous error, fulfilled stores the
// payload, rejected stores the failure message. Payloads replace the previous
// value wholesale; there is no field-level merging.
type Resource[T any] struct {
	Data    T
	Loading bool
	Err     string
}

func (r *Resource[T]) pending() {
	r.Loading = true
	r.Err = ""
}

func (r *Resource[T]) fulfilled(data T) {
	r.Loading = false
	r.Data = data
}

func (r *Resource[T]) rejected(err error) {
	r.Loading = false
	r.Err = api.Message(err)
}

// Error returns the last failure message, empty when the last operation
// succeeded.
func (r *Resource[T]) Error() string { return r.Err }
