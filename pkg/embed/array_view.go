package opal

import (
	"fmt"

	"github.com/funvibe/opal/internal/evaluator"
)

// ArrayView exposes an Opal array to Go without copying it. Writes through
// the view are visible to the unit that owns the array.
//
// A bound function declares a *ArrayView parameter to receive arrays this way.
type ArrayView struct {
	array      *evaluator.ArrayObject
	marshaller *Marshaller
}

// NewArrayView wraps obj, which must be an array.
func NewArrayView(obj evaluator.Object) (*ArrayView, error) {
	a, ok := obj.(*evaluator.ArrayObject)
	if !ok {
		return nil, fmt.Errorf("expected ARRAY, got %s", obj.Type())
	}
	return &ArrayView{array: a, marshaller: NewMarshaller()}, nil
}

func (v *ArrayView) Len() int { return v.array.Len() }

// At converts the element at i to its natural Go form.
func (v *ArrayView) At(i int) (interface{}, error) {
	el, err := v.array.Get(i)
	if err != nil {
		return nil, err
	}
	return v.marshaller.FromValue(el, nil)
}

// Set converts val and stores it at i.
func (v *ArrayView) Set(i int, val interface{}) error {
	obj, err := v.marshaller.ToValue(val)
	if err != nil {
		return err
	}
	return v.array.Set(i, obj)
}

// Object returns the wrapped array.
func (v *ArrayView) Object() *evaluator.ArrayObject { return v.array }
