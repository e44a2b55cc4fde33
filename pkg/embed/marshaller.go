package opal

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/funvibe/opal/internal/evaluator"
)

var (
	objectType  = reflect.TypeOf((*evaluator.Object)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	bigIntType  = reflect.TypeOf((*big.Int)(nil))
	decimalType = reflect.TypeOf(decimal.Decimal{})
	anyType     = reflect.TypeOf((*interface{})(nil)).Elem()
	viewType    = reflect.TypeOf((*ArrayView)(nil))
)

// ErrCyclicValue reports a collection or object that contains itself.
var ErrCyclicValue = errors.New("cyclic value cannot be converted")

// Marshaller handles conversion between Go and Opal values.
type Marshaller struct{}

func NewMarshaller() *Marshaller {
	return &Marshaller{}
}

// ToValue converts a Go value to an Opal Object.
func (m *Marshaller) ToValue(val interface{}) (evaluator.Object, error) {
	if val == nil {
		return evaluator.NULL, nil
	}
	if obj, ok := val.(evaluator.Object); ok {
		return obj, nil
	}
	switch v := val.(type) {
	case *big.Int:
		if v == nil {
			return evaluator.NULL, nil
		}
		return &evaluator.Integer{Value: new(big.Int).Set(v)}, nil
	case decimal.Decimal:
		return evaluator.NewDecimal(v), nil
	case *ArrayView:
		if v == nil {
			return evaluator.NULL, nil
		}
		return v.array, nil
	}
	return m.toValue(reflect.ValueOf(val))
}

func (m *Marshaller) toValue(v reflect.Value) (evaluator.Object, error) {
	if !v.IsValid() {
		return evaluator.NULL, nil
	}
	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			return evaluator.TRUE, nil
		}
		return evaluator.FALSE, nil
	case reflect.Uint8:
		return &evaluator.Byte{Value: uint8(v.Uint())}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return evaluator.NewInteger(v.Int()), nil
	case reflect.Uint, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return &evaluator.Integer{Value: new(big.Int).SetUint64(v.Uint())}, nil
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("cannot represent %v as a decimal", f)
		}
		return evaluator.NewDecimal(decimal.NewFromFloat(f)), nil
	case reflect.String:
		return evaluator.NewString(v.String()), nil
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return evaluator.NULL, nil
		}
		elements := make([]evaluator.Object, v.Len())
		for i := 0; i < v.Len(); i++ {
			el, err := m.ToValue(v.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			elements[i] = el
		}
		return evaluator.NewArray(elements), nil
	case reflect.Map:
		return m.mapToDictionary(v)
	case reflect.Struct:
		return m.structToObject(v)
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return evaluator.NULL, nil
		}
		return m.ToValue(v.Elem().Interface())
	case reflect.Func:
		method, err := m.Func("", v.Interface())
		if err != nil {
			return nil, err
		}
		return method, nil
	}
	return nil, fmt.Errorf("unsupported Go type %s", v.Type())
}

// mapToDictionary orders entries by their rendered key so the result does
// not depend on Go map iteration order.
func (m *Marshaller) mapToDictionary(v reflect.Value) (*evaluator.DictionaryObject, error) {
	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
	})
	result := evaluator.NewDictionary()
	for _, k := range keys {
		key, err := m.ToValue(k.Interface())
		if err != nil {
			return nil, fmt.Errorf("map key: %w", err)
		}
		val, err := m.ToValue(v.MapIndex(k).Interface())
		if err != nil {
			return nil, fmt.Errorf("map value: %w", err)
		}
		if err := result.Set(key, val); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// fieldName honors an `opal:"name"` tag; "-" skips the field.
func fieldName(f reflect.StructField) (string, bool) {
	if f.PkgPath != "" {
		return "", false
	}
	switch tag := f.Tag.Get("opal"); tag {
	case "-":
		return "", false
	case "":
		return f.Name, true
	default:
		return tag, true
	}
}

func (m *Marshaller) structToObject(v reflect.Value) (*evaluator.GenericObject, error) {
	obj := evaluator.NewGenericObject()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		name, ok := fieldName(t.Field(i))
		if !ok {
			continue
		}
		val, err := m.ToValue(v.Field(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		obj.SetMember(name, val)
	}
	return obj, nil
}

// FromValue converts an Opal Object to a Go value. targetType is optional;
// when given, the result is assignable to it.
func (m *Marshaller) FromValue(obj evaluator.Object, targetType reflect.Type) (interface{}, error) {
	if obj == nil {
		return nil, nil
	}
	visiting := make(map[evaluator.Object]bool)
	if targetType == nil || targetType == anyType {
		return m.natural(obj, visiting)
	}
	rv, err := m.fromValue(obj, targetType, visiting)
	if err != nil {
		return nil, err
	}
	return rv.Interface(), nil
}

// enter marks obj as being converted. Collections and objects seen again
// before their conversion finishes fail with ErrCyclicValue.
func enter(visiting map[evaluator.Object]bool, obj evaluator.Object) (func(), error) {
	if visiting[obj] {
		return nil, fmt.Errorf("%w: %s", ErrCyclicValue, obj.Type())
	}
	visiting[obj] = true
	return func() { delete(visiting, obj) }, nil
}

// natural picks the default Go representation of obj.
func (m *Marshaller) natural(obj evaluator.Object, visiting map[evaluator.Object]bool) (interface{}, error) {
	switch o := obj.(type) {
	case *evaluator.Void, *evaluator.Null:
		return nil, nil
	case *evaluator.Boolean:
		return o.Value, nil
	case *evaluator.Byte:
		return o.Value, nil
	case *evaluator.Integer:
		if o.Value.IsInt64() {
			return o.Value.Int64(), nil
		}
		return new(big.Int).Set(o.Value), nil
	case *evaluator.Decimal:
		return o.Value, nil
	case *evaluator.Character:
		return o.Value, nil
	case *evaluator.StringObject:
		return o.Value, nil
	case *evaluator.ArrayObject:
		leave, err := enter(visiting, o)
		if err != nil {
			return nil, err
		}
		defer leave()
		out := make([]interface{}, len(o.Elements))
		for i, el := range o.Elements {
			v, err := m.natural(el, visiting)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case *evaluator.DictionaryObject:
		leave, err := enter(visiting, o)
		if err != nil {
			return nil, err
		}
		defer leave()
		out := make(map[interface{}]interface{}, o.Len())
		for _, entry := range o.Entries() {
			k, err := m.natural(entry.Key, visiting)
			if err != nil {
				return nil, fmt.Errorf("map key: %w", err)
			}
			if k != nil && !reflect.TypeOf(k).Comparable() {
				return nil, fmt.Errorf("map key %s has no comparable Go form", entry.Key.Inspect())
			}
			v, err := m.natural(entry.Value, visiting)
			if err != nil {
				return nil, fmt.Errorf("map value: %w", err)
			}
			out[k] = v
		}
		return out, nil
	case *evaluator.Method, *evaluator.MethodSet:
		return obj, nil
	case *evaluator.GenericObject:
		leave, err := enter(visiting, o)
		if err != nil {
			return nil, err
		}
		defer leave()
		out := make(map[string]interface{}, o.Len())
		for _, name := range o.MemberNames() {
			member, _ := o.GetMember(name)
			if _, ok := member.(*evaluator.MethodSet); ok {
				continue
			}
			if _, ok := member.(*evaluator.Method); ok {
				continue
			}
			v, err := m.natural(member, visiting)
			if err != nil {
				return nil, err
			}
			out[name] = v
		}
		return out, nil
	}
	return obj, nil
}

func (m *Marshaller) fromValue(obj evaluator.Object, t reflect.Type, visiting map[evaluator.Object]bool) (reflect.Value, error) {
	if t == objectType || (t.Kind() != reflect.Interface && reflect.TypeOf(obj).AssignableTo(t)) {
		return reflect.ValueOf(obj), nil
	}
	switch obj.(type) {
	case *evaluator.Void, *evaluator.Null:
		switch t.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot convert %s to %s", obj.Inspect(), t)
	}

	switch t {
	case viewType:
		if a, ok := obj.(*evaluator.ArrayObject); ok {
			return reflect.ValueOf(&ArrayView{array: a, marshaller: m}), nil
		}
	case bigIntType:
		if i, ok := toBig(obj); ok {
			return reflect.ValueOf(i), nil
		}
	case decimalType:
		switch o := obj.(type) {
		case *evaluator.Decimal:
			return reflect.ValueOf(o.Value), nil
		default:
			if i, ok := toBig(obj); ok {
				return reflect.ValueOf(decimal.NewFromBigInt(i, 0)), nil
			}
		}
	}

	switch t.Kind() {
	case reflect.Interface:
		v, err := m.natural(obj, visiting)
		if err != nil {
			return reflect.Value{}, err
		}
		if v == nil {
			return reflect.Zero(t), nil
		}
		if rv := reflect.ValueOf(v); rv.Type().AssignableTo(t) {
			return rv, nil
		}
	case reflect.Bool:
		if b, ok := obj.(*evaluator.Boolean); ok {
			return reflect.ValueOf(b.Value).Convert(t), nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if c, ok := obj.(*evaluator.Character); ok && t.Kind() == reflect.Int32 {
			return reflect.ValueOf(c.Value).Convert(t), nil
		}
		if i, ok := toBig(obj); ok {
			if !i.IsInt64() || reflect.Zero(t).OverflowInt(i.Int64()) {
				return reflect.Value{}, fmt.Errorf("%s overflows %s", i, t)
			}
			return reflect.ValueOf(i.Int64()).Convert(t), nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if i, ok := toBig(obj); ok {
			if i.Sign() < 0 || !i.IsUint64() || reflect.Zero(t).OverflowUint(i.Uint64()) {
				return reflect.Value{}, fmt.Errorf("%s overflows %s", i, t)
			}
			return reflect.ValueOf(i.Uint64()).Convert(t), nil
		}
	case reflect.Float32, reflect.Float64:
		switch o := obj.(type) {
		case *evaluator.Decimal:
			return reflect.ValueOf(o.Value.InexactFloat64()).Convert(t), nil
		default:
			if i, ok := toBig(obj); ok {
				f, _ := new(big.Float).SetInt(i).Float64()
				return reflect.ValueOf(f).Convert(t), nil
			}
		}
	case reflect.String:
		switch o := obj.(type) {
		case *evaluator.StringObject:
			return reflect.ValueOf(o.Value).Convert(t), nil
		case *evaluator.Character:
			return reflect.ValueOf(string(o.Value)).Convert(t), nil
		}
	case reflect.Slice:
		if a, ok := obj.(*evaluator.ArrayObject); ok {
			leave, err := enter(visiting, a)
			if err != nil {
				return reflect.Value{}, err
			}
			defer leave()
			out := reflect.MakeSlice(t, len(a.Elements), len(a.Elements))
			for i, el := range a.Elements {
				v, err := m.fromValue(el, t.Elem(), visiting)
				if err != nil {
					return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
				}
				out.Index(i).Set(v)
			}
			return out, nil
		}
	case reflect.Map:
		if d, ok := obj.(*evaluator.DictionaryObject); ok {
			leave, err := enter(visiting, d)
			if err != nil {
				return reflect.Value{}, err
			}
			defer leave()
			out := reflect.MakeMapWithSize(t, d.Len())
			for _, entry := range d.Entries() {
				k, err := m.fromValue(entry.Key, t.Key(), visiting)
				if err != nil {
					return reflect.Value{}, fmt.Errorf("map key: %w", err)
				}
				v, err := m.fromValue(entry.Value, t.Elem(), visiting)
				if err != nil {
					return reflect.Value{}, fmt.Errorf("map value: %w", err)
				}
				out.SetMapIndex(k, v)
			}
			return out, nil
		}
	case reflect.Struct:
		if g, ok := obj.(*evaluator.GenericObject); ok {
			return m.objectToStruct(g, t, visiting)
		}
	case reflect.Ptr:
		v, err := m.fromValue(obj, t.Elem(), visiting)
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(v)
		return p, nil
	}
	return reflect.Value{}, fmt.Errorf("cannot convert %s to %s", obj.Type(), t)
}

func (m *Marshaller) objectToStruct(g *evaluator.GenericObject, t reflect.Type, visiting map[evaluator.Object]bool) (reflect.Value, error) {
	leave, err := enter(visiting, g)
	if err != nil {
		return reflect.Value{}, err
	}
	defer leave()
	out := reflect.New(t).Elem()
	for i := 0; i < t.NumField(); i++ {
		name, ok := fieldName(t.Field(i))
		if !ok {
			continue
		}
		member, ok := g.GetMember(name)
		if !ok {
			continue
		}
		v, err := m.fromValue(member, t.Field(i).Type, visiting)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("field %s: %w", name, err)
		}
		out.Field(i).Set(v)
	}
	return out, nil
}

func toBig(obj evaluator.Object) (*big.Int, bool) {
	switch o := obj.(type) {
	case *evaluator.Integer:
		return new(big.Int).Set(o.Value), true
	case *evaluator.Byte:
		return big.NewInt(int64(o.Value)), true
	}
	return nil, false
}

// Func wraps a Go function as a native method. A leading context.Context
// parameter receives the evaluator's context and does not count toward the
// arity. The function may return nothing, a value, an error, or a value and
// an error; a returned error becomes a catchable OperableError.
func (m *Marshaller) Func(name string, fn interface{}) (*evaluator.Method, error) {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func || fv.IsNil() {
		return nil, fmt.Errorf("%s: expected a function, got %T", name, fn)
	}
	ft := fv.Type()
	if ft.IsVariadic() {
		return nil, fmt.Errorf("%s: variadic functions cannot be bound", name)
	}

	offset := 0
	if ft.NumIn() > 0 && ft.In(0) == contextType {
		offset = 1
	}
	returnsError := ft.NumOut() > 0 && ft.Out(ft.NumOut()-1) == errorType
	values := ft.NumOut()
	if returnsError {
		values--
	}
	if values > 1 {
		return nil, fmt.Errorf("%s: at most one result besides error is supported", name)
	}

	arity := ft.NumIn() - offset
	native := func(e *evaluator.Evaluator, args []evaluator.Object) (evaluator.Object, error) {
		in := make([]reflect.Value, 0, ft.NumIn())
		if offset == 1 {
			in = append(in, reflect.ValueOf(e.Context))
		}
		for i, arg := range args {
			v, err := m.fromValue(arg, ft.In(i+offset), make(map[evaluator.Object]bool))
			if err != nil {
				return nil, &evaluator.RuntimeError{Kind: evaluator.OperableError, Message: fmt.Sprintf("argument %d: %v", i+1, err)}
			}
			in = append(in, v)
		}

		out := fv.Call(in)
		if returnsError {
			if err, _ := out[len(out)-1].Interface().(error); err != nil {
				return nil, &evaluator.RuntimeError{Kind: evaluator.OperableError, Message: err.Error()}
			}
		}
		if values == 0 {
			return evaluator.VOID, nil
		}
		return m.ToValue(out[0].Interface())
	}
	return evaluator.NewNativeMethod(name, arity, evaluator.RoleFor(arity, values > 0), native), nil
}
