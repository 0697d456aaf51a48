package callback

import (
	"errors"
	"reflect"
)

type ErrorWrap func() error

func (fn ErrorWrap) Callback(data ...interface{}) error { return fn() }

type FuncAny func(...interface{}) error

func (fn FuncAny) Callback(v ...interface{}) error {
	return fn(v...)
}

type FuncString func(string)

func (fn FuncString) Callback(v ...interface{}) error {
	if len(v) == 0 {
		v = append(v, "unknown")
	}
	if val, ok := v[0].(string); ok {
		fn(val)
	} else {
		fn("undefined")
	}
	return nil
}

// FuncError is called with the first argument when it is an error, any
// other argument is ignored.
type FuncError func(error)

func (fn FuncError) Callback(v ...interface{}) error {
	if len(v) == 0 {
		return ErrUnexpectedDataInParams.F(1, 0)
	}
	if err, ok := v[0].(error); ok {
		fn(err)
		return nil
	}
	return ErrUnexpectedParamType.F(0, "error", v[0])
}

// Wrap calls any func using the callback arguments as the parameters. The
// func may return nothing or a single error.
//
//	Wrap{Func: func() interface{} { return func(sid string, n int) error { ... } }}
type Wrap struct {
	Func func() interface{} // func([T]...) [error]
}

func (fn Wrap) Callback(data ...interface{}) (err error) {
	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case string:
				err = errors.New(e)
			case error:
				err = e
			default:
				err = ErrUnknownPanic.F(r)
			}
		}
	}()

	raw := fn.Func()
	f := reflect.ValueOf(raw)
	if f.Kind() != reflect.Func {
		return ErrNotAFunc.F(raw)
	}

	ft := f.Type()
	if len(data) != ft.NumIn() {
		return ErrUnexpectedDataInParams.F(ft.NumIn(), len(data))
	}

	if ft.NumOut() > 1 {
		return ErrUnexpectedSingleOutParam.F(ft.NumOut())
	}

	in := make([]reflect.Value, ft.NumIn())
	for i := range in {
		want := ft.In(i)
		if data[i] == nil {
			in[i] = reflect.Zero(want)
			continue
		}

		v := reflect.ValueOf(data[i])
		switch {
		case v.Type().AssignableTo(want):
			in[i] = v
		case v.Kind() == want.Kind() && v.Type().ConvertibleTo(want):
			in[i] = v.Convert(want) // named types, like session.ID from a string
		default:
			return ErrUnexpectedParamType.F(i, want, data[i])
		}
	}

	res := f.Call(in)
	if len(res) == 0 {
		return nil
	}
	if rtnErr, ok := res[0].Interface().(error); ok {
		return rtnErr
	}
	return nil
}
