package callback

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	erro "github.com/njones/eioclient/internal/errors"
	"github.com/stretchr/testify/assert"
)

func eventCallback(in ...interface{}) func(interface{ Callback(...interface{}) error }) error {
	return func(fn interface{ Callback(...interface{}) error }) error {
		return fn.Callback(in...)
	}
}

func ExampleErrorWrap() {
	err := eventCallback()(

		// This wraps a function that takes no arguments
		// and returns an error
		ErrorWrap(func() error {
			return fmt.Errorf("sad")
		}),
	)

	fmt.Println("err:", err)

	// Output: err: sad
}

func ExampleFuncString() {

	eventCallback("World")(

		// This wraps a function that takes a string as an argument and
		// and doesn't return
		FuncString(func(str string) {
			fmt.Println("Hello", str)
		}),
	)

	// Output: Hello World
}

func ExampleWrap() {

	type sessionID string

	err := eventCallback("Pan", "Wendy")(

		// Wrap takes in an object that represents a function
		// with typed parameters and an optional error output
		Wrap{
			Func: func() interface{} {
				return func(last string, first sessionID) error {
					fmt.Println("Peter", last)
					fmt.Println(first, "Darling")
					return fmt.Errorf("Boys")
				}
			},
		},
	)

	fmt.Println("The Lost", err)

	eventCallback(1, "too", 3.5, strings.NewReader("FORE"))(
		Wrap{
			Func: func() interface{} {
				return func(one int, two string, three float64, four io.Reader) {
					fmt.Println("The number:", one)
					fmt.Println("This takes:", two)
					fmt.Println("To make my:", three)
					fmt.Print("Stream out: ")
					io.Copy(os.Stdout, four)
				}
			},
		},
	)

	// Output:
	// Peter Pan
	// Wendy Darling
	// The Lost Boys
	// The number: 1
	// This takes: too
	// To make my: 3.5
	// Stream out: FORE
}

func TestFuncError(t *testing.T) {
	var have error
	fn := FuncError(func(err error) { have = err })

	assert.NoError(t, fn.Callback(io.EOF))
	assert.Equal(t, io.EOF, have)

	assert.ErrorIs(t, fn.Callback("not an error"), ErrUnexpectedParamType)
	assert.ErrorIs(t, fn.Callback(), ErrUnexpectedDataInParams)
}

func TestWrapErrors(t *testing.T) {
	tests := map[string]struct {
		fn   func() interface{}
		data []interface{}
		err  error
	}{
		"Not A Func": {
			fn:   func() interface{} { return "func" },
			data: nil,
			err:  ErrNotAFunc,
		},
		"Wrong Count": {
			fn:   func() interface{} { return func(string) {} },
			data: []interface{}{"a", "b"},
			err:  ErrUnexpectedDataInParams,
		},
		"Wrong Type": {
			fn:   func() interface{} { return func(time.Duration) {} },
			data: []interface{}{"10s"},
			err:  ErrUnexpectedParamType,
		},
		"Two Returns": {
			fn:   func() interface{} { return func() (int, error) { return 0, nil } },
			data: nil,
			err:  ErrUnexpectedSingleOutParam,
		},
		"Panic String": {
			fn:   func() interface{} { return func() { panic("boom") } },
			data: nil,
			err:  errors.New("boom"),
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			err := Wrap{Func: test.fn}.Callback(test.data...)
			if _, ok := test.err.(erro.String); ok {
				assert.ErrorIs(t, err, test.err)
				return
			}
			assert.Error(t, err)
			assert.Equal(t, test.err.Error(), err.Error())
		})
	}
}

func TestWrapNilAndInterfaceParams(t *testing.T) {
	var have []interface{}
	err := Wrap{Func: func() interface{} {
		return func(err error, v interface{}, d time.Duration) error {
			have = append(have, err, v, d)
			return nil
		}
	}}.Callback(nil, 42, time.Second)

	assert.NoError(t, err)
	assert.Equal(t, []interface{}{error(nil), 42, time.Second}, have)
}
