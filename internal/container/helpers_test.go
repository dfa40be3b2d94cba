package container

import (
	"errors"
	"reflect"
	"sync/atomic"

	"github.com/danpasecinic/syringe/internal/kind"
	syrreflect "github.com/danpasecinic/syringe/internal/reflect"
)

type testConfig struct {
	Port int
}

type testLogger struct {
	Prefix string
}

type testService struct {
	Config *testConfig
	Logger *testLogger
	ID     int64
}

type testCycleA struct{}
type testCycleB struct{}

var nextID atomic.Int64

func slotOf[T any](v T) any {
	p := new(T)
	*p = v
	return p
}

func valueOf[T any](slot any) T {
	return *slot.(*T)
}

func typeOf[T any]() reflect.Type {
	return syrreflect.TypeOf[T]()
}

func instanceEntry[T any](v T) *Entry {
	return NewInstanceEntry(typeOf[T](), slotOf(v))
}

func loggerEntry(k kind.Kind, prefix string) *Entry {
	return NewEntry(
		typeOf[*testLogger](), k, nil, func(args []any) (any, error) {
			return slotOf(&testLogger{Prefix: prefix}), nil
		},
	)
}

func serviceEntry(k kind.Kind, calls *atomic.Int32) *Entry {
	deps := []reflect.Type{typeOf[*testConfig](), typeOf[*testLogger]()}
	return NewEntry(
		typeOf[*testService](), k, deps, func(args []any) (any, error) {
			if calls != nil {
				calls.Add(1)
			}
			return slotOf(
				&testService{
					Config: valueOf[*testConfig](args[0]),
					Logger: valueOf[*testLogger](args[1]),
					ID:     nextID.Add(1),
				},
			), nil
		},
	)
}

func failingEntry[T any](err error) *Entry {
	return NewEntry(
		typeOf[T](), kind.Singleton, nil, func(args []any) (any, error) {
			return nil, err
		},
	)
}

var errBoom = errors.New("boom")

// HasCode reports whether err carries a Problem with the given code.
func hasCode(err error, code Code) bool {
	var ve *VerificationError
	if errors.As(err, &ve) {
		for _, p := range ve.Problems {
			if p.Code == code {
				return true
			}
		}
	}
	var p *Problem
	return errors.As(err, &p) && p.Code == code
}
