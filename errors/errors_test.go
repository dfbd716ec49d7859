package errors_test

import (
	"fmt"
	"testing"

	"github.com/buserror/simavr-go/errors"
	"github.com/buserror/simavr-go/internal/simtest"
)

const testError = "test error: %s"
const testErrorB = "test error B: %s"

func TestDuplicateErrors(t *testing.T) {
	e := errors.Errorf(testError, "foo")
	simtest.Equate(t, e.Error(), "test error: foo")

	// packing errors of the same type next to each other causes
	// one of them to be dropped
	f := errors.Errorf(testError, e)
	simtest.Equate(t, f.Error(), "test error: foo")
}

func TestIs(t *testing.T) {
	e := errors.Errorf(testError, "foo")
	simtest.ExpectSuccess(t, errors.Is(e, testError))

	// Has() should fail because we haven't included testErrorB anywhere in the error
	simtest.ExpectFailure(t, errors.Has(e, testErrorB))

	// packing errors of the same type next to each other causes
	// one of them to be dropped
	f := errors.Errorf(testErrorB, e)
	simtest.ExpectFailure(t, errors.Is(f, testError))
	simtest.ExpectSuccess(t, errors.Is(f, testErrorB))
	simtest.ExpectSuccess(t, errors.Has(f, testError))
	simtest.ExpectSuccess(t, errors.Has(f, testErrorB))

	// IsAny should return true for these errors also
	simtest.ExpectSuccess(t, errors.IsAny(e))
	simtest.ExpectSuccess(t, errors.IsAny(f))
}

func TestPlainErrors(t *testing.T) {
	// test plain errors that haven't been formatted with our errors package
	e := fmt.Errorf("plain test error")
	simtest.ExpectFailure(t, errors.IsAny(e))

	simtest.ExpectFailure(t, errors.Has(e, testError))
}
