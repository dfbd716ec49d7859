// Package errors is a helper package for the plain Go language error type. We
// think of these errors as curated errors. External to this package, curated
// errors are referenced as plain errors (ie. they implement the error
// interface).
//
// Internally, errors are thought of as being composed of parts, as described
// by The Go Programming Language (Donovan, Kernighan): "When the error is
// ultimately handled by the program's main function, it should provide a
// clear causal chain from the root of the problem to the overall failure".
//
// The Error() function implementation for curated errors ensures that this
// chain is normalised: it does not contain duplicate adjacent parts. This
// means a fault raised deep inside an opcode handler and rewrapped on its way
// back up through the CPU, the simulator, and cmd/simavr-go does not end up
// printing the same clause three times over.
//
//	func decodeOpcode() error {
//		return errors.Errorf("decode-fault: %v", errUnknownOpcode)
//	}
//
//	func Step() error {
//		if err := decodeOpcode(); err != nil {
//			return errors.Errorf("decode-fault: %v", err)
//		}
//		return nil
//	}
//
// Step's error prints as "decode-fault: <cause>", not
// "decode-fault: decode-fault: <cause>".
package errors
