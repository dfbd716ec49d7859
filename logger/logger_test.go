package logger_test

import (
	"strings"
	"testing"

	"github.com/buserror/simavr-go/internal/simtest"
	"github.com/buserror/simavr-go/logger"
)

func TestLogger(t *testing.T) {
	logger.Clear()

	var b strings.Builder
	logger.Write(&b)
	simtest.Equate(t, b.String(), "")

	logger.Log("test", "this is a test")
	b.Reset()
	logger.Write(&b)
	simtest.Equate(t, b.String(), "test: this is a test\n")

	logger.Log("test2", "this is another test")
	b.Reset()
	logger.Write(&b)
	simtest.Equate(t, b.String(), "test: this is a test\ntest2: this is another test\n")

	// asking for too many entries in a Tail() should be okay
	b.Reset()
	logger.Tail(&b, 100)
	simtest.Equate(t, b.String(), "test: this is a test\ntest2: this is another test\n")

	// asking for exactly the correct number of entries is okay
	b.Reset()
	logger.Tail(&b, 2)
	simtest.Equate(t, b.String(), "test: this is a test\ntest2: this is another test\n")

	// asking for fewer entries is okay too
	b.Reset()
	logger.Tail(&b, 1)
	simtest.Equate(t, b.String(), "test2: this is another test\n")

	// and no entries
	b.Reset()
	logger.Tail(&b, 0)
	simtest.Equate(t, b.String(), "")
}

func TestLoggerFormatted(t *testing.T) {
	logger.Clear()
	logger.Logf("twi", "bus conflict at address %#02x", 0x42)
	simtest.Equate(t, logger.String(), "twi: bus conflict at address 0x42\n")
}
