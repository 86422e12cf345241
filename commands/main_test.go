package commands

import (
	"os"
	"testing"

	"github.com/r-che/log"
)

func TestMain(m *testing.M) {
	// Logger must be opened before running code that writes to the log
	if err := log.Open(log.DefaultLog, "commands-test", log.NoFlags); err != nil {
		panic("cannot open default log: " + err.Error())
	}

	os.Exit(m.Run())
}
