package migrator

import (
	"fmt"
	"io"
)

type migratorLogger struct {
	out     io.Writer
	verbose bool
}

func (m *migratorLogger) Printf(format string, v ...interface{}) {
	fmt.Fprintf(m.out, format, v...)
}

func (m *migratorLogger) Verbose() bool {
	return m.verbose
}
