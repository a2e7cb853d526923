package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// executor is the surface the REPL drives. The real App satisfies it;
// tests can provide a lightweight stub.
type executor interface {
	Status() string
	Exec(ctx context.Context, name string, args []string) error
	Report(err error)
}

// runREPL reads commands line by line and hands them to e. It returns on
// EOF, on context cancellation, or when a command returns errExit. Command
// errors are reported and the loop goes on.
func runREPL(ctx context.Context, e executor, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "stockyard %s> ", e.Status())
		line, readErr := reader.ReadString('\n')

		if parts := strings.Fields(line); len(parts) > 0 {
			err := e.Exec(ctx, parts[0], parts[1:])
			if errors.Is(err, errExit) {
				fmt.Fprintln(w, "Bye!")
				return
			}
			if err != nil {
				e.Report(err)
			}
		}

		if readErr != nil || ctx.Err() != nil {
			return
		}
	}
}
