package menu

import (
	"context"
	"fmt"
	"strconv"
)

// MaxCount bounds how many trades a single command may generate.
const MaxCount = 10_000_000

type state int

const (
	awaitingCommand state = iota
	terminated
)

// Command is one entry of the interactive menu.  The set of commands is closed: every variant is declared in this
// package and carries its own behaviour.
type Command interface {
	// Token is what the user types to choose the command.
	Token() string
	// Label describes the command in the menu.
	Label() string
	execute(ctx context.Context, d *Dispatcher) state
}

// GenerateAndStore generates trades and stores them through the bulk ingestion path.
type GenerateAndStore struct{}

// ViewAll reads back every trade, rewriting each stock name through the cursor.
type ViewAll struct{}

// BatchCompare generates trades and stores them through the generic SQL batch path.
type BatchCompare struct{}

// Quit ends the session.
type Quit struct{}

// Commands lists every menu entry in display order.
var Commands = []Command{GenerateAndStore{}, ViewAll{}, BatchCompare{}, Quit{}}

type UnknownCommandError struct {
	Token string
}

func (u *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %q", u.Token)
}

// ParseCommand resolves the command chosen by token.
func ParseCommand(token string) (Command, error) {
	for _, c := range Commands {
		if c.Token() == token {
			return c, nil
		}
	}
	return nil, &UnknownCommandError{Token: token}
}

func (GenerateAndStore) Token() string { return "1" }
func (GenerateAndStore) Label() string { return "Generate and save multiple trades" }

func (GenerateAndStore) execute(ctx context.Context, d *Dispatcher) state {
	count, ok := d.readCount(ctx, "How many items do you want to generate? ")
	if !ok {
		return d.afterInputFailure()
	}

	trades := d.generate(count)
	result, err := d.runner.BulkStore(ctx, trades)
	if err != nil {
		fmt.Fprintf(d.out, "There was a problem storing items using bulk ingest: %s\n", err.Error())
		return awaitingCommand
	}
	fmt.Fprintf(d.out, "Execution time: %dms\n", result.Milliseconds())
	return awaitingCommand
}

func (ViewAll) Token() string { return "2" }
func (ViewAll) Label() string { return "Retrieve all trades; show execution statistics" }

func (ViewAll) execute(ctx context.Context, d *Dispatcher) state {
	fmt.Fprintln(d.out, "Fetching all. Please wait...")
	result, err := d.runner.ViewAll(ctx, d.threshold)
	if err != nil {
		fmt.Fprintf(d.out, "There was a problem retrieving trades: %s\n", err.Error())
		return awaitingCommand
	}
	fmt.Fprintf(d.out, "Execution time: %dms\n", result.Milliseconds())
	return awaitingCommand
}

func (BatchCompare) Token() string { return "3" }
func (BatchCompare) Label() string { return "SQL batch comparison - Create and save multiple trades" }

func (BatchCompare) execute(ctx context.Context, d *Dispatcher) state {
	count, ok := d.readCount(ctx, "How many items to generate using SQL batch? ")
	if !ok {
		return d.afterInputFailure()
	}

	trades := d.generate(count)
	result := d.runner.BatchInsert(ctx, trades)
	if result.Err != nil {
		return awaitingCommand
	}
	fmt.Fprintf(d.out, "Execution time: %dms\n", result.Milliseconds())
	return awaitingCommand
}

func (Quit) Token() string { return "4" }
func (Quit) Label() string { return "Quit" }

func (Quit) execute(ctx context.Context, d *Dispatcher) state {
	fmt.Fprintln(d.out, "Exited.")
	return terminated
}

func parseCount(token string) (int, bool) {
	count, err := strconv.Atoi(token)
	if err != nil || count < 0 || count > MaxCount {
		return 0, false
	}
	return count, true
}
