// Package menu drives the interactive prompt choosing between the timed store operations.
package menu

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/meschbach/tradeingest/internal/bench"
	"github.com/meschbach/tradeingest/internal/model"
	"github.com/shopspring/decimal"
)

// Dispatcher reads one command at a time and runs it until the user quits or input ends.
type Dispatcher struct {
	runner    *bench.Runner
	input     Input
	out       io.Writer
	generate  func(n int) []model.Trade
	threshold decimal.Decimal
	inputErr  error
}

type Option func(d *Dispatcher)

// WithGenerator replaces how sample trades are produced.
func WithGenerator(generate func(n int) []model.Trade) Option {
	return func(d *Dispatcher) {
		d.generate = generate
	}
}

// WithThreshold sets the price threshold used when retrieving trades.  Defaults to zero.
func WithThreshold(threshold decimal.Decimal) Option {
	return func(d *Dispatcher) {
		d.threshold = threshold
	}
}

func NewDispatcher(runner *bench.Runner, input Input, out io.Writer, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		runner:    runner,
		input:     input,
		out:       out,
		generate:  model.GenerateSampleData,
		threshold: decimal.Zero,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run loops until a Quit command, the end of input or cancellation of ctx.  Only cancellation and input failures
// are returned; failures of individual commands are reported to the output and the loop continues.
func (d *Dispatcher) Run(ctx context.Context) error {
	current := awaitingCommand
	for current != terminated {
		if err := ctx.Err(); err != nil {
			return err
		}
		d.printMenu()

		token, err := d.input.Next(ctx)
		if err != nil {
			d.inputErr = err
			return d.finish()
		}

		command, err := ParseCommand(token)
		if err != nil {
			fmt.Fprintln(d.out, "Invalid option. Try again!")
			continue
		}
		current = command.execute(ctx, d)
	}
	return d.finish()
}

func (d *Dispatcher) finish() error {
	err := d.inputErr
	if err == nil || errors.Is(err, io.EOF) {
		if err != nil {
			fmt.Fprintln(d.out)
			fmt.Fprintln(d.out, "Exited.")
		}
		return nil
	}
	return err
}

func (d *Dispatcher) printMenu() {
	for _, c := range Commands {
		fmt.Fprintf(d.out, "%s. %s\n", c.Token(), c.Label())
	}
	fmt.Fprint(d.out, "What would you like to do? ")
}

// readCount prompts for a non negative count.  False is returned when no count was read; input failures are kept
// for afterInputFailure.
func (d *Dispatcher) readCount(ctx context.Context, prompt string) (int, bool) {
	fmt.Fprint(d.out, prompt)
	token, err := d.input.Next(ctx)
	if err != nil {
		d.inputErr = err
		return 0, false
	}
	count, ok := parseCount(token)
	if !ok {
		fmt.Fprintf(d.out, "Invalid number %q. Try again!\n", token)
		return 0, false
	}
	return count, true
}

func (d *Dispatcher) afterInputFailure() state {
	if d.inputErr != nil {
		return terminated
	}
	return awaitingCommand
}
