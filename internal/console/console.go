package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/command"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/controller"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/dispatch"
)

const prompt = "> "

// Run reads commands from in until EOF, "quit" or ctx cancellation. Every command
// and the requests it starts complete before the next prompt.
func Run(ctx context.Context, in io.Reader, out io.Writer, loop *dispatch.Loop, ctrl *controller.Controller) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	loop.Do(ctrl.Restore)
	loop.Idle()

	for {
		fmt.Fprint(out, prompt)

		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			line = strings.TrimSpace(l)
		}

		switch line {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "help", "/help":
			fmt.Fprintln(out, command.Help())
			continue
		}

		var err error
		if !loop.Do(func() { err = command.Execute(ctrl, line) }) {
			return ctx.Err()
		}
		report(out, err)
		if !loop.Idle() {
			return ctx.Err()
		}
	}
}

// report prints parse failures. Controller rejections were already shown by the view.
func report(out io.Writer, err error) {
	var usage *command.UsageError
	switch {
	case err == nil:
	case errors.As(err, &usage):
		fmt.Fprintln(out, usage.Error())
	case errors.Is(err, command.ErrUnknownCommand):
		fmt.Fprintln(out, "Unknown command. Type help for the list.")
	}
}
