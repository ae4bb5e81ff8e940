// Package command maps text commands onto controller operations.
// The Telegram bot and the console share the same command set.
package command

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/controller"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/models"
)

var ErrUnknownCommand = errors.New("unknown command")

const BookUsage = "/book <name> | <email> | <phone> | <seats>"

// UsageError reports a malformed command
type UsageError struct {
	Usage string
}

func (e *UsageError) Error() string {
	return "usage: " + e.Usage
}

type spec struct {
	usage string
	help  string
	run   func(c *controller.Controller, args string) error
}

var commands = map[string]spec{
	"login": {
		usage: "/login <email> <password>",
		help:  "sign in",
		run: func(c *controller.Controller, args string) error {
			f := strings.Fields(args)
			if len(f) != 2 {
				return &UsageError{Usage: "/login <email> <password>"}
			}
			return c.Login(f[0], f[1])
		},
	},
	"register": {
		usage: "/register <email> <password> <name>",
		help:  "create an account",
		run: func(c *controller.Controller, args string) error {
			f := strings.SplitN(strings.TrimSpace(args), " ", 3)
			if len(f) != 3 {
				return &UsageError{Usage: "/register <email> <password> <name>"}
			}
			return c.Register(f[2], f[0], f[1])
		},
	},
	"demo": {
		usage: "/demo",
		help:  "try the demo account",
		run: func(c *controller.Controller, _ string) error {
			return c.DemoLogin()
		},
	},
	"guest": {
		usage: "/guest",
		help:  "browse without an account",
		run: func(c *controller.Controller, _ string) error {
			return c.GuestLogin()
		},
	},
	"logout": {
		usage: "/logout",
		help:  "sign out",
		run: func(c *controller.Controller, _ string) error {
			c.Logout()
			return nil
		},
	},
	"search": {
		usage: "/search <from> <to> <YYYY-MM-DD>",
		help:  "find flights, e.g. /search MOW SPB 2024-06-01",
		run: func(c *controller.Controller, args string) error {
			f := strings.Fields(args)
			if len(f) != 3 {
				return &UsageError{Usage: "/search <from> <to> <YYYY-MM-DD>"}
			}
			return c.SearchFlights(f[0], f[1], f[2])
		},
	},
	"select": {
		usage: "/select <flight id>",
		help:  "choose a flight from the search results",
		run: func(c *controller.Controller, args string) error {
			id, err := parseID(args, "/select <flight id>")
			if err != nil {
				return err
			}
			return c.SelectFlight(id)
		},
	},
	"book": {
		usage: BookUsage,
		help:  "book the selected flight",
		run: func(c *controller.Controller, args string) error {
			f := splitForm(args)
			if len(f) != 4 {
				return &UsageError{Usage: BookUsage}
			}
			seats, err := strconv.Atoi(f[3])
			if err != nil {
				return &UsageError{Usage: BookUsage}
			}
			return c.CreateBooking(controller.BookingForm{
				PassengerName:  f[0],
				PassengerEmail: f[1],
				PassengerPhone: f[2],
				Seats:          seats,
			})
		},
	},
	"confirm": {
		usage: "/confirm <booking id>",
		help:  "confirm a pending booking",
		run: func(c *controller.Controller, args string) error {
			id, err := parseID(args, "/confirm <booking id>")
			if err != nil {
				return err
			}
			return c.ConfirmBooking(id)
		},
	},
	"cancel": {
		usage: "/cancel <booking id>",
		help:  "cancel a booking",
		run: func(c *controller.Controller, args string) error {
			id, err := parseID(args, "/cancel <booking id>")
			if err != nil {
				return err
			}
			return c.CancelBooking(id)
		},
	},
	"tab": {
		usage: "/tab <search|booking|tickets|admin>",
		help:  "switch section",
		run: func(c *controller.Controller, args string) error {
			tab, err := models.ParseTab(strings.TrimSpace(args))
			if err != nil {
				return &UsageError{Usage: "/tab <search|booking|tickets|admin>"}
			}
			return c.SwitchTab(tab)
		},
	},
	"bookings": {
		usage: "/bookings",
		help:  "show my tickets",
		run: func(c *controller.Controller, _ string) error {
			return c.SwitchTab(models.TabTickets)
		},
	},
	"airport": {
		usage: "/airport <code> | <name> | <city> | <country>",
		help:  "admin: add an airport",
		run: func(c *controller.Controller, args string) error {
			f := splitForm(args)
			if len(f) != 4 {
				return &UsageError{Usage: "/airport <code> | <name> | <city> | <country>"}
			}
			return c.AddAirport(controller.AirportForm{Code: f[0], Name: f[1], City: f[2], Country: f[3]})
		},
	},
	"flight": {
		usage: "/flight <number> | <airline> | <from> | <to> | <departure> | <arrival> | <seats> | <price>",
		help:  "admin: add a flight, times as YYYY-MM-DD HH:MM",
		run: func(c *controller.Controller, args string) error {
			const usage = "/flight <number> | <airline> | <from> | <to> | <departure> | <arrival> | <seats> | <price>"
			f := splitForm(args)
			if len(f) != 8 {
				return &UsageError{Usage: usage}
			}
			seats, err := strconv.Atoi(f[6])
			if err != nil {
				return &UsageError{Usage: usage}
			}
			price, err := strconv.ParseFloat(f[7], 64)
			if err != nil {
				return &UsageError{Usage: usage}
			}
			return c.AddFlight(controller.FlightForm{
				FlightNumber:  f[0],
				Airline:       f[1],
				From:          f[2],
				To:            f[3],
				DepartureTime: f[4],
				ArrivalTime:   f[5],
				TotalSeats:    seats,
				Price:         price,
			})
		},
	},
	"delete": {
		usage: "/delete <flight id>",
		help:  "admin: delete a flight",
		run: func(c *controller.Controller, args string) error {
			id, err := parseID(args, "/delete <flight id>")
			if err != nil {
				return err
			}
			return c.DeleteFlight(id)
		},
	},
}

func parseID(args, usage string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil || id <= 0 {
		return 0, &UsageError{Usage: usage}
	}
	return id, nil
}

func splitForm(args string) []string {
	if strings.TrimSpace(args) == "" {
		return nil
	}
	parts := strings.Split(args, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// Split separates "/name args" into the lower-cased name and the raw arguments.
// A leading slash and a bot mention suffix ("/search@my_bot") are optional.
func Split(line string) (string, string) {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "/")
	name, args, _ := strings.Cut(line, " ")
	if at := strings.Index(name, "@"); at >= 0 {
		name = name[:at]
	}
	return strings.ToLower(name), strings.TrimSpace(args)
}

// Known reports whether name is a registered command
func Known(name string) bool {
	_, ok := commands[name]
	return ok
}

// Execute runs one command line against c. Controller rejections are returned as is.
func Execute(c *controller.Controller, line string) error {
	name, args := Split(line)
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return cmd.run(c, args)
}

// Help lists every command with its usage
func Help() string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		fmt.Fprintf(&sb, "%s · %s\n", commands[name].usage, commands[name].help)
	}
	return strings.TrimRight(sb.String(), "\n")
}
