// Package console is a line oriented front end of the booking client.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/command"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/controller"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/models"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/render"
)

// View prints controller output to a writer
type View struct {
	w           io.Writer
	affordances controller.Affordances
	tab         models.Tab
	bookings    []models.Booking
	catalog     []models.FlightSummary
	airports    []models.AirportRef
}

func NewView(w io.Writer) *View {
	return &View{w: w}
}

func (v *View) println(text string) {
	fmt.Fprintln(v.w, text)
}

var actionCommands = map[string]string{
	render.PrefixSelect:  "/select",
	render.PrefixConfirm: "/confirm",
	render.PrefixCancel:  "/cancel",
	render.PrefixDelete:  "/delete",
}

// hints spells out actions as the commands that trigger them
func hints(actions []render.Action) string {
	parts := make([]string, 0, len(actions))
	for _, a := range actions {
		if strings.HasPrefix(a.Data, render.PrefixTab) {
			parts = append(parts, a.Label)
			continue
		}
		prefix, id, ok := render.ParseAction(a.Data)
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s %d", a.Label, actionCommands[prefix], id))
	}
	return strings.Join(parts, " · ")
}

func (v *View) item(text string, actions []render.Action) {
	v.println(text)
	if len(actions) > 0 {
		v.println("  → " + hints(actions))
	}
	v.println("")
}

func (v *View) Notify(level controller.NoticeLevel, message string) {
	v.println(render.Notice(level, message))
}

func (v *View) ShowAuth() {
	v.println("Not signed in. Use /login, /register, /demo or /guest. Type help for all commands.")
}

func (v *View) ShowApp(session models.Session) {
	v.tab = ""
	v.println(fmt.Sprintf("Signed in as %s <%s>, role %s", session.DisplayName, session.Email, session.Role))
}

func (v *View) SetAffordances(a controller.Affordances) {
	v.affordances = a
}

func (v *View) SetTab(tab models.Tab) {
	if tab == v.tab {
		return
	}
	v.tab = tab
	v.println("== " + render.TabLabel(tab) + " ==   " + hints(render.TabActions(v.affordances, tab)))
	switch tab {
	case models.TabTickets:
		v.printBookings()
	case models.TabAdmin:
		v.println(render.Airports(v.airports))
		v.printCatalog()
	}
}

func (v *View) ShowAirports(airports []models.AirportRef) {
	v.airports = airports
	if v.tab == models.TabAdmin {
		v.println(render.Airports(airports))
	}
}

func (v *View) ShowFlights(flights []models.FlightSummary) {
	if len(flights) == 0 {
		v.println(render.EmptyFlights)
		return
	}
	for _, f := range flights {
		v.item(render.FlightCard(f), render.FlightActions(f, v.affordances))
	}
}

func (v *View) ShowCatalog(flights []models.FlightSummary) {
	v.catalog = flights
	if v.tab == models.TabAdmin {
		v.printCatalog()
	}
}

func (v *View) printCatalog() {
	if len(v.catalog) == 0 {
		v.println(render.EmptyCatalog)
		return
	}
	for _, f := range v.catalog {
		v.item(render.CatalogEntry(f), render.CatalogActions(f, v.affordances))
	}
}

func (v *View) ShowBookings(bookings []models.Booking) {
	v.bookings = bookings
	if v.tab == models.TabTickets {
		v.printBookings()
	}
}

func (v *View) printBookings() {
	if len(v.bookings) == 0 {
		v.println(render.EmptyBookings)
		return
	}
	for _, b := range v.bookings {
		v.item(render.BookingEntry(b), render.BookingActions(b, v.affordances))
	}
}

func (v *View) PrefillBooking(flight models.FlightSummary) {
	v.println(render.BookingPrompt(flight))
	v.println("Enter " + command.BookUsage)
}

func (v *View) ResetBookingForm() {}
func (v *View) ResetFlightForm()  {}
func (v *View) ResetAirportForm() {}
