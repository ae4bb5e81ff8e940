package telegram

import (
	"context"
	"fmt"
	"log"

	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/command"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/controller"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/models"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/render"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

// maxCards caps how many item messages one list produces
const maxCards = 10

// Sender is the part of *bot.Bot the view needs
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*tgmodels.Message, error)
}

// View renders controller output as chat messages. It only runs on the chat's event loop.
type View struct {
	ctx    context.Context
	sender Sender
	chatID int64

	signedIn    bool
	affordances controller.Affordances
	tab         models.Tab
	airports    []models.AirportRef
	catalog     []models.FlightSummary
	bookings    []models.Booking
	prefilled   *models.FlightSummary
}

func NewView(ctx context.Context, sender Sender, chatID int64) *View {
	return &View{ctx: ctx, sender: sender, chatID: chatID}
}

func keyboard(actions []render.Action) *tgmodels.InlineKeyboardMarkup {
	row := make([]tgmodels.InlineKeyboardButton, len(actions))
	for i, a := range actions {
		row[i] = tgmodels.InlineKeyboardButton{Text: a.Label, CallbackData: a.Data}
	}
	return &tgmodels.InlineKeyboardMarkup{InlineKeyboard: [][]tgmodels.InlineKeyboardButton{row}}
}

func (v *View) send(text string, actions []render.Action) {
	params := &bot.SendMessageParams{ChatID: v.chatID, Text: text}
	if len(actions) > 0 {
		params.ReplyMarkup = keyboard(actions)
	}
	if _, err := v.sender.SendMessage(v.ctx, params); err != nil {
		log.Printf("telegram: failed to send message to chat %d: %v", v.chatID, err)
	}
}

func (v *View) Notify(level controller.NoticeLevel, message string) {
	v.send(render.Notice(level, message), nil)
}

func (v *View) ShowAuth() {
	v.signedIn = false
	v.tab = ""
	v.prefilled = nil
	v.send("Welcome to flight booking!\n\n"+
		"/login <email> <password> · sign in\n"+
		"/register <email> <password> <name> · create an account\n"+
		"/demo · try the demo account\n"+
		"/guest · browse without an account\n\n"+
		"/help lists every command", nil)
}

// ShowApp starts a new session. The next SetTab always sends the section menu.
func (v *View) ShowApp(session models.Session) {
	v.signedIn = true
	v.tab = ""
	name := session.DisplayName
	if name == "" {
		name = session.Email
	}
	v.send(fmt.Sprintf("Signed in as %s (%s)", name, session.Role), nil)
}

func (v *View) SetAffordances(a controller.Affordances) {
	v.affordances = a
}

// SetTab sends the section menu and the section content when the tab changes
func (v *View) SetTab(tab models.Tab) {
	if tab == v.tab {
		return
	}
	v.tab = tab
	if !v.signedIn {
		return
	}
	v.send("Section: "+render.TabLabel(tab), render.TabActions(v.affordances, tab))

	switch tab {
	case models.TabSearch:
		v.send("Send /search to pick a route, or /search <from> <to> <YYYY-MM-DD>", nil)
	case models.TabTickets:
		v.sendBookings()
	case models.TabAdmin:
		v.send(render.Airports(v.airports), nil)
		v.sendCatalog()
	}
}

func (v *View) ShowAirports(airports []models.AirportRef) {
	v.airports = airports
	if v.tab == models.TabAdmin {
		v.send(render.Airports(airports), nil)
	}
}

func (v *View) ShowFlights(flights []models.FlightSummary) {
	if len(flights) == 0 {
		v.send(render.EmptyFlights, nil)
		return
	}
	for i, f := range flights {
		if i == maxCards {
			v.send(fmt.Sprintf("…and %d more. Narrow the search to see them.", len(flights)-maxCards), nil)
			break
		}
		v.send(render.FlightCard(f), render.FlightActions(f, v.affordances))
	}
}

func (v *View) ShowCatalog(flights []models.FlightSummary) {
	v.catalog = flights
	if v.tab == models.TabAdmin {
		v.sendCatalog()
	}
}

func (v *View) sendCatalog() {
	if len(v.catalog) == 0 {
		v.send(render.EmptyCatalog, nil)
		return
	}
	for i, f := range v.catalog {
		if i == maxCards {
			v.send(fmt.Sprintf("…and %d more flights", len(v.catalog)-maxCards), nil)
			break
		}
		v.send(render.CatalogEntry(f), render.CatalogActions(f, v.affordances))
	}
}

func (v *View) ShowBookings(bookings []models.Booking) {
	v.bookings = bookings
	if v.tab == models.TabTickets {
		v.sendBookings()
	}
}

func (v *View) sendBookings() {
	if len(v.bookings) == 0 {
		v.send(render.EmptyBookings, nil)
		return
	}
	for i, b := range v.bookings {
		if i == maxCards {
			v.send(fmt.Sprintf("…and %d more bookings", len(v.bookings)-maxCards), nil)
			break
		}
		v.send(render.BookingEntry(b), render.BookingActions(b, v.affordances))
	}
}

// PrefillBooking repeats the prompt only when availability changed
func (v *View) PrefillBooking(flight models.FlightSummary) {
	if v.prefilled != nil && v.prefilled.ID == flight.ID && v.prefilled.AvailableSeats == flight.AvailableSeats {
		return
	}
	v.prefilled = &flight
	v.send(render.BookingPrompt(flight)+"\n\nSend "+command.BookUsage, nil)
}

func (v *View) ResetBookingForm() {
	v.prefilled = nil
}

// Chat input keeps no admin form state between messages
func (v *View) ResetFlightForm()  {}
func (v *View) ResetAirportForm() {}
