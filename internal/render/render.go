// Package render turns controller data into plain text shared by the front ends.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/controller"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/models"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/pkg/currency"
)

const TimeLayout = "02.01.2006 15:04"

const (
	EmptyFlights  = "No flights found for this route and date"
	EmptyCatalog  = "No flights in the system"
	EmptyBookings = "You have no bookings yet"
	EmptyAirports = "No airports yet"
)

// Action prefixes carried in button data
const (
	PrefixSelect  = "SELECT_"
	PrefixConfirm = "CONFIRM_"
	PrefixCancel  = "CANCEL_"
	PrefixDelete  = "DELETE_"
	PrefixTab     = "TAB_"
)

// Action is a control offered next to a rendered item
type Action struct {
	Label string
	Data  string
}

func action(label, prefix string, id int) Action {
	return Action{Label: label, Data: prefix + strconv.Itoa(id)}
}

// ParseAction splits button data into its prefix and numeric id
func ParseAction(data string) (string, int, bool) {
	for _, prefix := range []string{PrefixSelect, PrefixConfirm, PrefixCancel, PrefixDelete} {
		if strings.HasPrefix(data, prefix) {
			id, err := strconv.Atoi(strings.TrimPrefix(data, prefix))
			if err != nil || id <= 0 {
				return "", 0, false
			}
			return prefix, id, true
		}
	}
	return "", 0, false
}

func route(f models.FlightSummary) string {
	return fmt.Sprintf("%s (%s) → %s (%s)",
		f.DepartureAirport.City, f.DepartureAirport.Code,
		f.ArrivalAirport.City, f.ArrivalAirport.Code)
}

// FlightCard renders one search result
func FlightCard(f models.FlightSummary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "✈ %s · %s\n", f.FlightNumber, f.Airline)
	fmt.Fprintf(&sb, "%s\n", route(f))
	fmt.Fprintf(&sb, "Departure: %s\n", f.DepartureTime.Format(TimeLayout))
	fmt.Fprintf(&sb, "Arrival: %s\n", f.ArrivalTime.Format(TimeLayout))
	fmt.Fprintf(&sb, "Seats: %d/%d\n", f.AvailableSeats, f.TotalSeats)
	fmt.Fprintf(&sb, "Price: %s", currency.FormatRUB(f.Price))
	return sb.String()
}

// FlightActions lists the controls offered for a search result
func FlightActions(f models.FlightSummary, a controller.Affordances) []Action {
	if !a.Book || f.AvailableSeats == 0 {
		return nil
	}
	return []Action{action("Select flight", PrefixSelect, f.ID)}
}

// CatalogEntry renders one flight of the admin panel
func CatalogEntry(f models.FlightSummary) string {
	return fmt.Sprintf("#%d %s · %s\n%s, %s\nSeats: %d/%d · %s",
		f.ID, f.FlightNumber, f.Airline,
		route(f), f.DepartureTime.Format(TimeLayout),
		f.AvailableSeats, f.TotalSeats, currency.FormatRUB(f.Price))
}

func CatalogActions(f models.FlightSummary, a controller.Affordances) []Action {
	if !a.Admin {
		return nil
	}
	return []Action{action("Delete", PrefixDelete, f.ID)}
}

var statusLabels = map[models.BookingStatus]string{
	models.BookingStatusPending:   "⏳ pending",
	models.BookingStatusConfirmed: "✅ confirmed",
	models.BookingStatusCancelled: "❌ cancelled",
	models.BookingStatusCompleted: "🏁 completed",
}

// BookingEntry renders one booking of the session
func BookingEntry(b models.Booking) string {
	status, ok := statusLabels[b.Status]
	if !ok {
		status = string(b.Status)
	}
	return fmt.Sprintf("🎫 %s · %s\nFlight #%d\nPassenger: %s, %s, %s\nSeats: %d · Total: %s",
		b.BookingNumber, status, b.FlightID,
		b.PassengerName, b.PassengerEmail, b.PassengerPhone,
		b.SeatsCount, currency.FormatRUB(b.TotalPrice))
}

// BookingActions offers Confirm only for pending bookings and Cancel for pending or confirmed ones
func BookingActions(b models.Booking, a controller.Affordances) []Action {
	if !a.ManageBookings {
		return nil
	}
	var actions []Action
	if b.CanConfirm() {
		actions = append(actions, action("Confirm", PrefixConfirm, b.ID))
	}
	if b.CanCancel() {
		actions = append(actions, action("Cancel", PrefixCancel, b.ID))
	}
	return actions
}

func Airports(airports []models.AirportRef) string {
	if len(airports) == 0 {
		return EmptyAirports
	}
	lines := make([]string, len(airports))
	for i, a := range airports {
		lines[i] = fmt.Sprintf("%s · %s, %s, %s", a.Code, a.Name, a.City, a.Country)
	}
	return strings.Join(lines, "\n")
}

var tabLabels = map[models.Tab]string{
	models.TabSearch:  "🔍 Search",
	models.TabBooking: "📝 Booking",
	models.TabTickets: "🎫 My tickets",
	models.TabAdmin:   "⚙ Admin",
}

// TabLabel returns the display name of a tab
func TabLabel(t models.Tab) string {
	return tabLabels[t]
}

// TabActions lists the tabs visible under a, marking the active one
func TabActions(a controller.Affordances, active models.Tab) []Action {
	var actions []Action
	for _, t := range models.Tabs {
		if !a.TabVisible(t) {
			continue
		}
		label := tabLabels[t]
		if t == active {
			label = "• " + label
		}
		actions = append(actions, Action{Label: label, Data: PrefixTab + string(t)})
	}
	return actions
}

// BookingPrompt describes the prefilled booking form for a selected flight
func BookingPrompt(f models.FlightSummary) string {
	return fmt.Sprintf("Booking %s, %s\nDeparture: %s\nAvailable seats: %d · %s per seat",
		f.FlightNumber, route(f), f.DepartureTime.Format(TimeLayout),
		f.AvailableSeats, currency.FormatRUB(f.Price))
}

// Notice prefixes a message with its level marker
func Notice(level controller.NoticeLevel, message string) string {
	switch level {
	case controller.NoticeSuccess:
		return "✅ " + message
	case controller.NoticeError:
		return "⚠ " + message
	default:
		return "ℹ " + message
	}
}
