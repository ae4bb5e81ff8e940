package models

import "fmt"

// Tab identifies one of the fixed views of the application
type Tab string

const (
	TabSearch  Tab = "search"
	TabBooking Tab = "booking"
	TabTickets Tab = "tickets"
	TabAdmin   Tab = "admin"
)

// Tabs lists every tab in display order
var Tabs = []Tab{TabSearch, TabBooking, TabTickets, TabAdmin}

// ParseTab validates a tab name
func ParseTab(s string) (Tab, error) {
	for _, t := range Tabs {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tab: %s", s)
}

// ReadOnly reports whether the tab stays visible for guests
func (t Tab) ReadOnly() bool {
	return t == TabSearch
}
