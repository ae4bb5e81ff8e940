package console

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/apiclient"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/apiclient/apitest"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/controller"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/dispatch"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/models"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/render"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type session struct {
	srv    *apitest.Server
	kv     storage.KV
	flight models.FlightSummary
}

func newSession(t *testing.T) *session {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)
	srv.AddUser("user@example.com", "secret1", "Test User", models.RoleUser)
	mow := srv.AddAirport("MOW", "Sheremetyevo", "Moscow", "Russia")
	spb := srv.AddAirport("SPB", "Pulkovo", "Saint Petersburg", "Russia")
	flight := srv.AddFlight("SU100", mow, spb, time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC), 3, 5500)
	return &session{srv: srv, kv: storage.NewMemoryKV(), flight: flight}
}

// run feeds script to a fresh console and returns everything it printed
func (s *session) run(t *testing.T, script ...string) string {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := dispatch.NewLoop(ctx, dispatch.DefaultBuffer)
	go loop.Run()

	var out bytes.Buffer
	view := NewView(&out)
	store := storage.NewSessionStore(s.kv, "console")
	ctrl := controller.New(apiclient.New(s.srv.URL), store, view, loop)

	in := strings.NewReader(strings.Join(script, "\n") + "\n")
	require.NoError(t, Run(ctx, in, &out, loop, ctrl))
	return out.String()
}

func TestRun_BookingFlow(t *testing.T) {
	s := newSession(t)

	out := s.run(t,
		"help",
		"login user@example.com secret1",
		"search MOW SPB 2024-06-01",
		fmt.Sprintf("select %d", s.flight.ID),
		"book Ivan Petrov | ivan@example.com | +79990001122 | 2",
		"tab tickets",
		"quit",
		"search MOW SPB 2024-06-01",
	)

	booking, ok := s.srv.Booking(s.flight.ID + 1)
	require.True(t, ok)

	assert.Contains(t, out, "Not signed in")
	assert.Contains(t, out, "/book <name>")
	assert.Contains(t, out, "Welcome, Test User")
	assert.Contains(t, out, "== "+render.TabLabel(models.TabSearch)+" ==")
	assert.Contains(t, out, "✈ SU100")
	assert.Contains(t, out, fmt.Sprintf("Select flight: /select %d", s.flight.ID))
	assert.Contains(t, out, "Booking SU100")
	assert.Contains(t, out, "Booking "+booking.BookingNumber+" created")
	assert.Contains(t, out, fmt.Sprintf("Cancel: /cancel %d", booking.ID))
	assert.Equal(t, 1, s.srv.Requests("POST /bookings/"))
	assert.Equal(t, 1, s.srv.Requests("GET /flights/{id}"))
}

func TestRun_ReportsBadInput(t *testing.T) {
	s := newSession(t)

	out := s.run(t, "", "fly away", "login user@example.com", fmt.Sprintf("select %d", s.flight.ID))

	assert.Contains(t, out, "Unknown command")
	assert.Contains(t, out, "/login <email> <password>")
	assert.Contains(t, out, render.Notice(controller.NoticeError, "Please log in first"))
}

func TestRun_RestoresStoredSession(t *testing.T) {
	s := newSession(t)
	s.run(t, "login user@example.com secret1")

	out := s.run(t, "exit")

	assert.NotContains(t, out, "Not signed in")
	assert.Contains(t, out, "Signed in as Test User <user@example.com>")
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	loop := dispatch.NewLoop(ctx, 0)
	go loop.Run()

	var out bytes.Buffer
	store := storage.NewSessionStore(storage.NewMemoryKV(), "")
	ctrl := controller.New(apiclient.New("http://127.0.0.1:1"), store, NewView(&out), loop)

	reader, writer := io.Pipe()
	defer writer.Close()

	errCh := make(chan error, 1)
	go func() { errCh <- Run(ctx, reader, &out, loop, ctrl) }()

	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("console did not stop")
	}
}

func TestHints(t *testing.T) {
	actions := []render.Action{
		{Label: "Confirm", Data: render.PrefixConfirm + "3"},
		{Label: "• Search", Data: render.PrefixTab + "search"},
		{Label: "broken", Data: "NOPE"},
	}

	assert.Equal(t, "Confirm: /confirm 3 · • Search", hints(actions))
}
