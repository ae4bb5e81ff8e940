// Package controller reconciles the session, the selected flight and tab navigation
// with data arriving asynchronously from the booking API.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/apiclient"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/models"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/storage"
	"github.com/google/uuid"
)

const (
	DemoEmail = "demo@example.com"
	DemoToken = "demo-token-demo"

	MinPasswordLength = 6

	storageTimeout = 5 * time.Second
)

// Scheduler runs work off the event loop and delivers done back onto it
type Scheduler interface {
	Go(work func(ctx context.Context), done func())
}

// SessionStore persists the session between runs
type SessionStore interface {
	Save(ctx context.Context, sess models.Session) error
	Load(ctx context.Context) (*models.Session, error)
	Clear(ctx context.Context) error
}

// Controller owns the state of one client. Every method must be called on the event loop.
type Controller struct {
	api   apiclient.API
	store SessionStore
	view  View
	sched Scheduler
	state State
}

// New creates a controller in the anonymous phase
func New(api apiclient.API, store SessionStore, view View, sched Scheduler) *Controller {
	return &Controller{
		api:   api,
		store: store,
		view:  view,
		sched: sched,
		state: State{Phase: PhaseAnonymous, Tab: models.TabSearch},
	}
}

// State returns a snapshot of the controller state. Slices are shared and must not be modified.
func (c *Controller) State() State {
	s := c.state
	if s.Session != nil {
		sess := *s.Session
		s.Session = &sess
	}
	return s
}

// request runs call off the loop with the session token and hands its error to done.
// Completions from an older epoch are dropped.
func (c *Controller) request(name string, call func(ctx context.Context) error, done func(err error)) {
	epoch := c.state.Epoch
	token := ""
	if c.state.Session != nil {
		token = c.state.Session.Token
	}

	var err error
	c.sched.Go(func(ctx context.Context) {
		err = call(apiclient.WithToken(ctx, token))
	}, func() {
		if epoch != c.state.Epoch {
			log.Printf("controller: dropping stale %s completion (epoch %d, now %d)", name, epoch, c.state.Epoch)
			return
		}
		done(err)
	})
}

func (c *Controller) reject(err error) error {
	c.view.Notify(NoticeError, Message(err, err.Error()))
	return err
}

func (c *Controller) fail(action string, err error, fallback string) {
	if status := apiclient.StatusOf(err); status != 0 {
		log.Printf("controller: %s failed with status %d: %v", action, status, err)
	} else {
		log.Printf("controller: %s failed: %v", action, err)
	}
	c.view.Notify(NoticeError, Message(err, fallback))
}

func (c *Controller) storageContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storageTimeout)
}

// Restore resumes a stored session, or shows the login screen when none exists
func (c *Controller) Restore() {
	ctx, cancel := c.storageContext()
	defer cancel()

	sess, err := c.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("controller: failed to restore session: %v", err)
		}
		c.view.ShowAuth()
		c.ApplyRoleRestrictions()
		return
	}
	log.Printf("controller: restored session for %s (%s)", sess.Email, sess.Role)
	c.startSession(*sess)
}

func (c *Controller) canStartLogin() error {
	switch c.state.Phase {
	case PhaseAuthenticating:
		return ValidationError("Login is already in progress")
	case PhaseAuthenticated:
		return ValidationError("Already logged in. Log out first")
	}
	return nil
}

// Login authenticates against the API. The role is taken from the server response.
func (c *Controller) Login(email, password string) error {
	if err := c.canStartLogin(); err != nil {
		return c.reject(err)
	}
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return c.reject(ValidationError("Email and password are required"))
	}

	c.state.Phase = PhaseAuthenticating
	req := models.LoginRequest{Email: email, Password: password}

	var resp *models.AuthResponse
	c.request("login", func(ctx context.Context) error {
		var err error
		resp, err = c.api.Login(ctx, req)
		return err
	}, func(err error) {
		c.finishAuth(resp, err, "Login failed")
	})
	return nil
}

// Register creates an account and logs into it
func (c *Controller) Register(name, email, password string) error {
	if err := c.canStartLogin(); err != nil {
		return c.reject(err)
	}
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return c.reject(ValidationError("Name, email and password are required"))
	}
	if len(password) < MinPasswordLength {
		return c.reject(ValidationError(fmt.Sprintf("Password must be at least %d characters", MinPasswordLength)))
	}

	c.state.Phase = PhaseAuthenticating
	req := models.RegisterRequest{Name: name, Email: email, Password: password}

	var resp *models.AuthResponse
	c.request("register", func(ctx context.Context) error {
		var err error
		resp, err = c.api.Register(ctx, req)
		return err
	}, func(err error) {
		c.finishAuth(resp, err, "Registration failed")
	})
	return nil
}

func (c *Controller) finishAuth(resp *models.AuthResponse, err error, fallback string) {
	if err == nil && (resp == nil || resp.AccessToken == "") {
		err = errors.New("response carries no access token")
	}
	if err != nil {
		c.state.Phase = PhaseAnonymous
		c.fail("authentication", &AuthError{Message: Message(err, fallback)}, fallback)
		return
	}
	c.startSession(resp.Session())
}

// DemoLogin starts a local demo session without contacting the server
func (c *Controller) DemoLogin() error {
	if err := c.canStartLogin(); err != nil {
		return c.reject(err)
	}
	c.startSession(models.Session{
		Email:       DemoEmail,
		DisplayName: "Demo User",
		Token:       DemoToken,
		Role:        models.RoleUser,
	})
	return nil
}

// GuestLogin starts a read-only local session
func (c *Controller) GuestLogin() error {
	if err := c.canStartLogin(); err != nil {
		return c.reject(err)
	}
	c.startSession(models.Session{
		Email:       "guest",
		DisplayName: "Guest",
		Token:       "guest-" + uuid.NewString(),
		Role:        models.RoleGuest,
	})
	return nil
}

func (c *Controller) startSession(sess models.Session) {
	c.state.Epoch++
	c.state.Session = &sess
	c.state.Phase = PhaseAuthenticated
	c.state.SelectedFlightID = 0
	c.state.Bookings = nil

	ctx, cancel := c.storageContext()
	defer cancel()
	if err := c.store.Save(ctx, sess); err != nil {
		log.Printf("controller: failed to persist session: %v", err)
	}

	c.view.ShowApp(sess)
	c.ApplyRoleRestrictions()
	if sess.IsGuest() {
		c.view.Notify(NoticeInfo, "Guest mode: browsing only")
	} else {
		c.view.Notify(NoticeSuccess, fmt.Sprintf("Welcome, %s", displayName(sess)))
	}

	c.LoadAirports()
	c.LoadCatalog()
	c.LoadMyBookings()
}

func displayName(sess models.Session) string {
	if sess.DisplayName != "" {
		return sess.DisplayName
	}
	return sess.Email
}

// Logout drops the session locally. The server is not contacted.
func (c *Controller) Logout() {
	c.state.Epoch++
	c.state.Session = nil
	c.state.Phase = PhaseAnonymous
	c.state.SelectedFlightID = 0
	c.state.Results = nil
	c.state.Bookings = nil

	ctx, cancel := c.storageContext()
	defer cancel()
	if err := c.store.Clear(ctx); err != nil {
		log.Printf("controller: failed to clear stored session: %v", err)
	}

	c.view.ResetBookingForm()
	c.view.ShowBookings(nil)
	c.view.ShowAuth()
	c.ApplyRoleRestrictions()
	c.view.Notify(NoticeInfo, "Logged out")
}

// ApplyRoleRestrictions pushes the affordances of the current session to the view.
// A hidden active tab falls back to search.
func (c *Controller) ApplyRoleRestrictions() Affordances {
	a := AffordancesFor(c.state.Session)
	c.view.SetAffordances(a)
	if !a.TabVisible(c.state.Tab) {
		c.state.Tab = models.TabSearch
	}
	c.view.SetTab(c.state.Tab)
	return a
}

// SwitchTab changes the active tab. Tabs hidden for the session are refused.
func (c *Controller) SwitchTab(tab models.Tab) error {
	if !AffordancesFor(c.state.Session).TabVisible(tab) {
		return c.reject(ValidationError("This section requires a signed in account"))
	}
	c.state.Tab = tab
	c.view.SetTab(tab)
	if tab == models.TabTickets {
		c.LoadMyBookings()
	}
	return nil
}

func (c *Controller) requireSession() error {
	if c.state.Session == nil {
		return ValidationError("Please log in first")
	}
	return nil
}

func (c *Controller) requireAccount() error {
	if err := c.requireSession(); err != nil {
		return err
	}
	if c.state.Session.IsGuest() {
		return ValidationError("Guest mode is read-only. Log in to continue")
	}
	return nil
}
