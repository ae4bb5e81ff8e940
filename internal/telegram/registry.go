package telegram

import (
	"context"
	"log"
	"strconv"
	"sync"

	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/apiclient"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/controller"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/dispatch"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/storage"
)

// Chat is one conversation: its own event loop, controller and view
type Chat struct {
	ID   int64
	loop *dispatch.Loop
	ctrl *controller.Controller
	view *View
}

// Post runs fn with the chat's controller on the chat's event loop
func (c *Chat) Post(fn func(ctrl *controller.Controller, view *View)) bool {
	return c.loop.Post(func() { fn(c.ctrl, c.view) })
}

// Do is Post that waits for fn to finish
func (c *Chat) Do(fn func(ctrl *controller.Controller, view *View)) bool {
	return c.loop.Do(func() { fn(c.ctrl, c.view) })
}

// Registry creates chats on first contact. Each chat restores its stored session.
type Registry struct {
	ctx    context.Context
	api    apiclient.API
	kv     storage.KV
	sender Sender

	mu    sync.Mutex
	chats map[int64]*Chat
}

func NewRegistry(ctx context.Context, api apiclient.API, kv storage.KV, sender Sender) *Registry {
	return &Registry{
		ctx:    ctx,
		api:    api,
		kv:     kv,
		sender: sender,
		chats:  make(map[int64]*Chat),
	}
}

// Chat returns the chat for chatID, starting it if needed
func (r *Registry) Chat(chatID int64) *Chat {
	r.mu.Lock()
	defer r.mu.Unlock()

	if chat, ok := r.chats[chatID]; ok {
		return chat
	}

	loop := dispatch.NewLoop(r.ctx, dispatch.DefaultBuffer)
	view := NewView(r.ctx, r.sender, chatID)
	store := storage.NewSessionStore(r.kv, "chat:"+strconv.FormatInt(chatID, 10))
	chat := &Chat{
		ID:   chatID,
		loop: loop,
		ctrl: controller.New(r.api, store, view, loop),
		view: view,
	}
	r.chats[chatID] = chat

	go loop.Run()
	loop.Post(chat.ctrl.Restore)
	log.Printf("telegram: started chat %d (total: %d)", chatID, len(r.chats))

	return chat
}

// Len returns the number of active chats
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.chats)
}
