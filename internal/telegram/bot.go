// Package telegram is the Telegram front end of the booking client.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/apiclient"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/command"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/controller"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/models"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/render"
	"github.com/cx-tal-miterani/flight-booking-system/booking-client/internal/storage"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"github.com/go-telegram/ui/datepicker"
	"github.com/go-telegram/ui/keyboard/inline"
)

// Bot wires Telegram updates to per-chat controllers
type Bot struct {
	b        *bot.Bot
	registry *Registry
}

func New(ctx context.Context, token string, api apiclient.API, kv storage.KV) (*Bot, error) {
	h := &Bot{}

	b, err := bot.New(token, bot.WithDefaultHandler(h.messageHandler))
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	h.b = b
	h.registry = NewRegistry(ctx, api, kv, b)

	b.RegisterHandler(bot.HandlerTypeMessageText, "start", bot.MatchTypeCommand, h.startHandler)
	b.RegisterHandler(bot.HandlerTypeMessageText, "help", bot.MatchTypeCommand, h.helpHandler)
	b.RegisterHandler(bot.HandlerTypeMessageText, "search", bot.MatchTypeCommand, h.searchHandler)
	for _, prefix := range []string{render.PrefixSelect, render.PrefixConfirm, render.PrefixCancel, render.PrefixDelete, render.PrefixTab} {
		b.RegisterHandler(bot.HandlerTypeCallbackQueryData, prefix, bot.MatchTypePrefix, h.callbackHandler)
	}

	return h, nil
}

// Start polls for updates until ctx is cancelled
func (h *Bot) Start(ctx context.Context) {
	h.b.Start(ctx)
	log.Printf("telegram: stopped after serving %d chats", h.registry.Len())
}

func sendText(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		log.Printf("telegram: failed to send message to chat %d: %v", chatID, err)
	}
}

func (h *Bot) startHandler(ctx context.Context, b *bot.Bot, update *tgmodels.Update) {
	if update.Message == nil {
		return
	}
	// first contact restores the stored session and greets
	h.registry.Chat(update.Message.Chat.ID)
}

func (h *Bot) helpHandler(ctx context.Context, b *bot.Bot, update *tgmodels.Update) {
	if update.Message == nil {
		return
	}
	sendText(ctx, b, update.Message.Chat.ID, command.Help())
}

// handle all non-command messages and commands without a dedicated handler
func (h *Bot) messageHandler(ctx context.Context, b *bot.Bot, update *tgmodels.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}
	chatID := update.Message.Chat.ID
	text := update.Message.Text

	if !strings.HasPrefix(text, "/") {
		sendText(ctx, b, chatID, "Send /help to see what I can do.")
		return
	}
	if name, _ := command.Split(text); !command.Known(name) {
		sendText(ctx, b, chatID, "Unknown command. Send /help for the list")
		return
	}

	h.registry.Chat(chatID).Post(func(ctrl *controller.Controller, view *View) {
		reportCommandError(view, command.Execute(ctrl, text))
	})
}

// reportCommandError surfaces parse failures. Controller rejections are already shown.
func reportCommandError(view controller.View, err error) {
	var usage *command.UsageError
	switch {
	case err == nil:
	case errors.As(err, &usage):
		view.Notify(controller.NoticeError, usage.Error())
	case errors.Is(err, command.ErrUnknownCommand):
		view.Notify(controller.NoticeInfo, "Unknown command. Send /help for the list")
	}
}

// searchHandler runs "/search FROM TO DATE" directly and walks through
// airport and date pickers when no arguments are given
func (h *Bot) searchHandler(ctx context.Context, b *bot.Bot, update *tgmodels.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	text := update.Message.Text
	chat := h.registry.Chat(chatID)

	if _, args := command.Split(text); args != "" {
		chat.Post(func(ctrl *controller.Controller, view *View) {
			reportCommandError(view, command.Execute(ctrl, text))
		})
		return
	}

	chat.Post(func(ctrl *controller.Controller, view *View) {
		state := ctrl.State()
		if state.Session == nil {
			view.Notify(controller.NoticeError, "Please log in first")
			return
		}
		if len(state.Airports) == 0 {
			view.Notify(controller.NoticeInfo, "Airports are still loading, try again in a moment")
			return
		}
		h.sendAirportPicker(ctx, b, chatID, state.Airports, "", "Where from?", func(ctx context.Context, from string) {
			h.sendAirportPicker(ctx, b, chatID, state.Airports, from, "Where to?", func(ctx context.Context, to string) {
				h.sendDatePicker(ctx, b, chatID, fmt.Sprintf("%s → %s. Pick the departure date.", from, to), func(date time.Time) {
					chat.Post(func(ctrl *controller.Controller, view *View) {
						ctrl.SearchFlights(from, to, date.Format(controller.DateLayout))
					})
				})
			})
		})
	})
}

func (h *Bot) sendAirportPicker(ctx context.Context, b *bot.Bot, chatID int64, airports []models.AirportRef, exclude, text string, onSelect func(ctx context.Context, code string)) {
	kb := inline.New(b, inline.NoDeleteAfterClick())
	for _, a := range airports {
		if a.Code == exclude {
			continue
		}
		kb.Row().Button(fmt.Sprintf("%s · %s", a.Code, a.City), []byte(a.Code),
			func(ctx context.Context, _ *bot.Bot, _ tgmodels.MaybeInaccessibleMessage, data []byte) {
				onSelect(ctx, string(data))
			})
	}

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text, ReplyMarkup: kb}); err != nil {
		log.Printf("telegram: failed to send airport picker to chat %d: %v", chatID, err)
	}
}

func (h *Bot) sendDatePicker(ctx context.Context, b *bot.Bot, chatID int64, text string, onSelect func(date time.Time)) {
	kb := datepicker.New(b, func(ctx context.Context, _ *bot.Bot, _ tgmodels.MaybeInaccessibleMessage, date time.Time) {
		onSelect(date)
	})

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text, ReplyMarkup: kb}); err != nil {
		log.Printf("telegram: failed to send date picker to chat %d: %v", chatID, err)
	}
}

func (h *Bot) callbackHandler(ctx context.Context, b *bot.Bot, update *tgmodels.Update) {
	q := update.CallbackQuery
	if q == nil {
		return
	}
	if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: q.ID}); err != nil {
		log.Printf("telegram: failed to answer callback: %v", err)
	}

	data := q.Data
	chatID := callbackChatID(q)
	h.registry.Chat(chatID).Post(func(ctrl *controller.Controller, _ *View) {
		if err := dispatchAction(ctrl, data); err != nil {
			log.Printf("telegram: callback %q in chat %d: %v", data, chatID, err)
		}
	})
}

// callbackChatID returns the chat holding the pressed button, which differs
// from the sender in group chats
func callbackChatID(q *tgmodels.CallbackQuery) int64 {
	switch {
	case q.Message.Message != nil:
		return q.Message.Message.Chat.ID
	case q.Message.InaccessibleMessage != nil:
		return q.Message.InaccessibleMessage.Chat.ID
	default:
		return q.From.ID
	}
}

// dispatchAction runs the controller operation encoded in button data
func dispatchAction(ctrl *controller.Controller, data string) error {
	if strings.HasPrefix(data, render.PrefixTab) {
		tab, err := models.ParseTab(strings.TrimPrefix(data, render.PrefixTab))
		if err != nil {
			return err
		}
		return ctrl.SwitchTab(tab)
	}

	prefix, id, ok := render.ParseAction(data)
	if !ok {
		return fmt.Errorf("malformed callback data %q", data)
	}
	switch prefix {
	case render.PrefixSelect:
		return ctrl.SelectFlight(id)
	case render.PrefixConfirm:
		return ctrl.ConfirmBooking(id)
	case render.PrefixCancel:
		return ctrl.CancelBooking(id)
	case render.PrefixDelete:
		return ctrl.DeleteFlight(id)
	}
	return fmt.Errorf("unhandled callback prefix %q", prefix)
}
