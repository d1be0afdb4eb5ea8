package bot

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/letsssgooo/gateQuiz/internal/auth"
	"github.com/letsssgooo/gateQuiz/internal/client"
	"github.com/letsssgooo/gateQuiz/internal/events/fetcher"
	"github.com/letsssgooo/gateQuiz/internal/events/sender"
	"github.com/letsssgooo/gateQuiz/internal/telegram"
	"github.com/letsssgooo/gateQuiz/internal/theme"
)

const (
	updatesBuffer  = 100
	retryDelay     = 3 * time.Second
	queueIdle      = time.Minute
	DefaultChatTTL = 24 * time.Hour
)

// files скачивает присланные пользователем документы.
type files interface {
	GetFile(ctx context.Context, fileID string) (string, error)
	DownloadFile(ctx context.Context, filePath string) ([]byte, error)
}

// Bot реализует Telegram клиент генератора квизов GATE.
type Bot struct {
	fetcher fetcher.Fetcher
	sender  sender.Sender
	files   files
	api     client.API
	themes  *theme.Store
	auth    *auth.BotAuth

	pollTimeout int
	chatTTL     time.Duration
	queueIdle   time.Duration

	// mu защищает chats и lastSeen каждого чата
	mu    sync.Mutex
	chats map[int64]*chatState

	// фоновые запросы к бэкенду
	wg sync.WaitGroup
}

// Options содержит зависимости бота.
type Options struct {
	Telegram    telegram.Client
	API         client.API
	Themes      *theme.Store
	Auth        *auth.BotAuth
	PollTimeout int           // секунды long polling
	ChatTTL     time.Duration // чат без обновлений дольше ChatTTL забывается, при 0 берётся DefaultChatTTL
}

// NewBot создаёт нового бота.
func NewBot(opts Options) *Bot {
	a := opts.Auth
	if a == nil {
		a, _ = auth.NewBotAuth(nil)
	}

	ttl := opts.ChatTTL
	if ttl <= 0 {
		ttl = DefaultChatTTL
	}

	return &Bot{
		fetcher:     fetcher.NewTelegramFetcher(opts.Telegram),
		sender:      sender.NewSender(opts.Telegram),
		files:       opts.Telegram,
		api:         opts.API,
		themes:      opts.Themes,
		auth:        a,
		pollTimeout: opts.PollTimeout,
		chatTTL:     ttl,
		queueIdle:   queueIdle,
		chats:       make(map[int64]*chatState),
	}
}

// Run запускает бота (long polling) и блокируется до отмены ctx.
// Одна горутина получает обновления, вторая раздаёт их очередям чатов;
// обновления одного чата обрабатываются по порядку, разные чаты параллельно.
func (b *Bot) Run(ctx context.Context) error {
	updates := make(chan telegram.Update, updatesBuffer)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(updates)

		return b.poll(ctx, updates)
	})

	g.Go(func() error {
		b.sweep(ctx)

		return nil
	})

	g.Go(func() error {
		d := newDispatcher()

		for update := range updates {
			chatID, ok := chatOf(update)
			if !ok {
				continue
			}

			if q, created := d.push(chatID, update); created {
				g.Go(func() error {
					b.work(ctx, d, chatID, q)

					return nil
				})
			}
		}

		return nil
	})

	err := g.Wait()
	b.wg.Wait()

	return err
}

// work обрабатывает очередь одного чата по порядку.
// Простаивающая дольше queueIdle очередь удаляется, и обработчик завершается.
func (b *Bot) work(ctx context.Context, d *dispatcher, chatID int64, q *chatQueue) {
	idle := time.NewTimer(b.queueIdle)
	defer idle.Stop()

	for {
		for {
			update, ok := d.pop(q)
			if !ok {
				break
			}

			b.handle(ctx, update)
		}

		idle.Reset(b.queueIdle)

		select {
		case <-ctx.Done():
			return
		case <-q.wake:
		case <-idle.C:
			if d.release(chatID, q) {
				return
			}
		}
	}
}

func (b *Bot) sweep(ctx context.Context) {
	ticker := time.NewTicker(max(b.chatTTL/4, time.Second))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := b.evictIdle(now); n != 0 {
				slog.Debug("evicted idle chats", "count", n)
			}
		}
	}
}

// evictIdle забывает чаты без обновлений дольше chatTTL.
// Чаты, которые сейчас обрабатываются или ждут ответа бэкенда, остаются.
func (b *Bot) evictIdle(now time.Time) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0

	for chatID, cs := range b.chats {
		if now.Sub(cs.lastSeen) <= b.chatTTL || !cs.mu.TryLock() {
			continue
		}

		busy := cs.busy()
		cs.mu.Unlock()

		if !busy {
			delete(b.chats, chatID)
			n++
		}
	}

	return n
}

func (b *Bot) poll(ctx context.Context, out chan<- telegram.Update) error {
	for {
		batch, err := b.fetcher.Fetch(ctx, b.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			slog.Error("failed to get updates", "err", err)

			select {
			case <-time.After(retryDelay):
				continue
			case <-ctx.Done():
				return nil
			}
		}

		for _, update := range batch {
			select {
			case out <- update:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

func (b *Bot) handle(ctx context.Context, update telegram.Update) {
	if err := b.HandleUpdate(ctx, update); err != nil {
		chatID, _ := chatOf(update)
		slog.Error("failed to handle update", "update_id", update.UpdateID, "chat_id", chatID, "err", err)
	}
}

// Wait ждёт завершения фоновых запросов к бэкенду.
func (b *Bot) Wait() {
	b.wg.Wait()
}

// HandleUpdate обрабатывает одно обновление.
func (b *Bot) HandleUpdate(ctx context.Context, update telegram.Update) error {
	var user *telegram.User

	switch {
	case update.CallbackQuery != nil:
		user = update.CallbackQuery.From
	case update.Message != nil:
		user = update.Message.From
	default:
		return nil
	}

	chatID, ok := chatOf(update)
	if !ok {
		return nil
	}

	if err := b.auth.CheckUser(user); err != nil {
		if !errors.Is(err, auth.ErrForbidden) {
			return err
		}

		slog.Info("access denied", "chat_id", chatID, "err", err)

		if update.CallbackQuery != nil {
			return b.sender.Notify(ctx, update.CallbackQuery.ID, msgForbidden)
		}

		_, err = b.sender.Message(ctx, chatID, msgForbidden, nil)

		return err
	}

	cs := b.chat(chatID)

	cs.mu.Lock()
	defer cs.mu.Unlock()

	if update.CallbackQuery != nil {
		return b.handleCallback(ctx, chatID, cs, update.CallbackQuery)
	}

	return b.handleMessage(ctx, chatID, cs, update.Message)
}

// chat возвращает состояние чата, создавая его при первом обращении, и отмечает активность.
func (b *Bot) chat(chatID int64) *chatState {
	b.mu.Lock()
	defer b.mu.Unlock()

	cs, ok := b.chats[chatID]
	if !ok {
		cs = newChatState()
		b.chats[chatID] = cs
	}

	cs.lastSeen = time.Now()

	return cs
}

func chatOf(update telegram.Update) (int64, bool) {
	switch {
	case update.CallbackQuery != nil:
		if m := update.CallbackQuery.Message; m != nil && m.Chat != nil {
			return m.Chat.ID, true
		}

		if update.CallbackQuery.From != nil {
			return update.CallbackQuery.From.ID, true
		}
	case update.Message != nil && update.Message.Chat != nil:
		return update.Message.Chat.ID, true
	}

	return 0, false
}
