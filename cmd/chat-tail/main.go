// Command chat-tail is a terminal chat client. It logs in, opens a channel by
// name, prints its messages and typing indicators, and sends every stdin line
// as a message.
//
// Usage:
//
//	CHAT_PASSWORD=... chat-tail -server http://localhost:8080 -email me@example.com -channel general
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/teamhub-backend/internal/chatclient"
	"github.com/heartmarshall/teamhub-backend/internal/chatclient/remote"
	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "server base URL")
	email := flag.String("email", "", "login email")
	channel := flag.String("channel", "", "channel name")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *server, *email, os.Getenv("CHAT_PASSWORD"), *channel); err != nil {
		fmt.Fprintf(os.Stderr, "chat-tail: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, server, email, password, channelName string) error {
	if email == "" || password == "" || channelName == "" {
		return fmt.Errorf("-email, -channel and CHAT_PASSWORD are required")
	}

	client, err := remote.New(server, remote.WithLogger(logger))
	if err != nil {
		return err
	}
	defer client.Close()

	if _, err := client.Login(ctx, email, password); err != nil {
		return err
	}

	store := chatclient.NewStore()
	clock := clockwork.NewRealClock()
	session := chatclient.NewSession(client, store, chatclient.Options{
		Logger: logger,
		Clock:  clock,
		Notifier: chatclient.NotifierFunc(func(op string, err error) {
			fmt.Fprintf(os.Stderr, "! %s: %v\n", op, err)
		}),
	})
	defer session.Close()

	if err := session.Load(ctx); err != nil {
		return err
	}

	ch, err := findChannel(store.Channels(), channelName)
	if err != nil {
		return err
	}

	conv := chatclient.NewConversation(session)
	var (
		mu         sync.Mutex
		printed    = make(map[uuid.UUID]struct{})
		lastTyping string
	)
	store.OnChange(func(c chatclient.Change) {
		if c.ChannelID != ch.ID {
			return
		}
		switch c.Kind {
		case chatclient.ChangeMessages:
			if c.MessageID == uuid.Nil {
				return
			}
			if m, ok := store.Message(c.MessageID); ok && m.ParentID == nil {
				mu.Lock()
				if _, seen := printed[m.ID]; !seen {
					printed[m.ID] = struct{}{}
					printMessage(store, m)
				}
				mu.Unlock()
			}
		case chatclient.ChangeTyping:
			names := strings.Join(conv.TypingNames(ctx), ", ")
			mu.Lock()
			if names != "" && names != lastTyping {
				fmt.Printf("… %s typing\n", names)
			}
			lastTyping = names
			mu.Unlock()
		}
	})

	if err := session.SelectChannel(ctx, ch); err != nil {
		return err
	}
	mu.Lock()
	for _, m := range store.Messages(ch.ID) {
		if _, seen := printed[m.ID]; !seen {
			printed[m.ID] = struct{}{}
			printMessage(store, m)
		}
	}
	mu.Unlock()

	composer := chatclient.NewComposer(chatclient.SessionHandlers(session), clock)
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			composer.Keystroke(ctx)
			if err := composer.Submit(ctx, line); err != nil {
				logger.Debug("send failed", slog.String("error", err.Error()))
			}
			if ids := visibleIDs(store.Messages(ch.ID)); len(ids) > 0 {
				_ = conv.MarkVisible(ctx, ids)
			}
		}
	}
}

func findChannel(channels []domain.Channel, name string) (domain.Channel, error) {
	for _, ch := range chatclient.FilterChannels(channels, chatclient.TabAll, name) {
		if strings.EqualFold(ch.Name, name) {
			return ch, nil
		}
	}
	return domain.Channel{}, fmt.Errorf("channel %q: %w", name, domain.ErrNotFound)
}

// visibleIDs returns the ids of the last screenful of messages.
func visibleIDs(msgs []domain.Message) []uuid.UUID {
	const screen = 20
	if len(msgs) > screen {
		msgs = msgs[len(msgs)-screen:]
	}
	ids := make([]uuid.UUID, len(msgs))
	for i, m := range msgs {
		ids[i] = m.ID
	}
	return ids
}

func printMessage(store *chatclient.Store, m domain.Message) {
	sender := m.SenderID.String()[:8]
	if p, ok := store.Profile(m.SenderID); ok && p.DisplayName != "" {
		sender = p.DisplayName
	}
	body := m.Content
	switch {
	case m.IsDeleted():
		body = "(deleted)"
	case m.Voice != nil:
		body = fmt.Sprintf("[voice %.0fs]", m.Voice.DurationSeconds)
	case len(m.Attachments) > 0 && body == "":
		body = "[" + m.Attachments[0].Name + "]"
	}
	fmt.Printf("%s %s: %s\n", m.CreatedAt.Local().Format("15:04"), sender, body)
}
