package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/moto-tune/suspension-backend/internal/conversation/domain"
	"github.com/moto-tune/suspension-backend/internal/conversation/phase"
	garagedomain "github.com/moto-tune/suspension-backend/internal/garage/domain"
	"github.com/moto-tune/suspension-backend/internal/llm"
	"github.com/moto-tune/suspension-backend/internal/logging"
)

// Apology replaces the assistant reply when the completion provider fails.
const Apology = "Désolé, je rencontre un problème technique. Peux-tu reformuler ou réessayer dans un instant ?"

const (
	historyLimit  = 20
	maxMessageLen = 4000
	maxTitleLen   = 120
)

type Store interface {
	Create(ctx context.Context, c *domain.Conversation) error
	Get(ctx context.Context, id string) (*domain.Conversation, error)
	ListByOwner(ctx context.Context, ownerUID string) ([]domain.Conversation, error)
	UpdatePhase(ctx context.Context, id string, u domain.PhaseUpdate) error
	InsertTurn(ctx context.Context, conversationID string, user, assistant *domain.Message) error
	ListMessages(ctx context.Context, conversationID string, limit int) ([]domain.Message, error)
}

type Completer interface {
	Generate(ctx context.Context, req llm.Request) (*llm.Response, error)
}

// KitDescriber renders an owned kit as prompt context.
type KitDescriber interface {
	DescribeKit(ctx context.Context, ownerUID, kitID string) (string, error)
}

// ChatService runs guided tuning conversations.
type ChatService struct {
	store   Store
	llm     Completer
	kits    KitDescriber
	machine *phase.Machine
}

func NewChatService(store Store, completer Completer, kits KitDescriber, machine *phase.Machine) *ChatService {
	if machine == nil {
		machine = phase.NewMachine(nil)
	}
	return &ChatService{store: store, llm: completer, kits: kits, machine: machine}
}

// CreateRequest opens a conversation, optionally bound to a kit.
type CreateRequest struct {
	Title string
	KitID *string
}

func (s *ChatService) Create(ctx context.Context, ownerUID string, req CreateRequest) (*domain.Conversation, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Nouveau réglage"
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return nil, fmt.Errorf("%w: title too long", domain.ErrInvalidInput)
	}

	var kitID *string
	if req.KitID != nil && strings.TrimSpace(*req.KitID) != "" {
		id := strings.TrimSpace(*req.KitID)
		if _, err := s.kits.DescribeKit(ctx, ownerUID, id); err != nil {
			if errors.Is(err, garagedomain.ErrNotFound) {
				return nil, fmt.Errorf("%w: unknown kit", domain.ErrInvalidInput)
			}
			return nil, fmt.Errorf("check kit: %w", err)
		}
		kitID = &id
	}

	c := &domain.Conversation{
		OwnerUID: ownerUID,
		KitID:    kitID,
		Title:    title,
		Step:     domain.StepCollecte,
	}
	if err := s.store.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return c, nil
}

func (s *ChatService) List(ctx context.Context, ownerUID string) ([]domain.Conversation, error) {
	return s.store.ListByOwner(ctx, ownerUID)
}

// Get loads the conversation from the store on every call.
func (s *ChatService) Get(ctx context.Context, ownerUID, id string) (*domain.Conversation, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.OwnerUID != ownerUID {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (s *ChatService) Messages(ctx context.Context, ownerUID, id string, limit int) ([]domain.Message, error) {
	if _, err := s.Get(ctx, ownerUID, id); err != nil {
		return nil, err
	}
	return s.store.ListMessages(ctx, id, limit)
}

// PostMessageResponse is the outcome of one exchange.
type PostMessageResponse struct {
	UserMessage      *domain.Message      `json:"user_message"`
	AssistantMessage *domain.Message      `json:"assistant_message"`
	Conversation     *domain.Conversation `json:"conversation"`
	Transition       phase.Transition     `json:"-"`
	Degraded         bool                 `json:"degraded"`
	PhaseStale       bool                 `json:"phase_stale"`
}

// PostMessage sends the user's message to the assistant, stores the turn and
// advances the conversation step.
func (s *ChatService) PostMessage(ctx context.Context, ownerUID, id, text string) (*PostMessageResponse, error) {
	log := logging.New(ctx)

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: message is empty", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(text) > maxMessageLen {
		return nil, fmt.Errorf("%w: message too long", domain.ErrInvalidInput)
	}

	c, err := s.Get(ctx, ownerUID, id)
	if err != nil {
		return nil, err
	}

	history, err := s.store.ListMessages(ctx, c.ID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	turns := make([]llm.Turn, 0, len(history))
	for _, m := range history {
		turns = append(turns, llm.Turn{Role: m.Role, Content: m.Content})
	}

	userMsg := &domain.Message{Role: domain.RoleUser, Content: text}
	assistantMsg := &domain.Message{Role: domain.RoleAssistant}

	degraded := false
	resp, err := s.llm.Generate(ctx, llm.Request{
		Message: text,
		History: turns,
		Context: s.promptContext(ctx, c),
	})
	if err != nil {
		log.Error("llm generate", err)
		assistantMsg.Content = Apology
		degraded = true
	} else {
		assistantMsg.Content = resp.Text
		assistantMsg.Settings = resp.Settings
	}

	if err := s.store.InsertTurn(ctx, c.ID, userMsg, assistantMsg); err != nil {
		return nil, fmt.Errorf("insert turn: %w", err)
	}

	out := &PostMessageResponse{
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
		Conversation:     c,
		Degraded:         degraded,
	}
	if degraded {
		out.Transition = phase.Transition{From: c.Step, To: c.Step}
		return out, nil
	}

	t := s.machine.Next(phase.Exchange{
		Step:          c.Step,
		UserText:      text,
		AssistantText: assistantMsg.Content,
		HasSettings:   assistantMsg.Settings != nil,
	})
	out.Transition = t

	if u := t.Update(); u != nil {
		if err := s.store.UpdatePhase(ctx, c.ID, *u); err != nil {
			log.With("conversation_id", c.ID, "from", t.From, "to", t.To).Error("update phase", err)
			out.PhaseStale = true
			return out, nil
		}
		if u.Step != nil {
			c.Step = *u.Step
		}
		if u.ConfigMode != nil {
			c.ConfigMode = u.ConfigMode
		}
	}
	return out, nil
}

// promptContext describes the conversation state for the assistant. A kit that
// can no longer be described is left out.
func (s *ChatService) promptContext(ctx context.Context, c *domain.Conversation) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Étape: %s", c.Step)
	if c.ConfigMode != nil {
		fmt.Fprintf(&sb, "\nMode: %s", *c.ConfigMode)
	}
	if c.KitID != nil {
		desc, err := s.kits.DescribeKit(ctx, c.OwnerUID, *c.KitID)
		if err != nil {
			logging.New(ctx).With("kit_id", *c.KitID).Warn("describe kit", err)
		} else {
			sb.WriteString("\n")
			sb.WriteString(desc)
		}
	}
	return sb.String()
}
