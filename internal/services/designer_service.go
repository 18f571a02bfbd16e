package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"dukanBack/internal/designer"
	"dukanBack/internal/models"
	"dukanBack/internal/repositories"
)

// PreviewBroadcaster pushes staged designs to open preview sessions. The hub
// lives in cmd; a nil broadcaster is a no-op.
type PreviewBroadcaster interface {
	BroadcastDesign(storeID int, design models.DesignResult)
}

// DesignPublishedNotifier is the slice of the push service the designer needs.
type DesignPublishedNotifier interface {
	DesignPublished(ctx context.Context, storeID int, summary string)
}

type DesignerService struct {
	TokenRepo  *repositories.TokenRepository
	DesignRepo *repositories.DesignRepository
	StoreRepo  *repositories.StoreRepository
	ThemeCache *repositories.ThemeCache
	AI         ChatCompletionClient
	Model      string
	Hub        PreviewBroadcaster
	Notifier   DesignPublishedNotifier
	Logger     *slog.Logger

	mu       sync.Mutex
	inFlight map[int]struct{}
}

// beginGeneration admits at most one generation per store at a time, so two
// tabs cannot race each other into double token spends.
func (s *DesignerService) beginGeneration(storeID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight == nil {
		s.inFlight = make(map[int]struct{})
	}
	if _, busy := s.inFlight[storeID]; busy {
		return models.ErrGenerationInFlight
	}
	s.inFlight[storeID] = struct{}{}
	return nil
}

func (s *DesignerService) endGeneration(storeID int) {
	s.mu.Lock()
	delete(s.inFlight, storeID)
	s.mu.Unlock()
}

type ReplyKind string

const (
	ReplyText   ReplyKind = "text"
	ReplyDesign ReplyKind = "design"
)

// DesignerReply is the outcome of one chat turn.
type DesignerReply struct {
	Kind    ReplyKind            `json:"kind"`
	TurnID  int                  `json:"turn_id"`
	Text    string               `json:"text,omitempty"`
	Design  *models.DesignResult `json:"design,omitempty"`
	Warning string               `json:"warning,omitempty"`
}

const designerSystemPrompt = `You are a storefront design assistant. When the user asks for a visual change,
respond with a single JSON object containing: summary, changes (array of strings),
css_vars (object mapping CSS custom properties to values), and optionally raw_css,
grid_columns, section_padding, hero_style, heading_font, body_font.
For questions that need no design change, answer in plain text.`

func (s *DesignerService) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// GenerateTurn runs one chat turn: guard the prompt and the token balance,
// consume a token, call the model, classify the reply and persist it to
// history. The token consumption and the generation form one unit: a failed
// request restores the token before the error is surfaced. A text-only answer
// is a completed generation and keeps its token spent.
func (s *DesignerService) GenerateTurn(ctx context.Context, sess designer.Session, prompt string) (designer.Session, DesignerReply, error) {
	now := time.Now()

	if err := s.beginGeneration(sess.StoreID); err != nil {
		return sess, DesignerReply{}, err
	}
	defer s.endGeneration(sess.StoreID)

	sess, err := sess.Compose(prompt)
	if err != nil {
		return sess, DesignerReply{}, err
	}
	balance, err := s.TokenRepo.GetBalance(ctx, sess.StoreID)
	if err != nil {
		return sess, DesignerReply{}, err
	}
	sess, err = sess.Submit(balance, now)
	if err != nil {
		return sess, DesignerReply{}, err
	}

	// The conditional UPDATE is the authoritative guard; the Submit check
	// above only catches the obvious case before a round trip.
	if err := s.TokenRepo.ConsumeToken(ctx, sess.StoreID); err != nil {
		sess, _ = sess.Fail()
		return sess, DesignerReply{}, err
	}

	resp, err := s.AI.Complete(ctx, s.buildRequest(ctx, sess.StoreID, prompt))
	if err != nil {
		if restoreErr := s.TokenRepo.RestoreToken(ctx, sess.StoreID); restoreErr != nil {
			s.logger().Error("restore token after failed generation", "store_id", sess.StoreID, "error", restoreErr)
		}
		sess, _ = sess.Fail()
		return sess, DesignerReply{}, fmt.Errorf("design generation failed: %w", err)
	}

	design, text := classifyReply(resp.Content)
	turn := models.DesignTurn{
		StoreID: sess.StoreID,
		Prompt:  prompt,
		Reply:   text,
		Design:  design,
	}
	turnID, err := s.DesignRepo.AppendTurn(ctx, turn)
	if err != nil {
		// nothing persisted or staged, so the token goes back too
		if restoreErr := s.TokenRepo.RestoreToken(ctx, sess.StoreID); restoreErr != nil {
			s.logger().Error("restore token after failed history write", "store_id", sess.StoreID, "error", restoreErr)
		}
		sess, _ = sess.Fail()
		return sess, DesignerReply{}, err
	}

	if design == nil {
		sess, _ = sess.Fail() // back to drafting; nothing to stage
		return sess, DesignerReply{Kind: ReplyText, TurnID: turnID, Text: text}, nil
	}

	warning := designer.DestructiveWarning(sess.Current, design)
	sess, err = sess.Succeed(*design, warning)
	if err != nil {
		return sess, DesignerReply{}, err
	}
	// a staged design supersedes an earlier reset; without this the next
	// session restore would see the sentinel and drop the new work
	if err := s.StoreRepo.ClearResetSentinel(ctx, sess.StoreID); err != nil {
		s.logger().Error("clear reset sentinel", "store_id", sess.StoreID, "error", err)
	}
	if s.Hub != nil {
		s.Hub.BroadcastDesign(sess.StoreID, *design)
	}
	return sess, DesignerReply{Kind: ReplyDesign, TurnID: turnID, Text: design.Summary, Design: design, Warning: warning}, nil
}

// buildRequest resends the stored conversation so the model keeps context
// across turns.
func (s *DesignerService) buildRequest(ctx context.Context, storeID int, prompt string) ChatCompletionRequest {
	messages := []ChatMessage{{Role: "system", Content: designerSystemPrompt}}

	history, err := s.DesignRepo.ListHistory(ctx, storeID, 20)
	if err != nil {
		s.logger().Error("load designer history", "store_id", storeID, "error", err)
	}
	// history arrives newest-first
	for i := len(history) - 1; i >= 0; i-- {
		turn := history[i]
		messages = append(messages, ChatMessage{Role: "user", Content: turn.Prompt})
		reply := turn.Reply
		if turn.Design != nil {
			if raw, err := json.Marshal(turn.Design); err == nil {
				reply = string(raw)
			}
		}
		if reply != "" {
			messages = append(messages, ChatMessage{Role: "assistant", Content: reply})
		}
	}
	messages = append(messages, ChatMessage{Role: "user", Content: prompt})

	return ChatCompletionRequest{Model: s.Model, Temperature: 0.7, Messages: messages}
}

// classifyReply splits a model answer into a design proposal or plain text. A
// reply counts as a design when it carries a parseable JSON object with at
// least one design-shaped field.
func classifyReply(content string) (*models.DesignResult, string) {
	raw := extractJSON(content)
	if raw == "" {
		return nil, strings.TrimSpace(content)
	}
	var design models.DesignResult
	if err := json.Unmarshal([]byte(raw), &design); err != nil {
		return nil, strings.TrimSpace(content)
	}
	if len(design.CSSVars) == 0 && design.RawCSS == "" && design.GridColumns == 0 &&
		design.SectionPadding == "" && design.HeroStyle == "" && design.HeadingFont == "" && design.BodyFont == "" {
		return nil, strings.TrimSpace(content)
	}
	return &design, design.Summary
}

// extractJSON pulls the first JSON object out of a reply, fenced or bare.
func extractJSON(content string) string {
	if idx := strings.Index(content, "```json"); idx >= 0 {
		rest := content[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
	}
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		return strings.TrimSpace(content[start : end+1])
	}
	return ""
}

// Publish commits a historical turn's design as the store's live theme:
// flag the turn, persist the rendered CSS on the store row, drop the cached
// copy and append the confirmation message to history. The turn's design is
// staged into a previewing session so the publish transition guard applies.
func (s *DesignerService) Publish(ctx context.Context, storeID, turnID int) (designer.Session, string, error) {
	turn, err := s.DesignRepo.GetTurn(ctx, turnID)
	if err != nil {
		return designer.Session{}, "", err
	}
	if turn.StoreID != storeID || turn.Design == nil {
		return designer.Session{}, "", models.ErrNoPendingDesign
	}

	previous, err := s.DesignRepo.PublishedDesign(ctx, storeID)
	if err != nil {
		return designer.Session{}, "", err
	}

	sess := designer.Session{
		StoreID: storeID,
		State:   designer.StatePreviewing,
		Pending: turn.Design,
		Current: previous,
	}
	sess, err = sess.Publish()
	if err != nil {
		return sess, "", err
	}

	if err := s.DesignRepo.SetPublished(ctx, sess.StoreID, turnID); err != nil {
		return sess, "", err
	}
	css := RenderThemeCSS(turn.Design)
	if err := s.StoreRepo.SetThemeState(ctx, sess.StoreID, models.ThemeStatePublished, css); err != nil {
		return sess, "", err
	}
	if err := s.ThemeCache.InvalidateTheme(ctx, sess.StoreID); err != nil {
		s.logger().Error("invalidate theme cache", "store_id", sess.StoreID, "error", err)
	}

	summary := designer.PublishSummary(previous, turn.Design)
	if _, err := s.DesignRepo.AppendTurn(ctx, models.DesignTurn{StoreID: sess.StoreID, Prompt: "", Reply: summary}); err != nil {
		s.logger().Error("append publish confirmation", "store_id", sess.StoreID, "error", err)
	}
	if s.Notifier != nil {
		s.Notifier.DesignPublished(ctx, sess.StoreID, summary)
	}
	return sess, summary, nil
}

// Reset discards the current theme. The sentinel on the store row keeps
// history from being re-staged on the next session restore.
func (s *DesignerService) Reset(ctx context.Context, storeID int) (designer.Session, error) {
	sess, err := s.RestoreSession(ctx, storeID)
	if err != nil {
		return sess, err
	}
	sess, err = sess.Reset()
	if err != nil {
		return sess, err
	}
	if err := s.DesignRepo.ClearPublished(ctx, sess.StoreID); err != nil {
		return sess, err
	}
	if err := s.StoreRepo.SetThemeState(ctx, sess.StoreID, models.ThemeStateReset, ""); err != nil {
		return sess, err
	}
	if err := s.ThemeCache.InvalidateTheme(ctx, sess.StoreID); err != nil {
		s.logger().Error("invalidate theme cache", "store_id", sess.StoreID, "error", err)
	}
	return sess, nil
}

// RestoreSession rebuilds a session from persisted state: the published
// design wins, the reset sentinel forces idle, otherwise the latest
// historical design is re-staged.
func (s *DesignerService) RestoreSession(ctx context.Context, storeID int) (designer.Session, error) {
	store, err := s.StoreRepo.GetStoreByID(ctx, storeID)
	if err != nil {
		return designer.Session{}, err
	}
	published, err := s.DesignRepo.PublishedDesign(ctx, storeID)
	if err != nil {
		return designer.Session{}, err
	}
	last, err := s.DesignRepo.LatestDesign(ctx, storeID)
	if err != nil {
		return designer.Session{}, err
	}
	return designer.Restore(storeID, published, store.ThemeState == models.ThemeStateReset, last), nil
}

func (s *DesignerService) Balance(ctx context.Context, storeID int) (models.TokenBalance, error) {
	return s.TokenRepo.GetBalance(ctx, storeID)
}

func (s *DesignerService) History(ctx context.Context, storeID, limit int) ([]models.DesignTurn, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.DesignRepo.ListHistory(ctx, storeID, limit)
}

func (s *DesignerService) CreditTokens(ctx context.Context, storeID, amount int, expiresAt *time.Time) error {
	return s.TokenRepo.AddTokens(ctx, storeID, amount, expiresAt)
}

// RenderThemeCSS turns a design into the stylesheet served to the storefront.
// Variables render sorted so the output is stable across publishes.
func RenderThemeCSS(d *models.DesignResult) string {
	if d == nil {
		return ""
	}
	var b strings.Builder
	if len(d.CSSVars) > 0 {
		names := make([]string, 0, len(d.CSSVars))
		for name := range d.CSSVars {
			names = append(names, name)
		}
		sort.Strings(names)
		b.WriteString(":root {\n")
		for _, name := range names {
			fmt.Fprintf(&b, "  %s: %s;\n", name, d.CSSVars[name])
		}
		b.WriteString("}\n")
	}
	if d.RawCSS != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(d.RawCSS)
		if !strings.HasSuffix(d.RawCSS, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String()
}
