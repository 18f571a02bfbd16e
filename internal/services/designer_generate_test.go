package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"dukanBack/internal/designer"
	"dukanBack/internal/models"
	"dukanBack/internal/repositories"
)

const designReplyJSON = "```json\n{\"summary\":\"blue theme\",\"css_vars\":{\"--primary\":\"#0000ff\"}}\n```"

type stubAI struct {
	content string
	err     error
	entered chan struct{}
	release chan struct{}
}

func (s *stubAI) Complete(context.Context, ChatCompletionRequest) (ChatCompletionResponse, error) {
	if s.entered != nil {
		close(s.entered)
		<-s.release
	}
	if s.err != nil {
		return ChatCompletionResponse{}, s.err
	}
	return ChatCompletionResponse{Content: s.content}, nil
}

func newDesignerService(db *sql.DB, ai ChatCompletionClient) *DesignerService {
	return &DesignerService{
		TokenRepo:  &repositories.TokenRepository{DB: db},
		DesignRepo: &repositories.DesignRepository{DB: db},
		StoreRepo:  &repositories.StoreRepository{DB: db},
		AI:         ai,
	}
}

func stubBalance(fdb *fakeDB, remaining int64) {
	fdb.stubQuery("FROM design_tokens", []string{"store_id", "remaining", "expires_at", "updated_at"},
		[][]driver.Value{{int64(7), remaining, nil, nil}})
}

func TestGenerateTurnHistoryWriteFailureRestoresToken(t *testing.T) {
	db, fdb := newFakeDB(t)
	stubBalance(fdb, 3)
	fdb.stubError("INSERT INTO ai_designer_history", errors.New("history insert failed"))

	svc := newDesignerService(db, &stubAI{content: designReplyJSON})

	sess, _, err := svc.GenerateTurn(context.Background(), designer.NewSession(7), "make it blue")
	if err == nil {
		t.Fatalf("expected the history write error to surface")
	}
	if got := fdb.count("remaining - 1"); got != 1 {
		t.Fatalf("token consumed %d times, want 1", got)
	}
	if got := fdb.count("remaining + 1"); got != 1 {
		t.Errorf("token restored %d times, want 1", got)
	}
	if sess.State != designer.StateDrafting {
		t.Errorf("session state = %q, want %q", sess.State, designer.StateDrafting)
	}
}

func TestGenerateTurnModelFailureRestoresToken(t *testing.T) {
	db, fdb := newFakeDB(t)
	stubBalance(fdb, 3)

	svc := newDesignerService(db, &stubAI{err: errors.New("model unavailable")})

	_, _, err := svc.GenerateTurn(context.Background(), designer.NewSession(7), "make it blue")
	if err == nil {
		t.Fatalf("expected the model error to surface")
	}
	if got := fdb.count("remaining + 1"); got != 1 {
		t.Errorf("token restored %d times, want 1", got)
	}
	if got := fdb.count("INSERT INTO ai_designer_history"); got != 0 {
		t.Errorf("history written %d times on a failed generation, want 0", got)
	}
}

func TestGenerateTurnDesignClearsResetSentinel(t *testing.T) {
	db, fdb := newFakeDB(t)
	stubBalance(fdb, 3)

	svc := newDesignerService(db, &stubAI{content: designReplyJSON})

	sess, reply, err := svc.GenerateTurn(context.Background(), designer.NewSession(7), "make it blue")
	if err != nil {
		t.Fatalf("GenerateTurn: %v", err)
	}
	if reply.Kind != ReplyDesign {
		t.Fatalf("reply kind = %q, want %q", reply.Kind, ReplyDesign)
	}
	if sess.State != designer.StatePreviewing {
		t.Errorf("session state = %q, want %q", sess.State, designer.StatePreviewing)
	}
	if got := fdb.count("theme_state = 'reset'"); got != 1 {
		t.Errorf("reset sentinel cleared %d times, want 1", got)
	}
	if got := fdb.count("remaining + 1"); got != 0 {
		t.Errorf("token restored %d times on a successful turn, want 0", got)
	}
}

func TestGenerateTurnSecondConcurrentCallRefused(t *testing.T) {
	db, fdb := newFakeDB(t)
	stubBalance(fdb, 5)

	ai := &stubAI{content: designReplyJSON, entered: make(chan struct{}), release: make(chan struct{})}
	svc := newDesignerService(db, ai)

	done := make(chan error, 1)
	go func() {
		_, _, err := svc.GenerateTurn(context.Background(), designer.NewSession(7), "first prompt")
		done <- err
	}()
	<-ai.entered

	_, _, err := svc.GenerateTurn(context.Background(), designer.NewSession(7), "second prompt")
	if !errors.Is(err, models.ErrGenerationInFlight) {
		t.Fatalf("concurrent turn error = %v, want ErrGenerationInFlight", err)
	}

	close(ai.release)
	if err := <-done; err != nil {
		t.Fatalf("first turn failed: %v", err)
	}
	if got := fdb.count("remaining - 1"); got != 1 {
		t.Errorf("tokens consumed = %d, want 1", got)
	}
}
