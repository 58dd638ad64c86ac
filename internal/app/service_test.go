package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"connectideas/api/internal/boardlog"
	"connectideas/api/internal/ideas"
	"connectideas/api/internal/imagestore"
	"connectideas/api/internal/kv"
	"connectideas/api/internal/search"
	"connectideas/api/internal/session"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	mr := miniredis.RunT(t)
	store, err := kv.NewRedisStore("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("redis store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	repo := ideas.NewRepository(store)
	history := boardlog.New(t.TempDir())
	if err := history.Ensure(); err != nil {
		t.Fatalf("history init: %v", err)
	}

	return NewService(Deps{
		KV:          store,
		Repo:        repo,
		Sessions:    session.NewStore(store),
		Search:      search.NewService(nil, search.NewMemory(repo.GetAll)),
		Images:      imagestore.New(imagestore.Config{}),
		History:     history,
		TokenSecret: []byte("test-secret"),
		TokenTTL:    time.Hour,
	})
}

func domainStatus(t *testing.T, err error) int {
	t.Helper()
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError, got %v", err)
	}
	return domainErr.Status
}

func TestLoginIssuesTokenAndFillsSlot(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	payload, err := svc.Login(ctx, "Priya Nair", "priya@iitb.ac.in", "Admin")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	token, _ := payload["token"].(string)
	if token == "" {
		t.Fatal("expected a token")
	}
	if payload["role"] != "Admin" {
		t.Errorf("role = %v, want Admin", payload["role"])
	}
	if welcome, _ := payload["welcomeText"].(string); !strings.Contains(welcome, "Priya Nair") {
		t.Errorf("welcome text missing name: %q", welcome)
	}

	parsed, err := svc.SessionFromToken(ctx, token)
	if err != nil {
		t.Fatalf("SessionFromToken: %v", err)
	}
	if parsed.Name != "Priya Nair" || parsed.Role != "Admin" {
		t.Errorf("unexpected session %+v", parsed)
	}

	current, err := svc.CurrentSession(ctx)
	if err != nil {
		t.Fatalf("CurrentSession: %v", err)
	}
	if current["authenticated"] != true {
		t.Error("slot should be filled after login")
	}
}

func TestLoginOverwritesSlot(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Login(ctx, "Priya", "priya@iitb.ac.in", "Admin"); err != nil {
		t.Fatalf("first Login: %v", err)
	}
	if _, err := svc.Login(ctx, "Omar", "omar@aub.edu.lb", "Student"); err != nil {
		t.Fatalf("second Login: %v", err)
	}

	current, err := svc.CurrentSession(ctx)
	if err != nil {
		t.Fatalf("CurrentSession: %v", err)
	}
	if current["userName"] != "Omar" || current["role"] != "Student" {
		t.Errorf("slot not overwritten: %+v", current)
	}
}

func TestLoginValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Login(ctx, "  ", "priya@iitb.ac.in", "Student"); domainStatus(t, err) != http.StatusUnprocessableEntity {
		t.Error("blank name should be rejected with 422")
	}
	if _, err := svc.Login(ctx, "Priya", "not-an-email", "Student"); domainStatus(t, err) != http.StatusUnprocessableEntity {
		t.Error("invalid email should be rejected with 422")
	}
}

func TestLoginUnknownRoleDefaultsToStudent(t *testing.T) {
	svc := newTestService(t)

	payload, err := svc.Login(context.Background(), "Priya", "priya@iitb.ac.in", "Wizard")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if payload["role"] != "Student" {
		t.Errorf("role = %v, want Student", payload["role"])
	}
}

func submitInput() SubmitIdeaInput {
	return SubmitIdeaInput{
		OwnerName:   "Priya Nair",
		OwnerEmail:  "priya@iitb.ac.in",
		University:  "IIT Bombay",
		Title:       "Solar charging benches",
		Description: "Campus benches with panels and USB ports.",
	}
}

func TestSubmitIdeaDefaults(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	payload, err := svc.SubmitIdea(ctx, submitInput())
	if err != nil {
		t.Fatalf("SubmitIdea: %v", err)
	}
	saved, ok := payload["idea"].(ideas.Idea)
	if !ok {
		t.Fatalf("payload idea has type %T", payload["idea"])
	}
	if saved.Status != ideas.StatusPending {
		t.Errorf("new idea status = %q, want %q", saved.Status, ideas.StatusPending)
	}
	if saved.ID == 0 {
		t.Error("new idea should get an id")
	}
	if saved.ImageData != nil {
		t.Error("idea without image should carry no image data")
	}

	listed, err := svc.ListIdeas(ctx)
	if err != nil {
		t.Fatalf("ListIdeas: %v", err)
	}
	collection := listed["ideas"].([]ideas.Idea)
	if len(collection) != 1 {
		t.Fatalf("expected exactly one idea, got %d", len(collection))
	}
	stats := listed["stats"].(ideas.Stats)
	if stats.Total != 1 || stats.Pending != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestSubmitIdeaValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	input := submitInput()
	input.Title = "   "
	if _, err := svc.SubmitIdea(ctx, input); domainStatus(t, err) != http.StatusUnprocessableEntity {
		t.Error("blank title should be rejected with 422")
	}

	input = submitInput()
	input.OwnerEmail = "bad email@example"
	if _, err := svc.SubmitIdea(ctx, input); domainStatus(t, err) != http.StatusUnprocessableEntity {
		t.Error("invalid email should be rejected with 422")
	}

	input = submitInput()
	input.ImageMime = "application/pdf"
	input.ImageData = "aGVsbG8="
	if _, err := svc.SubmitIdea(ctx, input); domainStatus(t, err) != http.StatusUnprocessableEntity {
		t.Error("unsupported image type should be rejected with 422")
	}
}

func TestSubmitIdeaWithImage(t *testing.T) {
	svc := newTestService(t)

	input := submitInput()
	input.ImageMime = "image/png"
	input.ImageData = "iVBORw0KGgo="
	payload, err := svc.SubmitIdea(context.Background(), input)
	if err != nil {
		t.Fatalf("SubmitIdea: %v", err)
	}
	saved := payload["idea"].(ideas.Idea)
	if saved.ImageData == nil || !strings.HasPrefix(*saved.ImageData, "data:image/png;base64,") {
		t.Errorf("image data = %v", saved.ImageData)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	payload, err := svc.SubmitIdea(ctx, submitInput())
	if err != nil {
		t.Fatalf("SubmitIdea: %v", err)
	}
	id := payload["idea"].(ideas.Idea).ID

	updated, err := svc.UpdateStatus(ctx, id, string(ideas.StatusFunded))
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated["found"] != true {
		t.Error("expected found=true")
	}
	stats := updated["stats"].(ideas.Stats)
	if stats.Funded != 1 || stats.Pending != 0 {
		t.Errorf("stats after funding = %+v", stats)
	}
	if html := updated["ideasHtml"].(string); !strings.Contains(html, "status-funded") {
		t.Error("idea list should show the funded badge")
	}
}

func TestUpdateStatusUnknownIDIsIgnored(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.SubmitIdea(ctx, submitInput()); err != nil {
		t.Fatalf("SubmitIdea: %v", err)
	}

	updated, err := svc.UpdateStatus(ctx, 999999, string(ideas.StatusFunded))
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated["found"] != false {
		t.Error("expected found=false for unknown id")
	}
	stats := updated["stats"].(ideas.Stats)
	if stats.Pending != 1 || stats.Funded != 0 {
		t.Errorf("no idea should change: %+v", stats)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.UpdateStatus(context.Background(), 1, "Rejected"); domainStatus(t, err) != http.StatusUnprocessableEntity {
		t.Error("unknown status should be rejected with 422")
	}
}

func TestDashboardAnonymous(t *testing.T) {
	svc := newTestService(t)

	payload, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if welcome := payload["welcomeText"].(string); !strings.Contains(welcome, "Log in") {
		t.Errorf("anonymous welcome = %q", welcome)
	}
	if admin := payload["adminHtml"].(string); !strings.Contains(admin, "Login as") {
		t.Errorf("anonymous admin panel should prompt for login, got %q", admin)
	}
	if list := payload["ideasHtml"].(string); !strings.Contains(list, "No ideas submitted yet") {
		t.Errorf("empty board list = %q", list)
	}
}

func TestDashboardAdminSeesSelectors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Login(ctx, "Priya", "priya@iitb.ac.in", "Admin"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := svc.SubmitIdea(ctx, submitInput()); err != nil {
		t.Fatalf("SubmitIdea: %v", err)
	}

	payload, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if admin := payload["adminHtml"].(string); !strings.Contains(admin, "<select") {
		t.Error("admin panel should contain status selectors for an Admin")
	}
}

func TestSearchIdeasFallsBackToMemory(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.SubmitIdea(ctx, submitInput()); err != nil {
		t.Fatalf("SubmitIdea: %v", err)
	}

	resp := svc.SearchIdeas(ctx, search.Query{Text: "solar"})
	if resp.Total != 1 || len(resp.Results) != 1 {
		t.Fatalf("search response = %+v", resp)
	}
	if resp.Results[0].Title != "Solar charging benches" {
		t.Errorf("hit = %+v", resp.Results[0])
	}
}

func TestHistoryRecordsMutations(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	payload, err := svc.SubmitIdea(ctx, submitInput())
	if err != nil {
		t.Fatalf("SubmitIdea: %v", err)
	}
	id := payload["idea"].(ideas.Idea).ID
	if _, err := svc.UpdateStatus(ctx, id, string(ideas.StatusShortlisted)); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	history, err := svc.History(ctx, 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	commits := history["commits"].([]boardlog.Commit)
	// baseline + submit + status change
	if len(commits) != 3 {
		t.Fatalf("expected 3 commits, got %d", len(commits))
	}
	if !strings.Contains(commits[0].Message, "Shortlisted") {
		t.Errorf("newest commit = %q", commits[0].Message)
	}
}

func TestContactValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Contact(ctx, "Priya", "bad-email", "Hello"); domainStatus(t, err) != http.StatusUnprocessableEntity {
		t.Error("invalid email should be rejected with 422")
	}

	// No SMTP configured: the message is logged and accepted.
	payload, err := svc.Contact(ctx, "Priya", "priya@iitb.ac.in", "Hello")
	if err != nil {
		t.Fatalf("Contact: %v", err)
	}
	if payload["ok"] != true {
		t.Errorf("payload = %+v", payload)
	}
}

func TestQuoteRotates(t *testing.T) {
	svc := newTestService(t)

	first := svc.Quote()["quote"]
	second := svc.Quote()["quote"]
	if first == second {
		t.Errorf("consecutive quotes should differ, got %v twice", first)
	}
}
