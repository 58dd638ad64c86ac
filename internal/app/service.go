package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"connectideas/api/internal/auth"
	"connectideas/api/internal/boardlog"
	"connectideas/api/internal/email"
	"connectideas/api/internal/export"
	"connectideas/api/internal/ideas"
	"connectideas/api/internal/imagestore"
	"connectideas/api/internal/kv"
	"connectideas/api/internal/rbac"
	"connectideas/api/internal/render"
	"connectideas/api/internal/search"
	"connectideas/api/internal/session"
	"connectideas/api/internal/validate"
)

// Session is the parsed identity behind a bearer token.
type Session struct {
	Name  string
	Email string
	Role  string
}

// Deps bundles everything the service needs.
type Deps struct {
	KV          kv.Store
	Repo        *ideas.Repository
	Sessions    *session.Store
	Search      *search.Service
	Images      *imagestore.Service
	History     *boardlog.Service
	Exporter    *export.Service
	Mail        *email.Service
	ContactTo   string
	TokenSecret []byte
	TokenTTL    time.Duration
}

type Service struct {
	kvStore     kv.Store
	repo        *ideas.Repository
	sessions    *session.Store
	search      *search.Service
	images      *imagestore.Service
	history     *boardlog.Service
	exporter    *export.Service
	mail        *email.Service
	contactTo   string
	tokenSecret []byte
	tokenTTL    time.Duration
	quoteIndex  atomic.Uint64
}

func NewService(deps Deps) *Service {
	ttl := deps.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		kvStore:     deps.KV,
		repo:        deps.Repo,
		sessions:    deps.Sessions,
		search:      deps.Search,
		images:      deps.Images,
		history:     deps.History,
		exporter:    deps.Exporter,
		mail:        deps.Mail,
		contactTo:   deps.ContactTo,
		tokenSecret: deps.TokenSecret,
		tokenTTL:    ttl,
	}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.kvStore.Ping(ctx)
}

func (s *Service) Can(role string, action rbac.Action) bool {
	return rbac.Can(rbac.Normalize(role), action)
}

// Login records the actor in the single login slot and issues a token.
func (s *Service) Login(ctx context.Context, name, email, role string) (map[string]any, error) {
	fields, fieldErrs := validate.Required(
		validate.Field{Name: "name", Value: name},
		validate.Field{Name: "email", Value: email},
	)
	if len(fieldErrs) > 0 {
		return nil, validationError("Please fill in all required fields.", fieldErrs)
	}
	if !validate.Email(fields["email"]) {
		return nil, validationError("Please enter a valid email address.", nil)
	}

	user := session.User{
		Name:  fields["name"],
		Email: fields["email"],
		Role:  string(rbac.Normalize(role)),
	}
	if err := s.sessions.SetCurrent(ctx, user); err != nil {
		return nil, fmt.Errorf("save login: %w", err)
	}

	token, err := auth.IssueToken(s.tokenSecret, auth.Claims{
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
		Exp:   time.Now().Add(s.tokenTTL).Unix(),
	})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return map[string]any{
		"token":       token,
		"userName":    user.Name,
		"email":       user.Email,
		"role":        user.Role,
		"welcomeText": render.Welcome(user, true),
	}, nil
}

func (s *Service) SessionFromToken(ctx context.Context, token string) (Session, error) {
	claims, err := auth.ParseToken(s.tokenSecret, token)
	if err != nil {
		return Session{}, err
	}
	return Session{Name: claims.Name, Email: claims.Email, Role: claims.Role}, nil
}

// CurrentSession reports who occupies the login slot, if anyone.
func (s *Service) CurrentSession(ctx context.Context) (map[string]any, error) {
	user, loggedIn, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("load login slot: %w", err)
	}
	payload := map[string]any{
		"authenticated": loggedIn,
		"welcomeText":   render.Welcome(user, loggedIn),
	}
	if loggedIn {
		payload["userName"] = user.Name
		payload["email"] = user.Email
		payload["role"] = user.Role
	} else {
		payload["userName"] = nil
	}
	return payload, nil
}

// SubmitIdeaInput carries one idea submission.
type SubmitIdeaInput struct {
	OwnerName   string `json:"ownerName"`
	OwnerEmail  string `json:"ownerEmail"`
	University  string `json:"university"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageMime   string `json:"imageMime"`
	ImageData   string `json:"imageData"`
}

func (s *Service) SubmitIdea(ctx context.Context, input SubmitIdeaInput) (map[string]any, error) {
	fields, fieldErrs := validate.Required(
		validate.Field{Name: "ownerName", Value: input.OwnerName},
		validate.Field{Name: "ownerEmail", Value: input.OwnerEmail},
		validate.Field{Name: "university", Value: input.University},
		validate.Field{Name: "title", Value: input.Title},
		validate.Field{Name: "description", Value: input.Description},
	)
	if len(fieldErrs) > 0 {
		return nil, validationError("Please fill in all required fields.", fieldErrs)
	}
	if !validate.Email(fields["ownerEmail"]) {
		return nil, validationError("Please enter a valid email address.", nil)
	}

	var imageData *string
	if strings.TrimSpace(input.ImageData) != "" {
		uri, err := s.images.DataURI(input.ImageMime, input.ImageData)
		if err != nil {
			return nil, validationError(err.Error(), nil)
		}
		imageData = &uri
	}

	saved, err := s.repo.Append(ctx, ideas.Idea{
		OwnerName:   fields["ownerName"],
		OwnerEmail:  fields["ownerEmail"],
		University:  fields["university"],
		Title:       fields["title"],
		Description: fields["description"],
		ImageData:   imageData,
	})
	if err != nil {
		return nil, fmt.Errorf("append idea: %w", err)
	}

	s.recordSnapshot(ctx, fmt.Sprintf("Idea submitted: %s", saved.Title), saved.OwnerName)
	if s.search != nil {
		s.search.IndexIdea(ideaRecord(saved))
	}

	return map[string]any{
		"ok":      true,
		"idea":    saved,
		"message": "Idea submitted successfully!",
	}, nil
}

func (s *Service) ListIdeas(ctx context.Context) (map[string]any, error) {
	collection, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ideas: %w", err)
	}
	listHTML, err := render.IdeaList(collection)
	if err != nil {
		return nil, fmt.Errorf("render idea list: %w", err)
	}
	return map[string]any{
		"ideas":     collection,
		"stats":     ideas.CountByStatus(collection),
		"ideasHtml": listHTML,
	}, nil
}

// UpdateStatus moves one idea to a new status. An unknown id is ignored
// so stale admin panels do not break the board.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (map[string]any, error) {
	if !ideas.ValidStatus(status) {
		return nil, validationError(
			fmt.Sprintf("status must be one of %q, %q or %q", ideas.StatusPending, ideas.StatusShortlisted, ideas.StatusFunded), nil)
	}

	found, err := s.repo.UpdateStatus(ctx, id, ideas.Status(status))
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	if !found {
		log.Printf("status update for unknown idea id=%d ignored", id)
	}

	collection, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ideas: %w", err)
	}
	if found {
		s.recordSnapshot(ctx, fmt.Sprintf("Idea %d status changed to %s", id, status), "Admin")
		if s.search != nil {
			s.search.Reindex(ideaRecords(collection))
		}
	}

	user, loggedIn, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("load login slot: %w", err)
	}
	listHTML, err := render.IdeaList(collection)
	if err != nil {
		return nil, fmt.Errorf("render idea list: %w", err)
	}
	adminHTML, err := render.AdminPanel(user, loggedIn, collection)
	if err != nil {
		return nil, fmt.Errorf("render admin panel: %w", err)
	}

	return map[string]any{
		"ok":        true,
		"found":     found,
		"stats":     ideas.CountByStatus(collection),
		"ideasHtml": listHTML,
		"adminHtml": adminHTML,
	}, nil
}

// Dashboard assembles every view fragment in one response.
func (s *Service) Dashboard(ctx context.Context) (map[string]any, error) {
	user, loggedIn, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("load login slot: %w", err)
	}
	collection, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ideas: %w", err)
	}

	listHTML, err := render.IdeaList(collection)
	if err != nil {
		return nil, fmt.Errorf("render idea list: %w", err)
	}
	recentHTML, err := render.RecentIdeas(collection)
	if err != nil {
		return nil, fmt.Errorf("render recent ideas: %w", err)
	}
	adminHTML, err := render.AdminPanel(user, loggedIn, collection)
	if err != nil {
		return nil, fmt.Errorf("render admin panel: %w", err)
	}

	return map[string]any{
		"welcomeText": render.Welcome(user, loggedIn),
		"stats":       ideas.CountByStatus(collection),
		"ideasHtml":   listHTML,
		"recentHtml":  recentHTML,
		"adminHtml":   adminHTML,
	}, nil
}

func (s *Service) SearchIdeas(ctx context.Context, q search.Query) search.Response {
	return s.search.Search(q)
}

func (s *Service) History(ctx context.Context, limit int) (map[string]any, error) {
	if s.history == nil {
		return map[string]any{"commits": []boardlog.Commit{}}, nil
	}
	commits, err := s.history.History(limit)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return map[string]any{"commits": commits}, nil
}

func (s *Service) ExportDashboard(ctx context.Context) (*export.Result, error) {
	collection, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ideas: %w", err)
	}
	return s.exporter.ExportDashboard(collection)
}

// Contact relays a message to the board inbox. Without SMTP configured
// the message is only logged.
func (s *Service) Contact(ctx context.Context, name, emailAddr, message string) (map[string]any, error) {
	fields, fieldErrs := validate.Required(
		validate.Field{Name: "name", Value: name},
		validate.Field{Name: "email", Value: emailAddr},
		validate.Field{Name: "message", Value: message},
	)
	if len(fieldErrs) > 0 {
		return nil, validationError("Please fill in all required fields.", fieldErrs)
	}
	if !validate.Email(fields["email"]) {
		return nil, validationError("Please enter a valid email address.", nil)
	}

	if s.mail != nil && s.mail.IsConfigured() && s.contactTo != "" {
		if err := s.mail.SendContactMessage(s.contactTo, fields["name"], fields["email"], fields["message"]); err != nil {
			return nil, fmt.Errorf("send contact message: %w", err)
		}
	} else {
		log.Printf("contact message from %s <%s> (email not configured, dropped)", fields["name"], fields["email"])
	}

	return map[string]any{
		"ok":      true,
		"message": "Thanks for reaching out. We will get back to you soon.",
	}, nil
}

var quotes = []string{
	"The best way to predict the future is to invent it.",
	"Ideas are easy. Implementation is hard.",
	"Innovation distinguishes between a leader and a follower.",
	"If you are not embarrassed by the first version of your product, you've launched too late.",
	"Make something people want.",
}

// Quote rotates through a fixed list of pitches for the landing page.
func (s *Service) Quote() map[string]any {
	i := s.quoteIndex.Add(1) - 1
	return map[string]any{"quote": quotes[i%uint64(len(quotes))]}
}

func (s *Service) recordSnapshot(ctx context.Context, message, author string) {
	if s.history == nil {
		return
	}
	collection, err := s.repo.GetAll(ctx)
	if err != nil {
		log.Printf("history snapshot skipped: %v", err)
		return
	}
	if err := s.history.Snapshot(collection, message, author); err != nil {
		log.Printf("history snapshot failed: %v", err)
	}
}

func ideaRecord(idea ideas.Idea) search.IdeaRecord {
	return search.IdeaRecord{
		ID:          idea.ID,
		Title:       idea.Title,
		Description: idea.Description,
		OwnerName:   idea.OwnerName,
		University:  idea.University,
		Status:      string(idea.Status),
	}
}

func ideaRecords(collection []ideas.Idea) []search.IdeaRecord {
	records := make([]search.IdeaRecord, 0, len(collection))
	for _, idea := range collection {
		records = append(records, ideaRecord(idea))
	}
	return records
}
