package nodes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-ninecms/internal/logging"
	"github.com/goliatone/go-ninecms/internal/sanitize"
	"github.com/goliatone/go-ninecms/pkg/interfaces"
	"github.com/google/uuid"
)

// Service exposes node management use-cases.
type Service interface {
	Create(ctx context.Context, req CreateNodeRequest) (*Node, error)
	Update(ctx context.Context, req UpdateNodeRequest) (*Node, error)
	Get(ctx context.Context, id int64) (*Node, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, query string, languages []string) ([]*Node, error)
	ListPromoted(ctx context.Context, language string) ([]*Node, error)
	Revisions(ctx context.Context, nodeID int64) ([]*NodeRevision, error)

	CreatePageType(ctx context.Context, req CreatePageTypeRequest) (*PageType, error)
	GetPageType(ctx context.Context, name string) (*PageType, error)
	ListPageTypes(ctx context.Context) ([]*PageType, error)
}

// CreateNodeRequest captures the information required to create a node.
type CreateNodeRequest struct {
	PageTypeID uuid.UUID
	Language   string
	Title      string
	UserID     uuid.UUID
	Status     bool
	Promote    bool
	Sticky     bool
	OriginalID *int64
	Summary    string
	Body       string
	Highlight  string
	Link       string
	Weight     int
	Alias      string
	Redirect   bool

	// FullHTML widens the sanitizer to allow div containers. Hosts grant
	// it per editor, never per anonymous submission.
	FullHTML bool
	LogEntry string
}

// UpdateNodeRequest replaces the editorial fields of an existing node,
// mirroring a full admin form submission.
type UpdateNodeRequest struct {
	ID        int64
	Title     string
	UserID    uuid.UUID
	Status    bool
	Promote   bool
	Sticky    bool
	Summary   string
	Body      string
	Highlight string
	Link      string
	Weight    int
	Alias     string
	Redirect  bool

	FullHTML bool
	LogEntry string
}

// CreatePageTypeRequest captures the payload for a new page type.
type CreatePageTypeRequest struct {
	Name        string
	Description string
	Guidelines  *string
	URLPattern  string
}

var (
	ErrTitleRequired      = errors.New("nodes: title is required")
	ErrPageTypeRequired   = errors.New("nodes: page type is required")
	ErrPageTypeNameTaken  = errors.New("nodes: page type name already exists")
	ErrNodeIDRequired     = errors.New("nodes: node id required")
	ErrSearchQueryEmpty   = errors.New("nodes: search query is empty")
	ErrOriginalNotFound   = errors.New("nodes: original translation does not exist")
	ErrPageTypeNameNeeded = errors.New("nodes: page type name is required")
)

// NodeRepository abstracts storage operations for nodes.
type NodeRepository interface {
	Create(ctx context.Context, record *Node) (*Node, error)
	Update(ctx context.Context, record *Node) (*Node, error)
	UpdateAlias(ctx context.Context, id int64, alias string) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Node, error)
	ListByAlias(ctx context.Context, alias string, languages []string) ([]*Node, error)
	CountByAlias(ctx context.Context, alias, language string) (int, error)
	Search(ctx context.Context, query string, languages []string) ([]*Node, error)
	ListPromoted(ctx context.Context, language string) ([]*Node, error)
	ListAliased(ctx context.Context) ([]*Node, error)
}

// PageTypeRepository abstracts storage operations for page types.
type PageTypeRepository interface {
	Create(ctx context.Context, record *PageType) (*PageType, error)
	GetByID(ctx context.Context, id uuid.UUID) (*PageType, error)
	GetByName(ctx context.Context, name string) (*PageType, error)
	List(ctx context.Context) ([]*PageType, error)
}

// RevisionRepository persists node revisions.
type RevisionRepository interface {
	Create(ctx context.Context, record *NodeRevision) (*NodeRevision, error)
	ListByNode(ctx context.Context, nodeID int64) ([]*NodeRevision, error)
}

// AliasGenerator derives URL aliases from page type patterns. Prepare runs
// before the node is persisted, Finalize after an identifier exists.
type AliasGenerator interface {
	Prepare(node *Node, pattern string)
	Finalize(ctx context.Context, node *Node) error
}

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides the generator used for page type identifiers.
func WithIDGenerator(generator func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithAliasGenerator wires alias derivation into node saves.
func WithAliasGenerator(generator AliasGenerator) ServiceOption {
	return func(s *service) {
		s.aliases = generator
	}
}

// WithLogger attaches a logger to the service.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDeleteHook registers a callback run after a node is removed, so
// owned records (media attachments) never outlive the node. Hook
// failures are logged, not surfaced: the node is already gone.
func WithDeleteHook(hook func(ctx context.Context, nodeID int64) error) ServiceOption {
	return func(s *service) {
		if hook != nil {
			s.deleteHooks = append(s.deleteHooks, hook)
		}
	}
}

type service struct {
	nodes       NodeRepository
	pageTypes   PageTypeRepository
	revisions   RevisionRepository
	aliases     AliasGenerator
	deleteHooks []func(ctx context.Context, nodeID int64) error
	now         func() time.Time
	id          func() uuid.UUID
	logger      interfaces.Logger
}

// NewService builds the node service.
func NewService(nodes NodeRepository, pageTypes PageTypeRepository, revisions RevisionRepository, opts ...ServiceOption) Service {
	svc := &service{
		nodes:     nodes,
		pageTypes: pageTypes,
		revisions: revisions,
		now:       time.Now,
		id:        uuid.New,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (r CreateNodeRequest) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(r.Title) == "" {
		errs["title"] = ErrTitleRequired
	}
	if r.PageTypeID == uuid.Nil {
		errs["page_type_id"] = ErrPageTypeRequired
	}
	return errs.Filter()
}

func (r UpdateNodeRequest) Validate() error {
	errs := validation.Errors{}
	if r.ID == 0 {
		errs["id"] = ErrNodeIDRequired
	}
	if strings.TrimSpace(r.Title) == "" {
		errs["title"] = ErrTitleRequired
	}
	return errs.Filter()
}

func (s *service) Create(ctx context.Context, req CreateNodeRequest) (*Node, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	pageType, err := s.pageTypes.GetByID(ctx, req.PageTypeID)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return nil, ErrPageTypeRequired
		}
		return nil, err
	}

	if req.OriginalID != nil {
		if _, err := s.nodes.GetByID(ctx, *req.OriginalID); err != nil {
			var notFound *NotFoundError
			if errors.As(err, &notFound) {
				return nil, ErrOriginalNotFound
			}
			return nil, err
		}
	}

	now := s.now().UTC()
	node := &Node{
		PageTypeID: pageType.ID,
		Language:   strings.TrimSpace(req.Language),
		Title:      sanitize.StripTags(req.Title),
		UserID:     req.UserID,
		Status:     req.Status,
		Promote:    req.Promote,
		Sticky:     req.Sticky,
		Created:    now,
		Changed:    now,
		OriginalID: req.OriginalID,
		Summary:    cleanBody(req.Summary, req.FullHTML),
		Body:       cleanBody(req.Body, req.FullHTML),
		Highlight:  sanitize.StripTags(req.Highlight),
		Link:       strings.TrimSpace(req.Link),
		Weight:     req.Weight,
		Alias:      sanitize.StripTags(strings.TrimSpace(req.Alias)),
		Redirect:   req.Redirect,
	}

	if s.aliases != nil && node.Alias == "" {
		s.aliases.Prepare(node, pageType.URLPattern)
	}

	created, err := s.nodes.Create(ctx, node)
	if err != nil {
		return nil, err
	}

	if s.aliases != nil {
		if err := s.aliases.Finalize(ctx, created); err != nil {
			s.logger.Warn("alias finalize failed", "node_id", created.ID, "error", err)
		}
	}

	s.recordRevision(ctx, created, req.UserID, req.LogEntry)
	s.logger.Debug("node created", "node_id", created.ID, "alias", created.Alias)
	return created, nil
}

func (s *service) Update(ctx context.Context, req UpdateNodeRequest) (*Node, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	node, err := s.nodes.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	node.Title = sanitize.StripTags(req.Title)
	node.UserID = req.UserID
	node.Status = req.Status
	node.Promote = req.Promote
	node.Sticky = req.Sticky
	node.Summary = cleanBody(req.Summary, req.FullHTML)
	node.Body = cleanBody(req.Body, req.FullHTML)
	node.Highlight = sanitize.StripTags(req.Highlight)
	node.Link = strings.TrimSpace(req.Link)
	node.Weight = req.Weight
	node.Alias = sanitize.StripTags(strings.TrimSpace(req.Alias))
	node.Redirect = req.Redirect
	node.Changed = s.now().UTC()

	if s.aliases != nil && node.Alias == "" {
		pageType, err := s.pageTypes.GetByID(ctx, node.PageTypeID)
		if err == nil {
			s.aliases.Prepare(node, pageType.URLPattern)
		}
	}

	updated, err := s.nodes.Update(ctx, node)
	if err != nil {
		return nil, err
	}

	if s.aliases != nil {
		if err := s.aliases.Finalize(ctx, updated); err != nil {
			s.logger.Warn("alias finalize failed", "node_id", updated.ID, "error", err)
		}
	}

	s.recordRevision(ctx, updated, req.UserID, req.LogEntry)
	return updated, nil
}

func (s *service) Get(ctx context.Context, id int64) (*Node, error) {
	if id == 0 {
		return nil, ErrNodeIDRequired
	}
	return s.nodes.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if id == 0 {
		return ErrNodeIDRequired
	}
	if err := s.nodes.Delete(ctx, id); err != nil {
		return err
	}
	for _, hook := range s.deleteHooks {
		if err := hook(ctx, id); err != nil {
			s.logger.Warn("node delete hook failed", "node_id", id, "error", err)
		}
	}
	return nil
}

func (s *service) Search(ctx context.Context, query string, languages []string) ([]*Node, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrSearchQueryEmpty
	}
	return s.nodes.Search(ctx, query, languages)
}

func (s *service) ListPromoted(ctx context.Context, language string) ([]*Node, error) {
	return s.nodes.ListPromoted(ctx, language)
}

func (s *service) Revisions(ctx context.Context, nodeID int64) ([]*NodeRevision, error) {
	if nodeID == 0 {
		return nil, ErrNodeIDRequired
	}
	return s.revisions.ListByNode(ctx, nodeID)
}

func (s *service) CreatePageType(ctx context.Context, req CreatePageTypeRequest) (*PageType, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrPageTypeNameNeeded
	}

	if _, err := s.pageTypes.GetByName(ctx, name); err == nil {
		return nil, ErrPageTypeNameTaken
	} else {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	now := s.now().UTC()
	record := &PageType{
		ID:          s.id(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Guidelines:  req.Guidelines,
		URLPattern:  strings.TrimSpace(req.URLPattern),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s.pageTypes.Create(ctx, record)
}

func (s *service) GetPageType(ctx context.Context, name string) (*PageType, error) {
	return s.pageTypes.GetByName(ctx, name)
}

func (s *service) ListPageTypes(ctx context.Context) ([]*PageType, error) {
	return s.pageTypes.List(ctx)
}

func (s *service) recordRevision(ctx context.Context, node *Node, userID uuid.UUID, logEntry string) {
	if s.revisions == nil {
		return
	}
	_, err := s.revisions.Create(ctx, &NodeRevision{
		NodeID:    node.ID,
		UserID:    userID,
		LogEntry:  strings.TrimSpace(logEntry),
		Created:   s.now().UTC(),
		Title:     node.Title,
		Status:    node.Status,
		Promote:   node.Promote,
		Sticky:    node.Sticky,
		Summary:   node.Summary,
		Body:      node.Body,
		Highlight: node.Highlight,
		Link:      node.Link,
	})
	if err != nil {
		s.logger.Warn("revision record failed", "node_id", node.ID, "error", err)
	}
}

func cleanBody(s string, fullHTML bool) string {
	if fullHTML {
		return sanitize.CleanFull(s)
	}
	return sanitize.Clean(s)
}
