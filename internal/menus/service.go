package menus

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-ninecms/internal/logging"
	"github.com/goliatone/go-ninecms/pkg/interfaces"
)

// Service exposes menu tree use-cases.
type Service interface {
	Create(ctx context.Context, req CreateMenuItemRequest) (*MenuItem, error)
	Update(ctx context.Context, req UpdateMenuItemRequest) (*MenuItem, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*MenuItem, error)
	Tree(ctx context.Context) ([]*MenuItem, error)
	Descendants(ctx context.Context, id int64, includeSelf bool) ([]*MenuItem, error)
	Ancestors(ctx context.Context, id int64, includeSelf bool) ([]*MenuItem, error)
	Rebuild(ctx context.Context) error
	FullPath(item *MenuItem) string
}

// CreateMenuItemRequest captures the payload for a new menu item.
type CreateMenuItemRequest struct {
	ParentID *int64
	Weight   int
	Language string
	Path     string
	Title    string
	Disabled bool
}

// UpdateMenuItemRequest replaces the fields of an existing item.
type UpdateMenuItemRequest struct {
	ID       int64
	ParentID *int64
	Weight   int
	Language string
	Path     string
	Title    string
	Disabled bool
}

var (
	ErrTitleRequired  = errors.New("menus: title is required")
	ErrItemIDRequired = errors.New("menus: item id required")
	ErrParentNotFound = errors.New("menus: parent item does not exist")
	ErrParentCycle    = errors.New("menus: item cannot be its own ancestor")
)

// Repository abstracts storage operations for menu items.
type Repository interface {
	Create(ctx context.Context, record *MenuItem) (*MenuItem, error)
	Update(ctx context.Context, record *MenuItem) (*MenuItem, error)
	Delete(ctx context.Context, ids []int64) error
	GetByID(ctx context.Context, id int64) (*MenuItem, error)
	List(ctx context.Context) ([]*MenuItem, error)
	DescendantsOf(ctx context.Context, treePath string) ([]*MenuItem, error)
	SaveTreePaths(ctx context.Context, items []*MenuItem) error
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

// WithLanguagePrefix toggles the /lang URL segment on FullPath output.
func WithLanguagePrefix(enabled bool) ServiceOption {
	return func(s *service) {
		s.languagePrefix = enabled
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

type service struct {
	items          Repository
	languagePrefix bool
	logger         interfaces.Logger
}

// NewService builds the menu service.
func NewService(items Repository, opts ...ServiceOption) Service {
	svc := &service{
		items:  items,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (r CreateMenuItemRequest) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(r.Title) == "" {
		errs["title"] = ErrTitleRequired
	}
	return errs.Filter()
}

func (r UpdateMenuItemRequest) Validate() error {
	errs := validation.Errors{}
	if r.ID == 0 {
		errs["id"] = ErrItemIDRequired
	}
	if strings.TrimSpace(r.Title) == "" {
		errs["title"] = ErrTitleRequired
	}
	return errs.Filter()
}

func (s *service) Create(ctx context.Context, req CreateMenuItemRequest) (*MenuItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkParent(ctx, req.ParentID, 0); err != nil {
		return nil, err
	}

	created, err := s.items.Create(ctx, &MenuItem{
		ParentID: req.ParentID,
		Weight:   req.Weight,
		Language: strings.TrimSpace(req.Language),
		Path:     strings.TrimSpace(req.Path),
		Title:    strings.TrimSpace(req.Title),
		Disabled: req.Disabled,
	})
	if err != nil {
		return nil, err
	}
	if err := s.Rebuild(ctx); err != nil {
		return nil, err
	}
	return s.items.GetByID(ctx, created.ID)
}

func (s *service) Update(ctx context.Context, req UpdateMenuItemRequest) (*MenuItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item, err := s.items.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if err := s.checkParent(ctx, req.ParentID, req.ID); err != nil {
		return nil, err
	}

	item.ParentID = req.ParentID
	item.Weight = req.Weight
	item.Language = strings.TrimSpace(req.Language)
	item.Path = strings.TrimSpace(req.Path)
	item.Title = strings.TrimSpace(req.Title)
	item.Disabled = req.Disabled

	if _, err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	if err := s.Rebuild(ctx); err != nil {
		return nil, err
	}
	return s.items.GetByID(ctx, item.ID)
}

// Delete removes the item and its whole subtree.
func (s *service) Delete(ctx context.Context, id int64) error {
	if id == 0 {
		return ErrItemIDRequired
	}
	subtree, err := s.Descendants(ctx, id, true)
	if err != nil {
		return err
	}
	ids := make([]int64, 0, len(subtree))
	for _, item := range subtree {
		ids = append(ids, item.ID)
	}
	if err := s.items.Delete(ctx, ids); err != nil {
		return err
	}
	return s.Rebuild(ctx)
}

func (s *service) Get(ctx context.Context, id int64) (*MenuItem, error) {
	if id == 0 {
		return nil, ErrItemIDRequired
	}
	return s.items.GetByID(ctx, id)
}

// Tree returns every item in depth-first order.
func (s *service) Tree(ctx context.Context) ([]*MenuItem, error) {
	items, err := s.items.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].TreePath < items[j].TreePath })
	return items, nil
}

// Descendants returns the subtree under the item in depth-first order.
// Disabled items stay in the result; rendering callers filter them.
func (s *service) Descendants(ctx context.Context, id int64, includeSelf bool) ([]*MenuItem, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	below, err := s.items.DescendantsOf(ctx, item.TreePath)
	if err != nil {
		return nil, err
	}
	sort.Slice(below, func(i, j int) bool { return below[i].TreePath < below[j].TreePath })

	if !includeSelf {
		return below, nil
	}
	return append([]*MenuItem{item}, below...), nil
}

// Ancestors returns the chain from the root down to the item's parent.
func (s *service) Ancestors(ctx context.Context, id int64, includeSelf bool) ([]*MenuItem, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var chain []*MenuItem
	current := item
	for current.ParentID != nil {
		parent, err := s.items.GetByID(ctx, *current.ParentID)
		if err != nil {
			return nil, err
		}
		chain = append([]*MenuItem{parent}, chain...)
		current = parent
	}
	if includeSelf {
		chain = append(chain, item)
	}
	return chain, nil
}

// Rebuild recomputes TreePath and Depth for the whole tree from the
// parent/weight adjacency. It runs after every structural change, and is
// exposed for callers that bypass the service for bulk imports.
func (s *service) Rebuild(ctx context.Context) error {
	items, err := s.items.List(ctx)
	if err != nil {
		return err
	}

	children := make(map[int64][]*MenuItem)
	var roots []*MenuItem
	for _, item := range items {
		if item.ParentID == nil {
			roots = append(roots, item)
			continue
		}
		children[*item.ParentID] = append(children[*item.ParentID], item)
	}

	bySibling := func(list []*MenuItem) {
		sort.Slice(list, func(i, j int) bool {
			if list[i].Weight != list[j].Weight {
				return list[i].Weight < list[j].Weight
			}
			return list[i].ID < list[j].ID
		})
	}
	bySibling(roots)

	var changed []*MenuItem
	var walk func(list []*MenuItem, prefix string, depth int)
	walk = func(list []*MenuItem, prefix string, depth int) {
		for i, item := range list {
			path := fmt.Sprintf("%04d", i)
			if prefix != "" {
				path = prefix + "." + path
			}
			if item.TreePath != path || item.Depth != depth {
				item.TreePath = path
				item.Depth = depth
				changed = append(changed, item)
			}
			kids := children[item.ID]
			bySibling(kids)
			walk(kids, path, depth+1)
		}
	}
	walk(roots, "", 0)

	if len(changed) == 0 {
		return nil
	}
	s.logger.Debug("menu tree rebuilt", "changed", len(changed), "total", len(items))
	return s.items.SaveTreePaths(ctx, changed)
}

func (s *service) FullPath(item *MenuItem) string {
	return item.FullPath(s.languagePrefix)
}

func (s *service) checkParent(ctx context.Context, parentID *int64, selfID int64) error {
	if parentID == nil {
		return nil
	}
	if selfID != 0 && *parentID == selfID {
		return ErrParentCycle
	}
	parent, err := s.items.GetByID(ctx, *parentID)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return ErrParentNotFound
		}
		return err
	}
	if selfID != 0 {
		for parent.ParentID != nil {
			if *parent.ParentID == selfID {
				return ErrParentCycle
			}
			parent, err = s.items.GetByID(ctx, *parent.ParentID)
			if err != nil {
				return err
			}
		}
	}
	return nil
}
