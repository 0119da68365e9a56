package blocks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Service exposes block and layout management use-cases.
type Service interface {
	CreateBlock(ctx context.Context, req CreateBlockRequest) (*ContentBlock, error)
	GetBlock(ctx context.Context, id uuid.UUID) (*ContentBlock, error)
	GetBlockByName(ctx context.Context, name string) (*ContentBlock, error)
	ListBlocks(ctx context.Context) ([]*ContentBlock, error)

	PlaceBlock(ctx context.Context, req PlaceBlockRequest) (*LayoutElement, error)
	Layout(ctx context.Context, pageTypeID uuid.UUID) ([]*LayoutElement, error)
	HideElement(ctx context.Context, id int64, hidden bool) error
	RemoveElement(ctx context.Context, id int64) error
}

// CreateBlockRequest captures the payload for a new content block.
type CreateBlockRequest struct {
	Name       string
	Type       Type
	Classes    string
	NodeID     *int64
	MenuItemID *int64
	Signal     string
}

// PlaceBlockRequest binds an existing block into a page type region.
type PlaceBlockRequest struct {
	PageTypeID uuid.UUID
	BlockID    uuid.UUID
	Region     string
	Weight     int
	Hidden     bool
}

var (
	ErrBlockNameRequired  = errors.New("blocks: block name is required")
	ErrBlockNameTaken     = errors.New("blocks: block name already exists")
	ErrBlockTypeInvalid   = errors.New("blocks: unknown block type")
	ErrStaticNeedsNode    = errors.New("blocks: static block requires a node reference")
	ErrMenuNeedsMenuItem  = errors.New("blocks: menu block requires a menu item reference")
	ErrSignalNameRequired = errors.New("blocks: signal block requires a signal name")
	ErrRegionRequired     = errors.New("blocks: region is required")
	ErrPageTypeIDRequired = errors.New("blocks: page type id required")
	ErrBlockIDRequired    = errors.New("blocks: block id required")
	ErrElementIDRequired  = errors.New("blocks: layout element id required")
)

// BlockRepository abstracts storage operations for content blocks.
type BlockRepository interface {
	Create(ctx context.Context, record *ContentBlock) (*ContentBlock, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ContentBlock, error)
	GetByName(ctx context.Context, name string) (*ContentBlock, error)
	List(ctx context.Context) ([]*ContentBlock, error)
}

// LayoutRepository abstracts storage operations for layout elements.
type LayoutRepository interface {
	Create(ctx context.Context, record *LayoutElement) (*LayoutElement, error)
	GetByID(ctx context.Context, id int64) (*LayoutElement, error)
	SetHidden(ctx context.Context, id int64, hidden bool) error
	Delete(ctx context.Context, id int64) error
	// ListForPageType returns the visible layout of a page type ordered
	// by (region, weight, id) ascending, with blocks preloaded.
	ListForPageType(ctx context.Context, pageTypeID uuid.UUID) ([]*LayoutElement, error)
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

// WithIDGenerator overrides the generator used for block identifiers.
func WithIDGenerator(generator func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

type service struct {
	blocks BlockRepository
	layout LayoutRepository
	now    func() time.Time
	id     func() uuid.UUID
}

// NewService builds the block service.
func NewService(blocks BlockRepository, layout LayoutRepository, opts ...ServiceOption) Service {
	svc := &service{
		blocks: blocks,
		layout: layout,
		now:    time.Now,
		id:     uuid.New,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (r CreateBlockRequest) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(r.Name) == "" {
		errs["name"] = ErrBlockNameRequired
	}
	if !r.Type.Valid() {
		errs["type"] = ErrBlockTypeInvalid
	}
	switch r.Type {
	case TypeStatic:
		if r.NodeID == nil {
			errs["node_id"] = ErrStaticNeedsNode
		}
	case TypeMenu:
		if r.MenuItemID == nil {
			errs["menu_item_id"] = ErrMenuNeedsMenuItem
		}
	case TypeSignal:
		if strings.TrimSpace(r.Signal) == "" {
			errs["signal"] = ErrSignalNameRequired
		}
	}
	return errs.Filter()
}

func (r PlaceBlockRequest) Validate() error {
	errs := validation.Errors{}
	if r.PageTypeID == uuid.Nil {
		errs["page_type_id"] = ErrPageTypeIDRequired
	}
	if r.BlockID == uuid.Nil {
		errs["block_id"] = ErrBlockIDRequired
	}
	if strings.TrimSpace(r.Region) == "" {
		errs["region"] = ErrRegionRequired
	}
	return errs.Filter()
}

func (s *service) CreateBlock(ctx context.Context, req CreateBlockRequest) (*ContentBlock, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if _, err := s.blocks.GetByName(ctx, name); err == nil {
		return nil, ErrBlockNameTaken
	} else {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	now := s.now().UTC()
	record := &ContentBlock{
		ID:         s.id(),
		Name:       name,
		Type:       req.Type,
		Classes:    strings.TrimSpace(req.Classes),
		NodeID:     req.NodeID,
		MenuItemID: req.MenuItemID,
		Signal:     strings.TrimSpace(req.Signal),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return s.blocks.Create(ctx, record)
}

func (s *service) GetBlock(ctx context.Context, id uuid.UUID) (*ContentBlock, error) {
	return s.blocks.GetByID(ctx, id)
}

func (s *service) GetBlockByName(ctx context.Context, name string) (*ContentBlock, error) {
	return s.blocks.GetByName(ctx, name)
}

func (s *service) ListBlocks(ctx context.Context) ([]*ContentBlock, error) {
	return s.blocks.List(ctx)
}

func (s *service) PlaceBlock(ctx context.Context, req PlaceBlockRequest) (*LayoutElement, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.blocks.GetByID(ctx, req.BlockID); err != nil {
		return nil, err
	}
	return s.layout.Create(ctx, &LayoutElement{
		PageTypeID: req.PageTypeID,
		Region:     strings.TrimSpace(req.Region),
		BlockID:    req.BlockID,
		Weight:     req.Weight,
		Hidden:     req.Hidden,
	})
}

func (s *service) Layout(ctx context.Context, pageTypeID uuid.UUID) ([]*LayoutElement, error) {
	if pageTypeID == uuid.Nil {
		return nil, ErrPageTypeIDRequired
	}
	return s.layout.ListForPageType(ctx, pageTypeID)
}

func (s *service) HideElement(ctx context.Context, id int64, hidden bool) error {
	if id == 0 {
		return ErrElementIDRequired
	}
	return s.layout.SetHidden(ctx, id, hidden)
}

func (s *service) RemoveElement(ctx context.Context, id int64) error {
	if id == 0 {
		return ErrElementIDRequired
	}
	return s.layout.Delete(ctx, id)
}
