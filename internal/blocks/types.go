package blocks

import (
	"time"

	"github.com/goliatone/go-ninecms/internal/nodes"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Type selects the render strategy for a content block.
type Type string

const (
	TypeStatic        Type = "static"
	TypeMenu          Type = "menu"
	TypeSignal        Type = "signal"
	TypeLanguage      Type = "language"
	TypeUserMenu      Type = "user-menu"
	TypeLogin         Type = "login"
	TypeSearch        Type = "search"
	TypeSearchResults Type = "search-results"
	TypeContact       Type = "contact"
)

// Valid reports whether t is a known block type.
func (t Type) Valid() bool {
	switch t {
	case TypeStatic, TypeMenu, TypeSignal, TypeLanguage, TypeUserMenu,
		TypeLogin, TypeSearch, TypeSearchResults, TypeContact:
		return true
	}
	return false
}

// ContentBlock is a reusable typed renderable unit. Only the fields
// relevant to Type carry meaning; the rest are ignored at render time.
type ContentBlock struct {
	bun.BaseModel `bun:"table:content_blocks,alias:cb"`

	ID         uuid.UUID `bun:",pk,type:uuid"       json:"id"`
	Name       string    `bun:"name,notnull"        json:"name"`
	Type       Type      `bun:"type,notnull"        json:"type"`
	Classes    string    `bun:"classes"             json:"classes,omitempty"`
	NodeID     *int64    `bun:"node_id"             json:"node_id,omitempty"`
	MenuItemID *int64    `bun:"menu_item_id"        json:"menu_item_id,omitempty"`
	Signal     string    `bun:"signal"              json:"signal,omitempty"`
	CreatedAt  time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// LayoutElement places a content block into a region of a page type
// layout. Weight sorts ascending within a region; greater weights sink.
type LayoutElement struct {
	bun.BaseModel `bun:"table:layout_elements,alias:le"`

	ID         int64     `bun:",pk,autoincrement"              json:"id"`
	PageTypeID uuid.UUID `bun:"page_type_id,notnull,type:uuid" json:"page_type_id"`
	Region     string    `bun:"region,notnull"                 json:"region"`
	BlockID    uuid.UUID `bun:"block_id,notnull,type:uuid"     json:"block_id"`
	Weight     int       `bun:"weight,notnull,default:0"       json:"weight"`
	Hidden     bool      `bun:"hidden,notnull,default:false"   json:"hidden"`

	Block    *ContentBlock   `bun:"rel:belongs-to,join:block_id=id"      json:"block,omitempty"`
	PageType *nodes.PageType `bun:"rel:belongs-to,join:page_type_id=id"  json:"page_type,omitempty"`
}
