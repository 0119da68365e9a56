package nodes

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PageType groups nodes that share a layout and an alias pattern.
type PageType struct {
	bun.BaseModel `bun:"table:page_types,alias:pt"`

	ID          uuid.UUID `bun:",pk,type:uuid"       json:"id"`
	Name        string    `bun:"name,notnull"        json:"name"`
	Description string    `bun:"description"         json:"description,omitempty"`
	Guidelines  *string   `bun:"guidelines"          json:"guidelines,omitempty"`
	URLPattern  string    `bun:"url_pattern"         json:"url_pattern,omitempty"`
	CreatedAt   time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Node is a single page in a single language. Translations are separate
// nodes pointing back at the original through OriginalID.
type Node struct {
	bun.BaseModel `bun:"table:nodes,alias:n"`

	ID         int64     `bun:",pk,autoincrement"              json:"id"`
	PageTypeID uuid.UUID `bun:"page_type_id,notnull,type:uuid" json:"page_type_id"`
	Language   string    `bun:"language"                       json:"language,omitempty"`
	Title      string    `bun:"title,notnull"                  json:"title"`
	UserID     uuid.UUID `bun:"user_id,type:uuid"              json:"user_id"`
	Status     bool      `bun:"status,notnull,default:true"    json:"status"`
	Promote    bool      `bun:"promote,notnull,default:false"  json:"promote"`
	Sticky     bool      `bun:"sticky,notnull,default:false"   json:"sticky"`
	Created    time.Time `bun:"created,nullzero,default:current_timestamp" json:"created"`
	Changed    time.Time `bun:"changed,nullzero,default:current_timestamp" json:"changed"`
	OriginalID *int64    `bun:"original_id"                    json:"original_id,omitempty"`
	Summary    string    `bun:"summary"                        json:"summary,omitempty"`
	Body       string    `bun:"body"                           json:"body,omitempty"`
	Highlight  string    `bun:"highlight"                      json:"highlight,omitempty"`
	Link       string    `bun:"link"                           json:"link,omitempty"`
	Weight     int       `bun:"weight,notnull,default:0"       json:"weight"`
	Alias      string    `bun:"alias"                          json:"alias,omitempty"`
	Redirect   bool      `bun:"redirect,notnull,default:false" json:"redirect"`

	PageType *PageType `bun:"rel:belongs-to,join:page_type_id=id" json:"page_type,omitempty"`
	Original *Node     `bun:"rel:belongs-to,join:original_id=id"  json:"original,omitempty"`
}

// IsOriginal reports whether the node is its own translation source.
func (n *Node) IsOriginal() bool {
	return n.OriginalID == nil || *n.OriginalID == n.ID
}

// NodeRevision snapshots the editorial fields of a node at save time.
type NodeRevision struct {
	bun.BaseModel `bun:"table:node_revisions,alias:nr"`

	ID        int64     `bun:",pk,autoincrement"      json:"id"`
	NodeID    int64     `bun:"node_id,notnull"        json:"node_id"`
	UserID    uuid.UUID `bun:"user_id,type:uuid"      json:"user_id"`
	LogEntry  string    `bun:"log_entry"              json:"log_entry,omitempty"`
	Created   time.Time `bun:"created,nullzero,default:current_timestamp" json:"created"`
	Title     string    `bun:"title,notnull"          json:"title"`
	Status    bool      `bun:"status,notnull"         json:"status"`
	Promote   bool      `bun:"promote,notnull"        json:"promote"`
	Sticky    bool      `bun:"sticky,notnull"         json:"sticky"`
	Summary   string    `bun:"summary"                json:"summary,omitempty"`
	Body      string    `bun:"body"                   json:"body,omitempty"`
	Highlight string    `bun:"highlight"              json:"highlight,omitempty"`
	Link      string    `bun:"link"                   json:"link,omitempty"`

	Node *Node `bun:"rel:belongs-to,join:node_id=id" json:"node,omitempty"`
}
