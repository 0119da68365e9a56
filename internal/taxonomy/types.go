// Package taxonomy stores categorization terms. Terms form a weighted
// tree like menu items and relate many-to-many with nodes; renderers use
// them as a signal-block data source rather than as core page structure.
package taxonomy

import (
	"github.com/uptrace/bun"
)

// Term is a taxonomy tree node.
type Term struct {
	bun.BaseModel `bun:"table:taxonomy_terms,alias:tt"`

	ID                int64  `bun:",pk,autoincrement"        json:"id"`
	ParentID          *int64 `bun:"parent_id"                json:"parent_id,omitempty"`
	Name              string `bun:"name,notnull"             json:"name"`
	Weight            int    `bun:"weight,notnull,default:0" json:"weight"`
	DescriptionNodeID *int64 `bun:"description_node_id"      json:"description_node_id,omitempty"`

	Parent *Term `bun:"rel:belongs-to,join:parent_id=id" json:"parent,omitempty"`
}

// NodeTerm joins terms to nodes.
type NodeTerm struct {
	bun.BaseModel `bun:"table:node_terms,alias:nt"`

	TermID int64 `bun:"term_id,pk" json:"term_id"`
	NodeID int64 `bun:"node_id,pk" json:"node_id"`
}
