package menus

import (
	"github.com/uptrace/bun"
)

// MenuItem is a navigation tree node. Parents form an adjacency chain;
// TreePath and Depth are materialized ordering metadata recomputed by
// Rebuild so subtree queries stay a single prefix match.
type MenuItem struct {
	bun.BaseModel `bun:"table:menu_items,alias:mi"`

	ID       int64  `bun:",pk,autoincrement"                json:"id"`
	ParentID *int64 `bun:"parent_id"                        json:"parent_id,omitempty"`
	Weight   int    `bun:"weight,notnull,default:0"         json:"weight"`
	Language string `bun:"language"                         json:"language,omitempty"`
	Path     string `bun:"path"                             json:"path,omitempty"`
	Title    string `bun:"title,notnull"                    json:"title"`
	Disabled bool   `bun:"disabled,notnull,default:false"   json:"disabled"`
	TreePath string `bun:"tree_path"                        json:"tree_path,omitempty"`
	Depth    int    `bun:"depth,notnull,default:0"          json:"depth"`

	Parent *MenuItem `bun:"rel:belongs-to,join:parent_id=id" json:"parent,omitempty"`
}

// IsRoot reports whether the item has no parent.
func (m *MenuItem) IsRoot() bool {
	return m.ParentID == nil
}
