package nodes

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewPageTypeRepository(db *bun.DB) repository.Repository[*PageType] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*PageType]{
		NewRecord: func() *PageType { return &PageType{} },
		GetID: func(pt *PageType) uuid.UUID {
			return pt.ID
		},
		SetID: func(pt *PageType, id uuid.UUID) {
			pt.ID = id
		},
		GetIdentifier: func() string {
			return "name"
		},
		GetIdentifierValue: func(pt *PageType) string {
			return pt.Name
		},
	})
}
