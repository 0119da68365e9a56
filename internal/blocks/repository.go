package blocks

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewContentBlockRepository(db *bun.DB) repository.Repository[*ContentBlock] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ContentBlock]{
		NewRecord: func() *ContentBlock { return &ContentBlock{} },
		GetID: func(cb *ContentBlock) uuid.UUID {
			return cb.ID
		},
		SetID: func(cb *ContentBlock, id uuid.UUID) {
			cb.ID = id
		},
		GetIdentifier: func() string {
			return "name"
		},
		GetIdentifierValue: func(cb *ContentBlock) string {
			return cb.Name
		},
	})
}
