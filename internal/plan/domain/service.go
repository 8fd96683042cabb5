package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Plan, error)
	Get(ctx context.Context, id snowflake.ID) (*Plan, error)
	List(ctx context.Context) ([]Plan, error)
	ListActive(ctx context.Context) ([]Plan, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateRequest) (*Plan, error)
	Delete(ctx context.Context, id snowflake.ID) error
}

type CreateRequest struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Price          float64  `json:"price"`
	Currency       string   `json:"currency"`
	MaxUsers       int      `json:"maxUsers"`
	StorageLimitGB int      `json:"storageLimit"`
	DurationDays   int      `json:"durationDays"`
	Features       []string `json:"features"`
	IsActive       *bool    `json:"isActive"`
}

// UpdateRequest applies a partial update. Nil fields are left untouched;
// a name change is refused.
type UpdateRequest struct {
	Name           *string   `json:"name"`
	Description    *string   `json:"description"`
	Price          *float64  `json:"price"`
	Currency       *string   `json:"currency"`
	MaxUsers       *int      `json:"maxUsers"`
	StorageLimitGB *int      `json:"storageLimit"`
	DurationDays   *int      `json:"durationDays"`
	Features       *[]string `json:"features"`
	IsActive       *bool     `json:"isActive"`
}
