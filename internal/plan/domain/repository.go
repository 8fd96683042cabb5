package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, plan *Plan) error
	FindByID(ctx context.Context, id snowflake.ID) (*Plan, error)
	FindByName(ctx context.Context, name string) (*Plan, error)
	List(ctx context.Context) ([]Plan, error)
	ListActive(ctx context.Context) ([]Plan, error)
	UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error
	Delete(ctx context.Context, id snowflake.ID) error
}
