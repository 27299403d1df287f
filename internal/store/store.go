// Package store provides the food catalog storage interface and SQLite implementation.
package store

import (
	"context"

	"github.com/rcliao/meal-planner/internal/model"
)

// GetParams holds parameters for retrieving a food.
type GetParams struct {
	Name    string
	History bool
	Version int // 0 means latest
}

// ListParams holds parameters for listing foods.
type ListParams struct {
	MealType string
	Category string
	Limit    int // 0 means no limit
}

// RmParams holds parameters for deleting a food.
type RmParams struct {
	Name        string
	AllVersions bool
	Hard        bool
}

// Store defines the food catalog storage interface.
type Store interface {
	// Put stores a food. A changed food becomes a new version of the same
	// name; an unchanged one returns the current record.
	Put(ctx context.Context, f model.FoodRef) (*model.FoodRecord, error)

	// Get retrieves a food by name.
	// Returns a slice (single element normally, multiple with History=true).
	Get(ctx context.Context, p GetParams) ([]model.FoodRecord, error)

	// List lists the latest version of each food in catalog order.
	List(ctx context.Context, p ListParams) ([]model.FoodRecord, error)

	// Rm soft-deletes (or hard-deletes) a food.
	Rm(ctx context.Context, p RmParams) error

	// Close closes the store.
	Close() error
}
