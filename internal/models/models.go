package models

import (
	"context"
	"time"
)

// Model defines the base interface for persistent entities.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	Validate() error      // Validate checks the model's data and returns an error if it is invalid
}

// Repository defines the interface for data access operations.
type Repository[T Model] interface {
	Create(ctx context.Context, model T) error                      // Create inserts a new model, assigning its ID
	Get(ctx context.Context, id string) (T, error)                  // Get retrieves a model by its ID
	Delete(ctx context.Context, id string) error                    // Delete removes a model by its ID
	List(ctx context.Context, criteria map[string]any) ([]T, error) // List retrieves models matching the given column criteria
}
