package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/viduramedix/pos/internal/ident"
	"github.com/viduramedix/pos/internal/models"
	"github.com/viduramedix/pos/internal/storage"
)

var ErrTableNotFound = errors.New("table not found")

// defaultTableCount is how many four-seat tables a fresh installation
// starts with.
const defaultTableCount = 10

// TableService tracks dining-table occupancy.
type TableService struct {
	tables storage.Collection[models.Table]
}

func NewTableService(tables storage.Collection[models.Table]) *TableService {
	return &TableService{tables: tables}
}

// EnsureDefaults seeds the default tables when the collection is
// empty, so a fresh data directory is immediately usable.
func (s *TableService) EnsureDefaults(ctx context.Context) error {
	return s.tables.Update(ctx, func(tables []models.Table) ([]models.Table, error) {
		if len(tables) > 0 {
			return tables, nil
		}
		for i := 1; i <= defaultTableCount; i++ {
			tables = append(tables, models.Table{
				ID:       ident.New(),
				Name:     fmt.Sprintf("Table %d", i),
				Capacity: 4,
				Status:   models.TableAvailable,
			})
		}
		slog.Info("seeded default tables", "count", defaultTableCount)
		return tables, nil
	})
}

// List returns every table.
func (s *TableService) List(ctx context.Context) ([]models.Table, error) {
	tables, _, err := s.tables.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	return tables, nil
}

// Occupy marks a table occupied.
func (s *TableService) Occupy(ctx context.Context, tableID string) error {
	return s.setStatus(ctx, tableID, models.TableOccupied)
}

// Release marks a table available again.
func (s *TableService) Release(ctx context.Context, tableID string) error {
	return s.setStatus(ctx, tableID, models.TableAvailable)
}

func (s *TableService) setStatus(ctx context.Context, tableID string, status models.TableStatus) error {
	return s.tables.Update(ctx, func(tables []models.Table) ([]models.Table, error) {
		for i := range tables {
			if tables[i].ID == tableID {
				tables[i].Status = status
				return tables, nil
			}
		}
		return nil, ErrTableNotFound
	})
}
