package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/viduramedix/pos/internal/ident"
	"github.com/viduramedix/pos/internal/models"
	"github.com/viduramedix/pos/internal/storage"
)

var (
	ErrMenuItemNotFound = errors.New("menu item not found")
	ErrNameRequired     = errors.New("item name is required")
	ErrCategoryRequired = errors.New("item category is required")
	ErrPriceNotPositive = errors.New("item price must be greater than zero")
	ErrNegativeStock    = errors.New("item stock cannot be negative")
	ErrCodeTaken        = errors.New("item code is already in use")
)

// MenuService manages the menu catalog.
type MenuService struct {
	menu storage.Collection[models.MenuItem]
}

func NewMenuService(menu storage.Collection[models.MenuItem]) *MenuService {
	return &MenuService{menu: menu}
}

// MenuItemInput carries the caller-editable fields of a catalog entry.
// An empty Code asks the service to generate one from the category.
type MenuItemInput struct {
	Code        string
	Category    string
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Available   bool
}

func (in MenuItemInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(in.Category) == "" {
		return ErrCategoryRequired
	}
	if !in.Price.IsPositive() {
		return ErrPriceNotPositive
	}
	if in.Stock < 0 {
		return ErrNegativeStock
	}
	return nil
}

// List returns the full catalog.
func (s *MenuService) List(ctx context.Context) ([]models.MenuItem, error) {
	items, _, err := s.menu.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load menu: %w", err)
	}
	return items, nil
}

// Get returns one catalog entry by id.
func (s *MenuService) Get(ctx context.Context, itemID string) (*models.MenuItem, error) {
	items, _, err := s.menu.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load menu: %w", err)
	}
	for i := range items {
		if items[i].ID == itemID {
			return &items[i], nil
		}
	}
	return nil, ErrMenuItemNotFound
}

// AvailableByCategory groups the orderable items for the order screen.
// Category names come back sorted; item order within a category is the
// catalog's insertion order.
func (s *MenuService) AvailableByCategory(ctx context.Context) (map[string][]models.MenuItem, []string, error) {
	items, _, err := s.menu.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load menu: %w", err)
	}
	grouped := make(map[string][]models.MenuItem)
	for _, item := range items {
		if item.Available {
			grouped[item.Category] = append(grouped[item.Category], item)
		}
	}
	categories := make([]string, 0, len(grouped))
	for c := range grouped {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return grouped, categories, nil
}

// Create adds a catalog entry, generating a code when none is given.
func (s *MenuService) Create(ctx context.Context, in MenuItemInput) (*models.MenuItem, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var created models.MenuItem
	err := s.menu.Update(ctx, func(items []models.MenuItem) ([]models.MenuItem, error) {
		code := strings.TrimSpace(in.Code)
		if code == "" {
			code = generateItemCode(in.Category, items, "")
		} else if codeTaken(items, code, "") {
			return nil, ErrCodeTaken
		}

		created = models.MenuItem{
			ID:          ident.New(),
			Code:        code,
			Category:    strings.TrimSpace(in.Category),
			Name:        strings.TrimSpace(in.Name),
			Description: in.Description,
			Price:       in.Price,
			Stock:       in.Stock,
			Available:   in.Available,
		}
		return append(items, created), nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("menu item created", "item_id", created.ID, "code", created.Code, "name", created.Name)
	return &created, nil
}

// Update replaces the editable fields of an existing entry.
func (s *MenuService) Update(ctx context.Context, itemID string, in MenuItemInput) (*models.MenuItem, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var updated models.MenuItem
	err := s.menu.Update(ctx, func(items []models.MenuItem) ([]models.MenuItem, error) {
		idx := -1
		for i := range items {
			if items[i].ID == itemID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, ErrMenuItemNotFound
		}

		code := strings.TrimSpace(in.Code)
		if code == "" {
			code = generateItemCode(in.Category, items, itemID)
		} else if codeTaken(items, code, itemID) {
			return nil, ErrCodeTaken
		}

		items[idx].Code = code
		items[idx].Category = strings.TrimSpace(in.Category)
		items[idx].Name = strings.TrimSpace(in.Name)
		items[idx].Description = in.Description
		items[idx].Price = in.Price
		items[idx].Stock = in.Stock
		items[idx].Available = in.Available
		updated = items[idx]
		return items, nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("menu item updated", "item_id", itemID, "code", updated.Code)
	return &updated, nil
}

// Delete removes an entry from the catalog. Existing order lines keep
// referencing the id; they total to zero afterwards by design.
func (s *MenuService) Delete(ctx context.Context, itemID string) error {
	err := s.menu.Update(ctx, func(items []models.MenuItem) ([]models.MenuItem, error) {
		retained := items[:0]
		found := false
		for _, item := range items {
			if item.ID == itemID {
				found = true
				continue
			}
			retained = append(retained, item)
		}
		if !found {
			return nil, ErrMenuItemNotFound
		}
		return retained, nil
	})
	if err != nil {
		return err
	}
	slog.Info("menu item deleted", "item_id", itemID)
	return nil
}

// generateItemCode builds a code like "BEV004": a three-letter
// uppercase category prefix plus a zero-padded per-category sequence,
// suffixed with a counter until unique. excludeID leaves the entry
// being edited out of the uniqueness check.
func generateItemCode(category string, items []models.MenuItem, excludeID string) string {
	prefix := codePrefix(category)

	count := 0
	for _, item := range items {
		if item.Category == category && item.ID != excludeID {
			count++
		}
	}

	code := fmt.Sprintf("%s%03d", prefix, count+1)
	base := code
	for n := 1; codeTaken(items, code, excludeID); n++ {
		code = fmt.Sprintf("%s%d", base, n)
	}
	return code
}

func codePrefix(category string) string {
	var b strings.Builder
	for _, r := range category {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
			if b.Len() >= 3 {
				break
			}
		}
	}
	if b.Len() == 0 {
		return "ITM"
	}
	return b.String()
}

func codeTaken(items []models.MenuItem, code, excludeID string) bool {
	for _, item := range items {
		if item.ID != excludeID && item.Code == code {
			return true
		}
	}
	return false
}
