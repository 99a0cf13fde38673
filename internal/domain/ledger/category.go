package ledger

import (
	"github.com/google/uuid"
	"github.com/walletly/backend/internal/domain/shared"
)

// CategoryKind represents the direction of money movement a category classifies
type CategoryKind string

const (
	CategoryKindIncome  CategoryKind = "INCOME"
	CategoryKindExpense CategoryKind = "EXPENSE"
)

// IsValid checks if the kind is a valid CategoryKind
func (k CategoryKind) IsValid() bool {
	switch k {
	case CategoryKindIncome, CategoryKindExpense:
		return true
	}
	return false
}

// String returns the string representation of CategoryKind
func (k CategoryKind) String() string {
	return string(k)
}

// Category classifies ledger transactions
type Category struct {
	shared.OwnedAggregateRoot
	Name string       `json:"name"`
	Kind CategoryKind `json:"kind"`
}

// NewCategory creates a new category
func NewCategory(userID uuid.UUID, name string, kind CategoryKind) (*Category, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY_NAME", "Category name cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY_KIND", "Category kind is not valid")
	}

	return &Category{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(userID),
		Name:               name,
		Kind:               kind,
	}, nil
}
