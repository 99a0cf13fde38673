package recurring

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/walletly/backend/internal/domain/ledger"
	"github.com/walletly/backend/internal/domain/shared"
)

// checkReferences verifies the wallet belongs to the user and is active,
// and that the category exists. No mutation happens before these checks.
func checkReferences(ctx context.Context, wallets ledger.WalletRepository, categories ledger.CategoryRepository, userID, walletID, categoryID uuid.UUID) error {
	wallet, err := wallets.FindByIDForUser(ctx, userID, walletID)
	if err != nil {
		if err == shared.ErrNotFound {
			return shared.NewDomainError("WALLET_NOT_FOUND", "Wallet not found")
		}
		return fmt.Errorf("failed to load wallet: %w", err)
	}
	if !wallet.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Cannot attach a recurring item to an inactive wallet")
	}

	exists, err := categories.Exists(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("failed to check category: %w", err)
	}
	if !exists {
		return shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
	}
	return nil
}
