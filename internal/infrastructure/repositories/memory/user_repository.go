package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/tessyjonburica/Droppio/internal/core/domain"
	"github.com/tessyjonburica/Droppio/internal/core/ports"
)

type MemoryUserRepository struct {
	users    map[domain.UserID]*domain.User
	byWallet map[string]domain.UserID
	mu       sync.RWMutex
}

func NewMemoryUserRepository() ports.UserRepository {
	return &MemoryUserRepository{
		users:    make(map[domain.UserID]*domain.User),
		byWallet: make(map[string]domain.UserID),
	}
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.ID]; exists {
		return fmt.Errorf("user already exists: %s", user.ID)
	}

	wallet := strings.ToLower(user.WalletAddress)
	if _, taken := r.byWallet[wallet]; taken {
		return fmt.Errorf("wallet already registered: %s", wallet)
	}

	r.users[user.ID] = user
	r.byWallet[wallet] = user.ID
	return nil
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[id]
	if !exists {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *MemoryUserRepository) FindByWallet(ctx context.Context, walletAddress string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byWallet[strings.ToLower(walletAddress)]
	if !exists {
		return nil, domain.ErrUserNotFound
	}
	return r.users[id], nil
}
