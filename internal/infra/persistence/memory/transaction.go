package memory

import (
	"context"

	"github.com/google/uuid"

	"signup/internal/domain/entity"
	"signup/internal/domain/repository"
	"signup/internal/errors"
)

// transactionManager buffers writes made inside Execute and applies them to
// the store in one step on commit.
type transactionManager struct {
	store *Store
}

// NewTransactionManager returns a TransactionManager over store.
func NewTransactionManager(store *Store) repository.TransactionManager {
	return &transactionManager{store: store}
}

func (tm *transactionManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	tx := &txUserRepository{store: tm.store}
	if err := fn(&repositoryFactory{tx: tx}); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "transaction aborted")
	}

	if len(tx.pending) == 0 {
		return nil
	}

	return tm.store.insert(tx.pending)
}

type repositoryFactory struct {
	tx *txUserRepository
}

func (f *repositoryFactory) UserRepo() repository.UserRepository {
	return f.tx
}

// txUserRepository sees committed data plus its own pending writes.
type txUserRepository struct {
	store   *Store
	pending []*entity.User
}

func (r *txUserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range r.pending {
		if u.Email == email {
			return true, nil
		}
	}

	return r.store.exists(email), nil
}

func (r *txUserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.pending {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}

	user, ok := r.store.find(email)
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return user, nil
}

func (r *txUserRepository) Save(_ context.Context, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.pending = append(r.pending, user)

	return nil
}
