package transport

import (
	"context"
	"net/http"
	"sort"
	"sync"

	"catalog-api/internal/domain"
	"catalog-api/internal/repository"

	"github.com/go-chi/chi/v5"
)

// In-memory stand-ins for the repositories. Each err field, when set, is
// returned by every call of the matching kind.

type fakeUserRepository struct {
	mu      sync.Mutex
	users   []domain.User
	listErr error
	findErr error
	saveErr error
}

func (f *fakeUserRepository) Create(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrUserAlreadyExists
		}
	}
	user.ID = int64(len(f.users) + 1)
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeUserRepository) ListEmails(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	emails := make([]string, 0, len(f.users))
	for _, u := range f.users {
		emails = append(emails, u.Email)
	}
	return emails, nil
}

func (f *fakeUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.users {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepository) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users)
}

type fakeProductRepository struct {
	mu       sync.Mutex
	products map[int64]domain.Product
	nextID   int64
	err      error
}

func newFakeProductRepository() *fakeProductRepository {
	return &fakeProductRepository{products: make(map[int64]domain.Product)}
}

func (f *fakeProductRepository) Create(ctx context.Context, product *domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.nextID++
	product.ID = f.nextID
	f.products[product.ID] = *product
	return nil
}

func (f *fakeProductRepository) Update(ctx context.Context, product *domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	existing, ok := f.products[product.ID]
	if !ok {
		return repository.ErrProductNotFound
	}
	product.CreatedAt = existing.CreatedAt
	f.products[product.ID] = *product
	return nil
}

func (f *fakeProductRepository) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return &p, nil
}

func (f *fakeProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.Product, 0, len(f.products))
	for _, p := range f.products {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// mount serves the handler's routes under /api the way the server does.
func mount(register func(chi.Router)) http.Handler {
	r := chi.NewRouter()
	r.Route("/api", register)
	return r
}
