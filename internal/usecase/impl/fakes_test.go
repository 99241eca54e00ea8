package impl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AnthonyArce/Tienda/internal/domain/entity"
	"github.com/AnthonyArce/Tienda/internal/domain/repository"
	"github.com/AnthonyArce/Tienda/internal/domain/service"

	"github.com/google/uuid"
)

// The service tests run against in-memory fakes implementing the repository
// and domain service interfaces. A fake transaction manager hands the fakes
// out through the factory, so transactional flows exercise the same state as
// direct repository calls.

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Check(password, hash string) bool {
	return hash == "hashed:"+password
}

// fakeTokenIssuer mints predictable values so tests can assert rotation.
type fakeTokenIssuer struct {
	clock      *fakeClock
	refreshTTL time.Duration
	minted     int
}

func (f *fakeTokenIssuer) CreateAccessToken(user *entity.User) (string, error) {
	return "access-token-for-" + user.Username, nil
}

func (f *fakeTokenIssuer) CreateRefreshToken() (*entity.RefreshToken, error) {
	f.minted++

	return &entity.RefreshToken{
		ID:        uuid.New(),
		Token:     fmt.Sprintf("refresh-token-%d", f.minted),
		ExpiresAt: f.clock.Now().Add(f.refreshTTL),
		CreatedAt: f.clock.Now(),
	}, nil
}

func (f *fakeTokenIssuer) ParseAccessToken(string) (*service.AccessClaims, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeTokenIssuer) RefreshTokenDuration() time.Duration { return f.refreshTTL }

// fakeStore is the shared in-memory state behind the fake repositories.
type fakeStore struct {
	users  map[uuid.UUID]*entity.User
	roles  map[uuid.UUID]*entity.Role
	tokens map[uuid.UUID]*entity.RefreshToken
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:  make(map[uuid.UUID]*entity.User),
		roles:  make(map[uuid.UUID]*entity.Role),
		tokens: make(map[uuid.UUID]*entity.RefreshToken),
	}
}

func (s *fakeStore) addRole(name string) *entity.Role {
	role := &entity.Role{ID: uuid.New(), Name: name}
	s.roles[role.ID] = role

	return role
}

// tokensOf rebuilds the user's refresh token slice from the token table so
// reads observe revocations written through the token repository.
func (s *fakeStore) tokensOf(userID uuid.UUID) []*entity.RefreshToken {
	var tokens []*entity.RefreshToken
	for _, token := range s.tokens {
		if token.UserID == userID {
			copied := *token
			tokens = append(tokens, &copied)
		}
	}

	return tokens
}

func (s *fakeStore) userView(u *entity.User) *entity.User {
	copied := *u
	copied.RefreshTokens = s.tokensOf(u.ID)

	return &copied
}

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range r.store.users {
		if u.Username == username {
			return r.store.userView(u), nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.store.users {
		if strings.EqualFold(u.Email, email) {
			return r.store.userView(u), nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByActiveRefreshToken(_ context.Context, token string) (*entity.User, error) {
	for _, t := range r.store.tokens {
		if t.Token == token && t.RevokedAt == nil {
			if u, ok := r.store.users[t.UserID]; ok {
				return r.store.userView(u), nil
			}
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindRoleByName(_ context.Context, name string) (*entity.Role, error) {
	for _, role := range r.store.roles {
		if role.EqualsName(name) {
			return role, nil
		}
	}

	return nil, repository.ErrRoleNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	user.ID = uuid.New()
	stored := *user
	r.store.users[user.ID] = &stored

	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	stored := *user
	r.store.users[user.ID] = &stored

	return nil
}

func (r *fakeUserRepo) AddRole(_ context.Context, user *entity.User, role *entity.Role) error {
	stored, ok := r.store.users[user.ID]
	if !ok {
		return repository.ErrUserNotFound
	}
	stored.Roles = append(stored.Roles, role)
	user.Roles = append(user.Roles, role)

	return nil
}

type fakeRefreshRepo struct {
	store *fakeStore
}

func (r *fakeRefreshRepo) Create(_ context.Context, token *entity.RefreshToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	stored := *token
	r.store.tokens[token.ID] = &stored

	return nil
}

func (r *fakeRefreshRepo) Revoke(_ context.Context, id uuid.UUID, revokedAt time.Time) error {
	token, ok := r.store.tokens[id]
	if !ok {
		return repository.ErrRefreshTokenNotFound
	}
	if token.RevokedAt != nil {
		return repository.ErrRefreshTokenAlreadyRevoked
	}
	token.RevokedAt = &revokedAt

	return nil
}

type fakeProductRepo struct {
	products map[int64]*entity.Product
	nextID   int64
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[int64]*entity.Product), nextID: 1}
}

func (r *fakeProductRepo) List(_ context.Context, pageIndex, pageSize int, search string) ([]*entity.Product, int64, error) {
	var matched []*entity.Product
	for id := int64(1); id < r.nextID; id++ {
		p, ok := r.products[id]
		if !ok {
			continue
		}
		if search == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(search)) {
			matched = append(matched, p)
		}
	}

	total := int64(len(matched))
	start := (pageIndex - 1) * pageSize
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}

	return matched[start:end], total, nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id int64) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := *p

	return &copied, nil
}

func (r *fakeProductRepo) Create(_ context.Context, product *entity.Product) error {
	product.ID = r.nextID
	r.nextID++
	stored := *product
	r.products[product.ID] = &stored

	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *entity.Product) error {
	if _, ok := r.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	stored := *product
	r.products[product.ID] = &stored

	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(r.products, id)

	return nil
}

type fakeBrandRepo struct {
	brands map[int64]*entity.Brand
	nextID int64
}

func newFakeBrandRepo() *fakeBrandRepo {
	return &fakeBrandRepo{brands: make(map[int64]*entity.Brand), nextID: 1}
}

func (r *fakeBrandRepo) List(_ context.Context) ([]*entity.Brand, error) {
	var brands []*entity.Brand
	for id := int64(1); id < r.nextID; id++ {
		if b, ok := r.brands[id]; ok {
			brands = append(brands, b)
		}
	}

	return brands, nil
}

func (r *fakeBrandRepo) FindByID(_ context.Context, id int64) (*entity.Brand, error) {
	b, ok := r.brands[id]
	if !ok {
		return nil, repository.ErrBrandNotFound
	}

	return b, nil
}

func (r *fakeBrandRepo) Create(_ context.Context, brand *entity.Brand) error {
	brand.ID = r.nextID
	r.nextID++
	stored := *brand
	r.brands[brand.ID] = &stored

	return nil
}

type fakeCategoryRepo struct {
	categories map[int64]*entity.Category
	nextID     int64
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[int64]*entity.Category), nextID: 1}
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	var categories []*entity.Category
	for id := int64(1); id < r.nextID; id++ {
		if c, ok := r.categories[id]; ok {
			categories = append(categories, c)
		}
	}

	return categories, nil
}

func (r *fakeCategoryRepo) FindByID(_ context.Context, id int64) (*entity.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}

	return c, nil
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *entity.Category) error {
	category.ID = r.nextID
	r.nextID++
	stored := *category
	r.categories[category.ID] = &stored

	return nil
}

// fakeFactory hands out the shared fakes as transaction-bound repositories.
type fakeFactory struct {
	userRepo     repository.UserRepository
	refreshRepo  repository.RefreshTokenRepository
	productRepo  repository.ProductRepository
	brandRepo    repository.BrandRepository
	categoryRepo repository.CategoryRepository
}

func (f *fakeFactory) UserRepo() repository.UserRepository                 { return f.userRepo }
func (f *fakeFactory) RefreshTokenRepo() repository.RefreshTokenRepository { return f.refreshRepo }
func (f *fakeFactory) ProductRepo() repository.ProductRepository           { return f.productRepo }
func (f *fakeFactory) BrandRepo() repository.BrandRepository               { return f.brandRepo }
func (f *fakeFactory) CategoryRepo() repository.CategoryRepository         { return f.categoryRepo }

// fakeTxManager runs the callback against the shared fakes without any real
// transaction; errors roll nothing back, which the assertions account for.
type fakeTxManager struct {
	factory *fakeFactory
}

func (tm *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(tm.factory)
}
