package postgres

import (
	"context"
	"time"

	"github.com/AnthonyArce/Tienda/internal/domain/entity"
	domainerrors "github.com/AnthonyArce/Tienda/internal/domain/errors"
	"github.com/AnthonyArce/Tienda/internal/domain/repository"
	"github.com/AnthonyArce/Tienda/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the domain's UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository. It returns the
// repository as a domain interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByUsername retrieves a user by username with roles and refresh tokens loaded.
func (repo *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	var userM model.UserModel

	err := repo.db.WithContext(ctx).
		Preload("Roles").
		Preload("RefreshTokens").
		Where("username = ?", username).
		First(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by username")
	}

	return toUserDomain(&userM), nil
}

// FindByEmail retrieves a user by email address, compared case-insensitively.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel

	err := repo.db.WithContext(ctx).
		Preload("Roles").
		Where("LOWER(email) = LOWER(?)", email).
		First(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	return toUserDomain(&userM), nil
}

// FindByActiveRefreshToken retrieves the user owning a refresh token with the
// exact given value that is neither revoked nor expired.
func (repo *userRepository) FindByActiveRefreshToken(ctx context.Context, token string) (*entity.User, error) {
	var userM model.UserModel

	err := repo.db.WithContext(ctx).
		Preload("Roles").
		Preload("RefreshTokens").
		Joins("JOIN refresh_tokens ON refresh_tokens.user_id = users.id").
		Where("refresh_tokens.token = ? AND refresh_tokens.revoked_at IS NULL AND refresh_tokens.expires_at > ?",
			token, time.Now()).
		First(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by refresh token")
	}

	return toUserDomain(&userM), nil
}

// FindRoleByName retrieves a role by name, compared case-insensitively.
func (repo *userRepository) FindRoleByName(ctx context.Context, name string) (*entity.Role, error) {
	var roleM model.RoleModel

	err := repo.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		First(&roleM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoleNotFound
		}

		return nil, errors.Wrap(err, "failed to find role by name")
	}

	return toRoleDomain(&roleM), nil
}

// Create persists a new user together with its role assignments. Role rows are
// reference data: only join rows are written, never the roles themselves.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Omit("Roles.*").Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrAlreadyRegistered.WrapMessage("username or email already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required user information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// Update modifies the user row itself; associations are managed separately.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Omit("Roles", "RefreshTokens").Save(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrAlreadyRegistered.WrapMessage("username or email already exists")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update user")
	}

	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// AddRole appends a role to the user's role set by inserting the join row.
func (repo *userRepository) AddRole(ctx context.Context, user *entity.User, role *entity.Role) error {
	err := repo.db.WithContext(ctx).
		Table("user_roles").
		Create(map[string]any{"user_id": user.ID, "role_id": role.ID}).Error
	if err != nil {
		// A concurrent grant of the same role is an idempotent success.
		if isUniqueConstraintViolation(err) {
			return nil
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrRoleNotFound.WrapMessage("user or role reference does not exist")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to add role to user")
	}

	user.Roles = append(user.Roles, role)

	return nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	roles := make([]*entity.Role, 0, len(data.Roles))
	for _, roleM := range data.Roles {
		roles = append(roles, toRoleDomain(roleM))
	}

	tokens := make([]*entity.RefreshToken, 0, len(data.RefreshTokens))
	for _, tokenM := range data.RefreshTokens {
		tokens = append(tokens, toRefreshTokenDomain(tokenM))
	}

	return &entity.User{
		ID:              data.ID,
		Username:        data.Username,
		Email:           data.Email,
		Name:            data.Name,
		PaternalSurname: data.PaternalSurname,
		MaternalSurname: data.MaternalSurname,
		PasswordHash:    data.PasswordHash,
		Roles:           roles,
		RefreshTokens:   tokens,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}

// fromUserDomain converts a domain User entity to a GORM UserModel for persistence.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	roles := make([]*model.RoleModel, 0, len(data.Roles))
	for _, role := range data.Roles {
		roles = append(roles, &model.RoleModel{ID: role.ID, Name: role.Name})
	}

	return &model.UserModel{
		ID:              data.ID,
		Username:        data.Username,
		Email:           data.Email,
		Name:            data.Name,
		PaternalSurname: data.PaternalSurname,
		MaternalSurname: data.MaternalSurname,
		PasswordHash:    data.PasswordHash,
		Roles:           roles,
	}
}

// toRoleDomain converts a GORM RoleModel to a domain Role entity.
func toRoleDomain(data *model.RoleModel) *entity.Role {
	if data == nil {
		return nil
	}

	return &entity.Role{
		ID:        data.ID,
		Name:      data.Name,
		CreatedAt: data.CreatedAt,
	}
}
