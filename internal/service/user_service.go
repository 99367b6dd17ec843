package service

import (
	"context"
	"errors"
	"log"

	"user_center/internal/apperr"
	"user_center/internal/model"
	"user_center/internal/repository"
	"user_center/internal/session"
	"user_center/internal/utils"
)

// UserService provides registration, authentication, role-scoped profile
// update and paginated search over the user store.
type UserService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (int64, error)
	Login(ctx context.Context, account, password string, sess *session.Session) (*model.SafeUser, string, error)
	UpdateUser(ctx context.Context, req *model.UpdateUserRequest, sess *session.Session) (*model.SafeUser, error)
	GetByID(ctx context.Context, id int64) (*model.SafeUser, error)
	Search(ctx context.Context, name string, page, size int64) (*model.UserPage, error)
}

type userService struct {
	userRepo repository.UserRepository
	jwtUtil  *utils.JWTUtil
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil) UserService {
	return &userService{
		userRepo: userRepo,
		jwtUtil:  jwtUtil,
	}
}

const defaultPageSize = 10

// Register creates a new user account and returns its generated id.
// The account existence pre-check only provides the friendly early error;
// the storage UNIQUE constraint is the authority and its violation is
// mapped to a conflict here.
func (s *userService) Register(ctx context.Context, req *model.RegisterRequest) (int64, error) {
	if req == nil {
		return 0, apperr.New(apperr.KindRequest, "request body is empty")
	}
	if req.Account == "" || req.Password == "" || req.CheckPassword == "" {
		return 0, apperr.New(apperr.KindParam, "account, password and check_password must not be blank")
	}
	if req.Password != req.CheckPassword {
		return 0, apperr.New(apperr.KindParam, "password and check_password do not match")
	}
	if err := utils.ValidateAccount(req.Account); err != nil {
		return 0, err
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		return 0, err
	}

	existing, err := s.userRepo.FindByAccount(ctx, req.Account)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindSystem, "failed to check existing account", err)
	}
	if existing != nil {
		return 0, apperr.New(apperr.KindConflict, "account is already taken")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindSystem, "failed to hash password", err)
	}

	user := &model.User{
		Account:      req.Account,
		PasswordHash: hash,
		Role:         model.RoleDefault,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateAccount) {
			return 0, apperr.New(apperr.KindConflict, "account is already taken")
		}
		return 0, apperr.Wrap(apperr.KindSystem, "failed to create user", err)
	}
	return user.ID, nil
}

// Login verifies credentials, binds the sanitized user to the session and
// issues a JWT. A nil session means login state cannot be persisted.
func (s *userService) Login(ctx context.Context, account, password string, sess *session.Session) (*model.SafeUser, string, error) {
	if account == "" || password == "" {
		return nil, "", apperr.New(apperr.KindParam, "account and password must not be blank")
	}
	if err := utils.ValidateAccount(account); err != nil {
		return nil, "", err
	}
	if err := utils.ValidatePassword(password); err != nil {
		return nil, "", err
	}

	user, err := s.userRepo.FindByAccount(ctx, account)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.KindSystem, "failed to look up account", err)
	}
	if user == nil {
		return nil, "", apperr.New(apperr.KindNotFound, "no user matches this account")
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", apperr.New(apperr.KindAuth, "incorrect password")
	}

	if sess == nil {
		return nil, "", apperr.New(apperr.KindSystem, "no session context, login state cannot be persisted")
	}
	safeUser := user.Sanitize()
	sess.SetCurrentUser(safeUser)

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Account, int32(user.Role))
	if err != nil {
		log.Printf("ERROR: user %s (ID: %d) authenticated, but token generation failed: %v", user.Account, user.ID, err)
		return nil, "", apperr.Wrap(apperr.KindSystem, "failed to generate token", err)
	}
	return safeUser, token, nil
}

// UpdateUser applies a role-authorized update to the target record. The
// full authorization check runs before the store is touched, so a rejected
// field never causes a partial update.
func (s *userService) UpdateUser(ctx context.Context, req *model.UpdateUserRequest, sess *session.Session) (*model.SafeUser, error) {
	if req == nil {
		return nil, apperr.New(apperr.KindParam, "update is empty")
	}
	if sess == nil {
		return nil, apperr.New(apperr.KindSystem, "no session context available")
	}
	acting, ok := sess.CurrentUser()
	if !ok {
		return nil, apperr.New(apperr.KindAuth, "not logged in")
	}

	target, err := s.userRepo.FindByID(ctx, req.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindSystem, "failed to load user for update", err)
	}
	if target == nil {
		return nil, apperr.New(apperr.KindNotFound, "no user matches the update target")
	}

	if err := authorizeUpdate(acting, target, req); err != nil {
		return nil, err
	}
	applyUpdate(target, req)

	if err := s.userRepo.Update(ctx, target); err != nil {
		if errors.Is(err, repository.ErrDuplicateAccount) {
			return nil, apperr.New(apperr.KindConflict, "account is already taken")
		}
		return nil, apperr.Wrap(apperr.KindSystem, "failed to update user", err)
	}

	updated, err := s.userRepo.FindByID(ctx, target.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindSystem, "failed to reload updated user", err)
	}
	if updated == nil {
		return nil, apperr.New(apperr.KindNotFound, "updated user disappeared")
	}
	safeUser := updated.Sanitize()
	// Refresh the login state only for self-updates; an admin touching
	// someone else keeps their own identity in the session.
	if acting.ID == safeUser.ID {
		sess.SetCurrentUser(safeUser)
	}
	return safeUser, nil
}

// GetByID returns the sanitized view of a single user.
func (s *userService) GetByID(ctx context.Context, id int64) (*model.SafeUser, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindSystem, "failed to load user", err)
	}
	if user == nil {
		return nil, apperr.New(apperr.KindNotFound, "no user matches this id")
	}
	return user.Sanitize(), nil
}

// Search runs a paginated nickname substring query and returns sanitized
// views. A blank name matches all users. A page beyond the last one is
// clamped to the last page and re-run, so callers never get an empty page
// while records exist.
func (s *userService) Search(ctx context.Context, name string, page, size int64) (*model.UserPage, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}

	total, err := s.userRepo.CountByNickname(ctx, name)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindSystem, "failed to count users", err)
	}
	totalPages := (total + size - 1) / size
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	result := &model.UserPage{
		Records:    []model.SafeUser{},
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
		Size:       size,
	}
	if total == 0 {
		return result, nil
	}

	users, err := s.userRepo.SearchByNickname(ctx, name, size, (page-1)*size)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindSystem, "failed to search users", err)
	}
	for i := range users {
		result.Records = append(result.Records, *users[i].Sanitize())
	}
	return result, nil
}
