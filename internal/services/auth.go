package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"alexandread/internal/logger"
	"alexandread/internal/models"
	"alexandread/internal/repository"
	"alexandread/internal/utils"
	"alexandread/internal/utils/validation"

	"go.uber.org/zap"
)

type AccountStore interface {
	Create(ctx context.Context, a *models.Account) (*models.Account, error)
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	IsEmailTaken(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, id int64, u models.AccountUpdate) (*models.Account, error)
	SetAvatar(ctx context.Context, id int64, url string) (*models.Account, error)
	Delete(ctx context.Context, id int64) error
}

type AuthService struct {
	repo      AccountStore
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(repo AccountStore, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

const msgBadCredentials = "Incorrect email or password."

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register создаёт аккаунт с ролью user и сразу выдаёт токен.
func (s *AuthService) Register(ctx context.Context, in models.RegisterRequest) (*models.AuthResponse, error) {
	in.Email = normalizeEmail(in.Email)
	in.Pseudo = strings.TrimSpace(in.Pseudo)
	logger.WithCtx(ctx).Info("Регистрация аккаунта (service)", zap.String("email", in.Email))

	if in.Email == "" || in.Password == "" || in.Pseudo == "" {
		return nil, fail(ErrValidation, "Email, password and pseudo are required.")
	}
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, fail(ErrValidation, "%s", err.Error())
	}

	account := &models.Account{
		Email:           in.Email,
		Pseudo:          in.Pseudo,
		Name:            trimmed(in.Name),
		Region:          trimmed(in.Region),
		FavouriteBook:   trimmed(in.FavouriteBook),
		FavouriteAuthor: trimmed(in.FavouriteAuthor),
		Role:            models.RoleUser,
	}
	if in.FavouriteGenres != nil && len(*in.FavouriteGenres) > 0 {
		account.FavouriteGenres = []string(*in.FavouriteGenres)
	}
	if dob := strings.TrimSpace(derefString(in.DateOfBirth)); dob != "" {
		d, err := models.ParseDate(dob)
		if err != nil {
			return nil, fail(ErrValidation, "%s", err.Error())
		}
		account.DateOfBirth = &d
	}

	taken, err := s.repo.IsEmailTaken(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fail(ErrConflict, "An account with this email already exists.")
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		logger.Log.Error("Ошибка хеширования пароля", zap.Error(err))
		return nil, err
	}
	account.PasswordHash = hashed

	created, err := s.repo.Create(ctx, account)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, fail(ErrConflict, "An account with this email already exists.")
	}
	if err != nil {
		return nil, err
	}

	token, err := s.issue(created)
	if err != nil {
		return nil, err
	}
	logger.WithCtx(ctx).Info("Аккаунт зарегистрирован (service)", zap.Int64("account_id", created.ID))
	return &models.AuthResponse{Token: token, Profile: created}, nil
}

func (s *AuthService) Login(ctx context.Context, in models.LoginRequest) (*models.AuthResponse, error) {
	email := normalizeEmail(in.Email)
	logger.WithCtx(ctx).Info("Попытка входа (service)", zap.String("email", email))

	if email == "" || in.Password == "" {
		return nil, fail(ErrValidation, "Email and password are required.")
	}

	account, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		logger.WithCtx(ctx).Warn("Аккаунт не найден (service)", zap.String("email", email))
		return nil, fail(ErrUnauthorized, msgBadCredentials)
	}
	if err != nil {
		return nil, err
	}

	if !utils.CheckPasswordHash(in.Password, account.PasswordHash) {
		logger.WithCtx(ctx).Warn("Неверный пароль (service)", zap.String("email", email))
		return nil, fail(ErrUnauthorized, msgBadCredentials)
	}

	token, err := s.issue(account)
	if err != nil {
		return nil, err
	}
	logger.WithCtx(ctx).Info("Вход выполнен (service)", zap.Int64("account_id", account.ID))
	return &models.AuthResponse{Token: token, Profile: account}, nil
}

func (s *AuthService) issue(a *models.Account) (string, error) {
	token, err := utils.GenerateToken(s.jwtSecret, utils.TokenClaims{UserID: a.ID, Email: a.Email, Role: a.Role}, s.tokenTTL)
	if err != nil {
		logger.Log.Error("Ошибка генерации access-токена", zap.Error(err))
	}
	return token, err
}

// trimmed - обрезает пробелы, пустое значение превращает в nil.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
