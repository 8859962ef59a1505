package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"alexandread/internal/logger"
	"alexandread/internal/models"
	"alexandread/internal/repository"
	"alexandread/internal/storage"
	"alexandread/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FileStore - хранилище файлов по бакетам.
type FileStore interface {
	Put(ctx context.Context, bucket, objectPath string, data []byte) (string, error)
	Remove(ctx context.Context, bucket, objectPath string) error
	PathFromURL(bucket, url string) (string, bool)
}

type AccountService struct {
	repo         AccountStore
	files        FileStore
	avatarMaxLen int64
	clock        Clock
}

func NewAccountService(repo AccountStore, files FileStore, avatarMaxLen int64, clock Clock) *AccountService {
	return &AccountService{repo: repo, files: files, avatarMaxLen: avatarMaxLen, clock: clock}
}

func (s *AccountService) Get(ctx context.Context, id int64) (*models.Account, error) {
	a, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fail(ErrNotFound, "Profile not found.")
	}
	return a, err
}

// Update применяет частичное обновление профиля.
func (s *AccountService) Update(ctx context.Context, id int64, in models.UpdateProfileRequest) (*models.Account, error) {
	logger.WithCtx(ctx).Info("Обновление профиля (service)", zap.Int64("account_id", id))

	var u models.AccountUpdate
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email == "" {
			return nil, fail(ErrValidation, "Email cannot be empty.")
		}
		u.Email = &email
	}
	if in.Pseudo != nil {
		pseudo := strings.TrimSpace(*in.Pseudo)
		if pseudo == "" {
			return nil, fail(ErrValidation, "Pseudo cannot be empty.")
		}
		u.Pseudo = &pseudo
	}
	if in.Password != nil {
		if len(*in.Password) < 6 {
			return nil, fail(ErrValidation, "Password must be at least 6 characters long.")
		}
		hashed, err := utils.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = &hashed
	}
	u.Name = blankable(in.Name)
	u.Region = blankable(in.Region)
	u.FavouriteBook = blankable(in.FavouriteBook)
	u.FavouriteAuthor = blankable(in.FavouriteAuthor)
	if in.DateOfBirth != nil {
		if raw := strings.TrimSpace(*in.DateOfBirth); raw == "" {
			u.ClearBirthDate = true
		} else {
			d, err := models.ParseDate(raw)
			if err != nil {
				return nil, fail(ErrValidation, "%s", err.Error())
			}
			u.DateOfBirth = &d
		}
	}
	if in.FavouriteGenres != nil {
		genres := []string(*in.FavouriteGenres)
		u.FavouriteGenres = &genres
	}

	if u.Empty() {
		return nil, fail(ErrValidation, "No fields to update.")
	}

	a, err := s.repo.Update(ctx, id, u)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return nil, fail(ErrConflict, "Email is already in use.")
	case errors.Is(err, repository.ErrNotFound):
		return nil, fail(ErrNotFound, "Profile not found.")
	}
	return a, err
}

// UploadAvatar сохраняет картинку из data URL и обновляет avatarUrl. Старый файл удаляется.
func (s *AccountService) UploadAvatar(ctx context.Context, id int64, image string) (*models.Account, error) {
	data, err := utils.ParseDataURL(image)
	if err != nil || !data.IsImage() {
		return nil, fail(ErrValidation, "Invalid image payload.")
	}
	if int64(len(data.Data)) > s.avatarMaxLen {
		return nil, fail(ErrValidation, "Image is too large (max %d bytes).", s.avatarMaxLen)
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	objectPath := fmt.Sprintf("%d/%d-%s.%s", id, s.clock.now().UnixMilli(), uuid.NewString(), data.Ext())
	url, err := s.files.Put(ctx, storage.BucketAvatars, objectPath, data.Data)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.SetAvatar(ctx, id, url)
	if err != nil {
		_ = s.files.Remove(ctx, storage.BucketAvatars, objectPath)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fail(ErrNotFound, "Profile not found.")
		}
		return nil, err
	}

	s.removeAvatar(ctx, current.AvatarURL)
	logger.WithCtx(ctx).Info("Аватар обновлён (service)", zap.Int64("account_id", id), zap.String("path", objectPath))
	return updated, nil
}

// Delete удаляет аккаунт со всеми связанными строками, аватар - по возможности.
func (s *AccountService) Delete(ctx context.Context, id int64) error {
	logger.WithCtx(ctx).Info("Удаление аккаунта (service)", zap.Int64("account_id", id))

	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(ErrNotFound, "Profile not found.")
		}
		return err
	}
	s.removeAvatar(ctx, current.AvatarURL)
	return nil
}

func (s *AccountService) removeAvatar(ctx context.Context, url *string) {
	if url == nil {
		return
	}
	p, ok := s.files.PathFromURL(storage.BucketAvatars, *url)
	if !ok {
		return
	}
	if err := s.files.Remove(ctx, storage.BucketAvatars, p); err != nil {
		logger.WithCtx(ctx).Warn("Не удалось удалить старый аватар", zap.String("path", p), zap.Error(err))
	}
}

// blankable - nil остаётся nil (не менять), иначе обрезанная строка ("" → NULL в БД).
func blankable(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

