package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"alexandread/internal/logger"

	"go.uber.org/zap"
)

const (
	BucketAvatars = "avatars"
	BucketCovers  = "covers"
	BucketBooks   = "books"
)

// PublicPrefix - URL-префикс, под которым раздаются файлы бакетов.
const PublicPrefix = "/storage/"

var ErrInvalidPath = errors.New("invalid storage path")

// LocalBuckets хранит файлы в каталогах <root>/<bucket>/<path> и отдаёт их публичные URL.
type LocalBuckets struct {
	root       string
	publicBase string
}

func NewLocalBuckets(root, publicBase string) (*LocalBuckets, error) {
	for _, b := range []string{BucketAvatars, BucketCovers, BucketBooks} {
		if err := os.MkdirAll(filepath.Join(root, b), os.ModePerm); err != nil {
			return nil, fmt.Errorf("storage: create bucket %s: %w", b, err)
		}
	}
	return &LocalBuckets{root: root, publicBase: strings.TrimRight(publicBase, "/")}, nil
}

func (s *LocalBuckets) Root() string { return s.root }

func (s *LocalBuckets) resolve(bucket, objectPath string) (string, error) {
	clean := path.Clean("/" + objectPath)
	if bucket == "" || strings.Contains(bucket, "/") || clean == "/" {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.root, bucket, filepath.FromSlash(clean)), nil
}

// Put записывает объект и возвращает его публичный URL. Существующий файл перезаписывается.
func (s *LocalBuckets) Put(ctx context.Context, bucket, objectPath string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	full, err := s.resolve(bucket, objectPath)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), os.ModePerm); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		logger.Log.Error("Ошибка записи файла", zap.String("path", full), zap.Error(err))
		return "", err
	}
	logger.Log.Info("Файл сохранён", zap.String("bucket", bucket), zap.String("path", objectPath), zap.Int("size", len(data)))
	return s.PublicURL(bucket, objectPath), nil
}

// Remove удаляет объект; отсутствие файла не ошибка.
func (s *LocalBuckets) Remove(ctx context.Context, bucket, objectPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.resolve(bucket, objectPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *LocalBuckets) PublicURL(bucket, objectPath string) string {
	return s.publicBase + PublicPrefix + bucket + "/" + strings.TrimPrefix(objectPath, "/")
}

// PathFromURL достаёт путь объекта из публичного URL бакета; ok=false, если URL чужой.
func (s *LocalBuckets) PathFromURL(bucket, url string) (string, bool) {
	prefix := s.publicBase + PublicPrefix + bucket + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	p := strings.TrimPrefix(url, prefix)
	return p, p != ""
}
