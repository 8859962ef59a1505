package models

import "time"

type Book struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	Genre      *string   `json:"genre"`
	Year       *int      `json:"year"`
	Summary    *string   `json:"summary"`
	CoverImage *string   `json:"cover_image"`
	Content    *string   `json:"content"`
	Premium    bool      `json:"premium"`
	CreatedAt  time.Time `json:"created_at"`
}

// BookSummary - карточка книги для списков и рекомендаций.
type BookSummary struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	Genre      *string `json:"genre"`
	CoverImage *string `json:"cover_image"`
	Summary    *string `json:"summary"`
	Year       *int    `json:"year"`
	Premium    bool    `json:"premium"`
}

// swagger:model CreateBookRequest
type CreateBookRequest struct {
	Title      string  `json:"title"       validate:"required,max=300" example:"Foundation"`
	Author     string  `json:"author"      validate:"required,max=200" example:"Isaac Asimov"`
	Genre      *string `json:"genre"       validate:"omitempty,max=100" example:"Science fiction"`
	Year       *int    `json:"year"        validate:"omitempty,gte=-3000,lte=3000" example:"1951"`
	Summary    *string `json:"summary"`
	CoverImage *string `json:"cover_image"`
	Content    *string `json:"content"`
	Premium    bool    `json:"premium"`
}

// UpdateBookRequest - частичное обновление, nil = не менять.
type UpdateBookRequest struct {
	Title      *string `json:"title"       validate:"omitempty,min=1,max=300"`
	Author     *string `json:"author"      validate:"omitempty,min=1,max=200"`
	Genre      *string `json:"genre"       validate:"omitempty,max=100"`
	Year       *int    `json:"year"        validate:"omitempty,gte=-3000,lte=3000"`
	Summary    *string `json:"summary"`
	CoverImage *string `json:"cover_image"`
	Content    *string `json:"content"`
	Premium    *bool   `json:"premium"`
}

func (u UpdateBookRequest) Empty() bool {
	return u.Title == nil && u.Author == nil && u.Genre == nil && u.Year == nil &&
		u.Summary == nil && u.CoverImage == nil && u.Content == nil && u.Premium == nil
}

type BookSearch struct {
	Query string
	Genre string
	Limit int
}

// UploadRequest - файл в виде data URL (админские загрузки обложек и текстов).
type UploadRequest struct {
	File     string `json:"file"     validate:"required"`
	Filename string `json:"filename" validate:"required,max=255"`
}

type UploadResult struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}
