package models

import "time"

type Comment struct {
	ID        int64          `json:"id"`
	BookID    int64          `json:"book_id"`
	UserID    int64          `json:"user_id"`
	Rating    int            `json:"rating"`
	Comment   *string        `json:"comment"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt *time.Time     `json:"updated_at,omitempty"`
	Account   *CommentAuthor `json:"account,omitempty"`
}

type CommentAuthor struct {
	ID        int64   `json:"id"`
	Name      *string `json:"name"`
	Email     string  `json:"email"`
	AvatarURL *string `json:"avatarUrl"`
}

type CommentStats struct {
	AverageRating *float64 `json:"averageRating"`
	TotalComments int      `json:"totalComments"`
}

type CommentPage struct {
	Comments []Comment `json:"comments"`
	Total    int       `json:"total"`
}

// CommentRequest - рейтинг приходит числом, целочисленность проверяет сервис.
type CommentRequest struct {
	BookID  int64    `json:"bookId"`
	Rating  *float64 `json:"rating"`
	Comment *string  `json:"comment"`
}

type CommentFilter struct {
	BookID *int64
	UserID *int64
	Limit  int
	Offset int
}
