package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account - профиль читателя. Сериализуется как ответ /api/account/me.
type Account struct {
	ID              int64        `json:"id"`
	Email           string       `json:"email"`
	PasswordHash    string       `json:"-"`
	Pseudo          string       `json:"pseudo"`
	Name            *string      `json:"name"`
	DateOfBirth     *Date        `json:"dateOfBirth"`
	Region          *string      `json:"region"`
	FavouriteBook   *string      `json:"favouriteBook"`
	FavouriteAuthor *string      `json:"favouriteAuthor"`
	FavouriteGenres []string     `json:"favouriteGenres"`
	AvatarURL       *string      `json:"avatarUrl"`
	Role            string       `json:"role"`
	Subscription    Subscription `json:"subscription"`
	CreatedAt       time.Time    `json:"createdAt"`
}

// Preferences - сигналы профиля для рекомендаций.
type Preferences struct {
	FavouriteGenres []string
	FavouriteAuthor *string
}

// swagger:model RegisterRequest
type RegisterRequest struct {
	Email           string     `json:"email"    validate:"required,email,max=254" example:"reader@example.com"`
	Password        string     `json:"password" validate:"required,min=6,max=72"`
	Pseudo          string     `json:"pseudo"   validate:"required,max=64"        example:"bookworm"`
	Name            *string    `json:"name"`
	DateOfBirth     *string    `json:"dateOfBirth"`
	Region          *string    `json:"region"`
	FavouriteBook   *string    `json:"favouriteBook"`
	FavouriteAuthor *string    `json:"favouriteAuthor"`
	FavouriteGenres *GenreList `json:"favouriteGenres" swaggertype:"array,string"`
}

// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token   string   `json:"token"`
	Profile *Account `json:"profile"`
}

// UpdateProfileRequest - частичное обновление; nil = поле не трогаем, "" = очистить.
type UpdateProfileRequest struct {
	Email           *string    `json:"email"`
	Pseudo          *string    `json:"pseudo"`
	Password        *string    `json:"password"`
	Name            *string    `json:"name"`
	DateOfBirth     *string    `json:"dateOfBirth"`
	Region          *string    `json:"region"`
	FavouriteBook   *string    `json:"favouriteBook"`
	FavouriteAuthor *string    `json:"favouriteAuthor"`
	FavouriteGenres *GenreList `json:"favouriteGenres" swaggertype:"array,string"`
}

// AccountUpdate - уже провалидированные поля для UPDATE.
// Для nullable-полей пустая строка записывается как NULL.
type AccountUpdate struct {
	Email           *string
	Pseudo          *string
	PasswordHash    *string
	Name            *string
	DateOfBirth     *Date
	ClearBirthDate  bool
	Region          *string
	FavouriteBook   *string
	FavouriteAuthor *string
	FavouriteGenres *[]string
}

func (u AccountUpdate) Empty() bool {
	return u.Email == nil && u.Pseudo == nil && u.PasswordHash == nil && u.Name == nil &&
		u.DateOfBirth == nil && !u.ClearBirthDate && u.Region == nil && u.FavouriteBook == nil &&
		u.FavouriteAuthor == nil && u.FavouriteGenres == nil
}

type AvatarRequest struct {
	Image string `json:"image" validate:"required"`
}
