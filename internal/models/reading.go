package models

type ReadingEntry struct {
	UserID        int64        `json:"user_id"`
	BookID        int64        `json:"book_id"`
	StartReadDate Date         `json:"start_read_date"`
	EndReadDate   *Date        `json:"end_read_date"`
	IsFinished    bool         `json:"is_finished"`
	Book          *BookSummary `json:"book,omitempty"`
}

type BookIDRequest struct {
	BookID int64 `json:"bookId" validate:"required,gt=0"`
}
