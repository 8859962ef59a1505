package cache

import "fmt"

const KeyBookList = "books:list"

func KeyBook(id int64) string { return fmt.Sprintf("books:%d", id) }

func KeyCommentStats(bookID int64) string { return fmt.Sprintf("comments:stats:%d", bookID) }
