package models

import "time"

// Author is a snapshot of a user's id and display name taken when the
// question or answer was written. It is not kept in sync with the account.
type Author struct {
	ID       string `json:"id"`
	UserName string `json:"username"`
}

// Question is the aggregate root: it owns its answers in insertion order.
type Question struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    Author    `json:"author"`
	Views     int64     `json:"views"`
	CreatedAt time.Time `json:"createdAt"`
	Answers   []Answer  `json:"answers"`
}

// Answer lives inside a Question. Thanks always equals len(ThankedBy).
type Answer struct {
	ID        string    `json:"_id"`
	Content   string    `json:"content"`
	Author    Author    `json:"author"`
	Thanks    int64     `json:"thanks"`
	ThankedBy []string  `json:"thankedBy"`
	CreatedAt time.Time `json:"createdAt"`
}
