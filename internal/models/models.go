package models

import "time"

type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Views     int64     `json:"views"`
}

type ContactMessage struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name" validate:"required,max=200"`
	Email       string    `json:"email" validate:"required,max=320,email,dotted_domain"`
	Message     string    `json:"message" validate:"required,max=5000"`
	SubmittedAt time.Time `json:"submitted_at"`
}
