package model

import "time"

type Booklet struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	PDFURL     string    `json:"pdf_url"`
	StorageKey string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}
