package model

import (
	"time"
)

type Product struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	PictureURL      *string   `json:"pictureUrl"`
	CategoryID      *int64    `json:"categoryId"`
	ParentProductID *int64    `json:"parentProductId"`
	DefaultLocation *string   `json:"defaultLocation"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
