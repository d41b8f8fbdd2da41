package model

import "time"

type MenuItem struct {
	ID           int64     `json:"id"`
	ItemName     string    `json:"item_name"`
	Price        Price     `json:"price"`
	Category     string    `json:"category"`
	Description  string    `json:"description,omitempty"`
	Photo        string    `json:"photo,omitempty"`
	RestaurantID *int64    `json:"restaurantId,omitempty"`
	Status       string    `json:"status,omitempty"`
	CreatedBy    string    `json:"created_by,omitempty"`
	UpdatedBy    string    `json:"updated_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
