package model

import "time"

// Client - клиент, записывающийся на слоты
type Client struct {
	ID        int64      `json:"id"`
	TgUserID  int64      `json:"tg_user_id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}
