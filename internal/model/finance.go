package model

import "time"

// Monetary amounts across the finance tables follow the same minor-unit
// convention as StockQuote: integer centavos, converted at the API boundary.

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OpenID       string    `gorm:"uniqueIndex;size:64;not null" json:"open_id"`
	Name         string    `gorm:"size:200" json:"name"`
	Email        string    `gorm:"size:320" json:"email"`
	LoginMethod  string    `gorm:"size:64" json:"login_method"`
	Role         string    `gorm:"size:16;default:user" json:"role"`
	LastSignedIn time.Time `json:"last_signed_in"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Type      string    `gorm:"size:16;default:expense" json:"type"`
	Icon      string    `gorm:"size:50" json:"icon"`
	Color     string    `gorm:"size:20" json:"color"`
	IsDefault bool      `gorm:"default:false" json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

type Transaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	CategoryID  *uint     `gorm:"index" json:"category_id"`
	AmountCents int64     `gorm:"not null" json:"amount_cents"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Type        string    `gorm:"size:16;not null" json:"type"`
	Date        time.Time `gorm:"index;not null" json:"date"`
	Notes       string    `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Budget struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"index;not null" json:"user_id"`
	CategoryID     *uint      `gorm:"index" json:"category_id"`
	AmountCents    int64      `gorm:"not null" json:"amount_cents"`
	Period         string     `gorm:"size:16;default:monthly" json:"period"`
	StartDate      time.Time  `gorm:"not null" json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	AlertThreshold int        `gorm:"default:80" json:"alert_threshold"`
	IsActive       bool       `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type Goal struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	UserID             uint       `gorm:"index;not null" json:"user_id"`
	Name               string     `gorm:"size:200;not null" json:"name"`
	Description        string     `gorm:"type:text" json:"description"`
	TargetAmountCents  int64      `gorm:"not null" json:"target_amount_cents"`
	CurrentAmountCents int64      `gorm:"default:0" json:"current_amount_cents"`
	Deadline           *time.Time `json:"deadline"`
	Priority           string     `gorm:"size:16;default:medium" json:"priority"`
	Status             string     `gorm:"size:16;default:active" json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type ChatMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Role      string    `gorm:"size:16;not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	ImageURL  string    `gorm:"size:500" json:"image_url"`
	Metadata  string    `gorm:"type:text" json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}

type Alert struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"index;not null" json:"user_id"`
	Type              string    `gorm:"size:32;not null" json:"type"`
	Title             string    `gorm:"size:200;not null" json:"title"`
	Message           string    `gorm:"type:text;not null" json:"message"`
	Severity          string    `gorm:"size:16;default:info" json:"severity"`
	IsRead            bool      `gorm:"default:false" json:"is_read"`
	RelatedEntityID   *uint     `json:"related_entity_id"`
	RelatedEntityType string    `gorm:"size:50" json:"related_entity_type"`
	CreatedAt         time.Time `json:"created_at"`
}
