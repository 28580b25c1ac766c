package model

import "time"

// PushSubscription holds the information for a browser push subscription.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Bins []SubscriptionBin `gorm:"foreignKey:Endpoint;references:Endpoint;constraint:OnDelete:CASCADE"`
}

// SubscriptionBin maps a push subscription to a bin it wants low-score alerts for.
type SubscriptionBin struct {
	Endpoint string `gorm:"primaryKey"`
	BinID    string `gorm:"primaryKey;size:128;index"`
}
