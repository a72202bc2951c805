package models

import "time"

// TicketModel is a live ticket row. The channel id doubles as the primary
// key; a channel is a ticket or it is not.
type TicketModel struct {
	ChannelID   string    `gorm:"primaryKey;size:32"`
	ChannelName string    `gorm:"size:100;not null"`
	GuildID     string    `gorm:"size:32;not null;index"`
	UserID      string    `gorm:"size:32;not null;index"`
	Username    string    `gorm:"size:100;not null"`
	TicketType  string    `gorm:"size:20;not null;index"`
	Status      string    `gorm:"size:20;not null;index"`
	CheckState  int       `gorm:"not null;default:2"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`

	// Note: No foreign key constraints or associations.
	// All relationships are managed by application business logic.
}

func (TicketModel) TableName() string {
	return "requests"
}

// ArchiveModel mirrors TicketModel for deleted tickets. Rows are written once
// by the archive-and-delete transaction and never updated.
type ArchiveModel struct {
	ChannelID   string    `gorm:"primaryKey;size:32"`
	ChannelName string    `gorm:"size:100;not null"`
	GuildID     string    `gorm:"size:32;not null;index"`
	UserID      string    `gorm:"size:32;not null;index"`
	Username    string    `gorm:"size:100;not null"`
	TicketType  string    `gorm:"size:20;not null;index"`
	Status      string    `gorm:"size:20;not null"`
	CheckState  int       `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
	ArchivedAt  time.Time `gorm:"autoCreateTime;not null"`
}

func (ArchiveModel) TableName() string {
	return "archive"
}
