package models

type ChallengeModel struct {
	ID       int    `gorm:"primaryKey"`
	Title    string `gorm:"size:200;not null;index"`
	Author   string `gorm:"size:200;not null"`
	Category string `gorm:"size:50;not null;index"`
	Ignore   bool   `gorm:"not null;default:false"`
	// HelperIDs is a JSON-serialized list of Discord user ids.
	HelperIDs string `gorm:"type:json"`
}

func (ChallengeModel) TableName() string {
	return "challenges"
}

type HelperModel struct {
	DiscordID   string `gorm:"primaryKey;size:32"`
	IsAvailable bool   `gorm:"not null;default:true"`
}

func (HelperModel) TableName() string {
	return "helpers"
}
