package db

import (
	"time"

	"gorm.io/gorm"
)

// Record kinds, used in logs and errors.
const (
	KindChat         = "chat"
	KindBeeTraffic   = "bee_traffic"
	KindCropRotation = "crop_rotation"
)

// Chat 聊天记录
// is_user: true for a user message, false for a generated reply
type Chat struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	IsUser    bool      `gorm:"not null" json:"is_user"`
	Timestamp time.Time `gorm:"not null;index;precision:3" json:"timestamp"`
}

func (Chat) TableName() string { return "chats" }

func (c *Chat) BeforeCreate(*gorm.DB) error {
	c.Timestamp = defaultTimestamp(c.Timestamp)
	return nil
}

type BeeTraffic struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Level     string    `gorm:"size:50;not null" json:"level"`
	Timestamp time.Time `gorm:"not null;precision:3" json:"timestamp"`
}

func (BeeTraffic) TableName() string { return "bee_traffic" }

func (b *BeeTraffic) BeforeCreate(*gorm.DB) error {
	b.Timestamp = defaultTimestamp(b.Timestamp)
	return nil
}

// CropRotation 轮作计划
type CropRotation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Crop      string    `gorm:"size:100;not null" json:"crop"`
	Soil      string    `gorm:"size:100;not null" json:"soil"`
	Duration  string    `gorm:"size:100;not null" json:"duration"`
	Plan      string    `gorm:"type:text;not null" json:"plan"`
	Timestamp time.Time `gorm:"not null;precision:3" json:"timestamp"`
}

func (CropRotation) TableName() string { return "crop_rotations" }

func (r *CropRotation) BeforeCreate(*gorm.DB) error {
	r.Timestamp = defaultTimestamp(r.Timestamp)
	return nil
}

// Models lists every table migrated at startup.
func Models() []any {
	return []any{&Chat{}, &BeeTraffic{}, &CropRotation{}}
}

// timestampPrecision matches the precision:3 column tag. A create response
// must carry the same instant a later list reads back.
const timestampPrecision = time.Millisecond

var now = func() time.Time { return time.Now().UTC() }

func defaultTimestamp(ts time.Time) time.Time {
	if ts.IsZero() {
		ts = now()
	}
	return ts.UTC().Truncate(timestampPrecision)
}
