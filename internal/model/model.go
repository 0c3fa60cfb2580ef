package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Model 主键为 uuid 字符串，表格垫片和数据库共用同一个 id
type Model struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id" sheet:"id"`
	CreatedAt time.Time `json:"createdAt,omitzero" sheet:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt,omitzero" sheet:"updatedAt"`
}

// BeforeCreate 没有 id 时生成一个
func (m *Model) BeforeCreate(*gorm.DB) error {
	m.EnsureID()
	return nil
}

func (m *Model) EnsureID() string {
	if m.ID == "" {
		m.ID = NewID()
	}
	return m.ID
}

func NewID() string {
	return uuid.NewString()
}
