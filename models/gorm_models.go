// models/gorm_models.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// GormPlayer 玩家档案模型
type GormPlayer struct {
	gorm.Model
	Name       string `gorm:"uniqueIndex;not null"`
	TotalGames int    `gorm:"default:0"`
	Wins       int    `gorm:"default:0"`
}

// GormMatchRecord 对局记录模型
type GormMatchRecord struct {
	gorm.Model
	RoomID    string                 `gorm:"index;not null"`
	Rounds    int                    `gorm:"default:0"`
	Winner    string                 `gorm:"not null"`
	Results   map[string]interface{} `gorm:"type:jsonb;not null"`
	StartedAt time.Time
	EndedAt   time.Time
}

// PlayerStats 玩家统计信息
type PlayerStats struct {
	TotalGames int `json:"total_games"`
	Wins       int `json:"wins"`
	Losses     int `json:"losses"`
}
