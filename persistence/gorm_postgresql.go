// persistence/gorm_postgresql.go
package persistence

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wfunc/settlers/models"
)

// GormPostgreSQL 使用GORM的PostgreSQL实现
type GormPostgreSQL struct {
	db *gorm.DB
}

// NewGormPostgreSQL 创建GORM PostgreSQL数据库连接
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	// 配置GORM日志
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold: time.Second,   // 慢SQL阈值
			LogLevel:      logger.Silent, // 日志级别
			Colorful:      false,         // 禁用彩色打印
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	// 获取通用数据库对象 sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// 自动迁移表结构
	if err := autoMigrate(db); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

// autoMigrate 自动迁移表结构
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.GormPlayer{},
		&models.GormMatchRecord{},
	)
}

// SaveMatchRecord 保存对局记录并更新每个玩家的战绩
func (p *GormPostgreSQL) SaveMatchRecord(record models.MatchRecord) error {
	results := make(map[string]interface{}, len(record.Results))
	winner := ""
	for _, r := range record.Results {
		results[r.Name] = map[string]interface{}{
			"player_id":      r.PlayerID,
			"victory_points": r.VictoryPoints,
			"knights_played": r.KnightsPlayed,
			"winner":         r.Winner,
		}
		if r.Winner {
			winner = r.Name
		}
	}

	return p.db.Transaction(func(tx *gorm.DB) error {
		match := models.GormMatchRecord{
			RoomID:    record.RoomID,
			Rounds:    record.Rounds,
			Winner:    winner,
			Results:   results,
			StartedAt: record.StartedAt,
			EndedAt:   record.EndedAt,
		}
		if err := tx.Create(&match).Error; err != nil {
			return err
		}

		for _, r := range record.Results {
			var player models.GormPlayer
			err := tx.Where("name = ?", r.Name).First(&player).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				player = models.GormPlayer{Name: r.Name}
			} else if err != nil {
				return err
			}

			player.TotalGames++
			if r.Winner {
				player.Wins++
			}
			if err := tx.Save(&player).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// PlayerStats 查询玩家战绩
func (p *GormPostgreSQL) PlayerStats(name string) (models.PlayerStats, error) {
	var stats models.PlayerStats

	// 使用原生SQL查询
	result := p.db.Raw(
		`
        SELECT
            total_games,
            wins,
            total_games - wins AS losses
        FROM gorm_players
        WHERE name = ? AND deleted_at IS NULL`,
		name,
	).Scan(&stats)

	if result.Error != nil {
		return stats, result.Error
	}
	if result.RowsAffected == 0 {
		return stats, ErrRecordNotFound
	}
	return stats, nil
}

// Close 关闭数据库连接
func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
