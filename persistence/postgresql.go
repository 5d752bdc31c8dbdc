// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	// PostgreSQL 驱动
	_ "github.com/lib/pq" // PostgreSQL 驱动

	"github.com/wfunc/settlers/models"
)

// PostgreSQL 数据库实现
type PostgreSQL struct {
	db *sql.DB
}

// NewPostgreSQL 创建 PostgreSQL 数据库连接
func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	// 设置连接池参数
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// 初始化表结构
	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

// initTables 初始化数据库表结构
func initTables(db *sql.DB) error {
	// 创建玩家表
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS players (
            id SERIAL PRIMARY KEY,
            name VARCHAR(255) UNIQUE NOT NULL,
            total_games INT NOT NULL DEFAULT 0,
            wins INT NOT NULL DEFAULT 0,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	// 创建对局记录表
	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS match_records (
            id SERIAL PRIMARY KEY,
            room_id VARCHAR(255) NOT NULL,
            rounds INT NOT NULL DEFAULT 0,
            winner VARCHAR(255) NOT NULL,
            results JSONB NOT NULL,
            started_at TIMESTAMP NOT NULL,
            ended_at TIMESTAMP NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	// 创建索引以提高查询性能
	_, err = db.Exec(`
        CREATE INDEX IF NOT EXISTS idx_players_name ON players(name);
        CREATE INDEX IF NOT EXISTS idx_match_records_room_id ON match_records(room_id);
        CREATE INDEX IF NOT EXISTS idx_match_records_created_at ON match_records(created_at);
    `)

	return err
}

// SaveMatchRecord 保存对局记录并更新每个玩家的战绩
func (p *PostgreSQL) SaveMatchRecord(record models.MatchRecord) error {
	resultsJSON, err := json.Marshal(record.Results)
	if err != nil {
		return err
	}

	winner := ""
	for _, r := range record.Results {
		if r.Winner {
			winner = r.Name
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
        INSERT INTO match_records (room_id, rounds, winner, results, started_at, ended_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, record.RoomID, record.Rounds, winner, resultsJSON, record.StartedAt, record.EndedAt)
	if err != nil {
		return err
	}

	for _, r := range record.Results {
		win := 0
		if r.Winner {
			win = 1
		}

		// 使用 UPSERT 操作 (PostgreSQL 9.5+)
		_, err = tx.ExecContext(ctx, `
            INSERT INTO players (name, total_games, wins)
            VALUES ($1, 1, $2)
            ON CONFLICT (name)
            DO UPDATE SET
                total_games = players.total_games + 1,
                wins = players.wins + $2,
                updated_at = CURRENT_TIMESTAMP
        `, r.Name, win)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// PlayerStats 查询玩家战绩
func (p *PostgreSQL) PlayerStats(name string) (models.PlayerStats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var stats models.PlayerStats
	query := `SELECT total_games, wins, total_games - wins FROM players WHERE name = $1`
	err := p.db.QueryRowContext(ctx, query, name).Scan(&stats.TotalGames, &stats.Wins, &stats.Losses)
	if err != nil {
		if err == sql.ErrNoRows {
			return stats, ErrRecordNotFound
		}
		return stats, err
	}

	return stats, nil
}

// Close 关闭数据库连接
func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
