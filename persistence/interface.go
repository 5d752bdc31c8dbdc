// persistence/interface.go
package persistence

import (
	"fmt"

	"github.com/wfunc/settlers/models"
)

// Database 数据库接口
type Database interface {
	SaveMatchRecord(record models.MatchRecord) error
	PlayerStats(name string) (models.PlayerStats, error)
	Close() error
}

// 错误定义
var (
	ErrRecordNotFound = fmt.Errorf("record not found")
)
