package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Game     GameConfig     `mapstructure:"game"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// GameConfig 游戏规则配置
type GameConfig struct {
	MinPlayers       int           `mapstructure:"min_players"`
	MaxPlayers       int           `mapstructure:"max_players"`
	NumberOfDice     int           `mapstructure:"number_of_dice"`
	DiceSides        int           `mapstructure:"dice_sides"`
	VictoryPoints    int           `mapstructure:"victory_points"`
	MaxRoads         int           `mapstructure:"max_roads"`
	MaxVillages      int           `mapstructure:"max_villages"`
	MaxCities        int           `mapstructure:"max_cities"`
	HandLimit        int           `mapstructure:"hand_limit"`
	DevelopmentCards int           `mapstructure:"development_cards"`
	ActionTimeout    time.Duration `mapstructure:"action_timeout"`
}

// DefaultGame returns the standard rule set. Used when no config file
// is present and as the baseline for tests.
func DefaultGame() GameConfig {
	return GameConfig{
		MinPlayers:       2,
		MaxPlayers:       6,
		NumberOfDice:     2,
		DiceSides:        6,
		VictoryPoints:    10,
		MaxRoads:         15,
		MaxVillages:      5,
		MaxCities:        4,
		HandLimit:        7,
		DevelopmentCards: 25,
		ActionTimeout:    0, // no timeout unless configured
	}
}

func setDefaults() {
	viper.SetDefault("server.http_address", ":8080")
	viper.SetDefault("server.rpc_address", ":8081")
	viper.SetDefault("server.metrics_address", ":9091")

	game := DefaultGame()
	viper.SetDefault("game.min_players", game.MinPlayers)
	viper.SetDefault("game.max_players", game.MaxPlayers)
	viper.SetDefault("game.number_of_dice", game.NumberOfDice)
	viper.SetDefault("game.dice_sides", game.DiceSides)
	viper.SetDefault("game.victory_points", game.VictoryPoints)
	viper.SetDefault("game.max_roads", game.MaxRoads)
	viper.SetDefault("game.max_villages", game.MaxVillages)
	viper.SetDefault("game.max_cities", game.MaxCities)
	viper.SetDefault("game.hand_limit", game.HandLimit)
	viper.SetDefault("game.development_cards", game.DevelopmentCards)
	viper.SetDefault("game.action_timeout", game.ActionTimeout)
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	setDefaults()
	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
