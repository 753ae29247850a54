package config

import "fmt"

// ServerApp holds intake server process settings.
type ServerApp struct {
	HashKey      string
	TokenSignKey string
	TokenIssuer  string
	LogLevel     string
}

// ServerDB holds the PostgreSQL settings.
type ServerDB struct {
	DSN string
}

// ServerStorage groups the server's persistence settings.
type ServerStorage struct {
	DB ServerDB
}

// ServerConfig is the intake server's configuration view.
type ServerConfig struct {
	App     ServerApp
	Storage ServerStorage
	Server  Server
}

// GetServerConfig merges all sources with the given parsed flag values and
// returns a validated [ServerConfig].
func GetServerConfig(flags *StructuredConfig) (*ServerConfig, error) {
	cfg, err := GetStructuredConfig(flags)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := &ServerConfig{
		App: ServerApp{
			HashKey:      cfg.App.HashKey,
			TokenSignKey: cfg.App.TokenSignKey,
			TokenIssuer:  cfg.App.TokenIssuer,
			LogLevel:     cfg.App.LogLevel,
		},
		Storage: ServerStorage{DB: ServerDB{DSN: cfg.Storage.DB.DSN}},
		Server:  cfg.Server,
	}

	return serverCfg, serverCfg.validate()
}
