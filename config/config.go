package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type Config struct {
	LogConfig        LogConfig        `json:"log_config"`
	DBConfig         DBConfig         `json:"db_config"`
	ServerConfig     ServerConfig     `json:"server_config"`
	MetricsConfig    MetricsConfig    `json:"metrics_config"`
	CacheConfig      CacheConfig      `json:"cache_config"`
	LedgerConfig     LedgerConfig     `json:"ledger_config"`
	StoreConfig      StoreConfig      `json:"store_config"`
	ClassifierConfig ClassifierConfig `json:"classifier_config"`
}

type ServerConfig struct {
	HTTPAddress string `json:"http_address"`
}

type MetricsConfig struct {
	Enable      bool   `json:"enable"`
	HTTPAddress string `json:"http_address"`
}

type LedgerConfig struct {
	RPCAddr              string `json:"rpc_addr"`                // execution-layer JSON-RPC endpoint of the anchoring chain
	ContractAddress      string `json:"contract_address"`        // deployed verification registry contract
	PrivateKey           string `json:"private_key"`             // signs anchoring transactions, hex without 0x prefix
	ChainID              int64  `json:"chain_id"`
	ConfirmTimeoutSec    int64  `json:"confirm_timeout_sec"`     // bounds the wait for transaction confirmation
	BlockExplorerURLTmpl string `json:"block_explorer_url_tmpl"` // e.g. https://polygonscan.com/tx/%s
}

// Configured reports whether anchoring can operate. Anchoring is a mandatory
// pipeline step, so an unconfigured ledger is surfaced as an error on submit
// instead of degrading silently.
func (cfg *LedgerConfig) Configured() bool {
	return cfg.RPCAddr != "" && cfg.ContractAddress != "" && cfg.PrivateKey != ""
}

func (cfg *LedgerConfig) ConfirmTimeoutSeconds() int64 {
	if cfg.ConfirmTimeoutSec > 0 {
		return cfg.ConfirmTimeoutSec
	}
	return DefaultConfirmTimeoutSec
}

type StoreConfig struct {
	Endpoint   string `json:"endpoint"`    // pinning service upload API
	JWT        string `json:"jwt"`         // bearer token for the pinning service
	GatewayURL string `json:"gateway_url"` // prefixes a content id to build a retrieval URL
	TimeoutSec int64  `json:"timeout_sec"`
}

func (cfg *StoreConfig) Configured() bool {
	return cfg.Endpoint != "" && cfg.JWT != ""
}

func (cfg *StoreConfig) TimeoutSeconds() int64 {
	if cfg.TimeoutSec > 0 {
		return cfg.TimeoutSec
	}
	return DefaultEnrichTimeoutSec
}

type ClassifierConfig struct {
	Endpoint   string `json:"endpoint"` // inference service model URL
	APIKey     string `json:"api_key"`
	TimeoutSec int64  `json:"timeout_sec"`
}

func (cfg *ClassifierConfig) Configured() bool {
	return cfg.Endpoint != "" && cfg.APIKey != ""
}

func (cfg *ClassifierConfig) TimeoutSeconds() int64 {
	if cfg.TimeoutSec > 0 {
		return cfg.TimeoutSec
	}
	return DefaultEnrichTimeoutSec
}

type CacheConfig struct {
	CacheSize uint64 `json:"cache_size"`
}

func (c *CacheConfig) GetCacheSize() uint64 {
	if c.CacheSize != 0 {
		return c.CacheSize
	}
	return DefaultCacheSize
}

type DBConfig struct {
	Dialect      string `json:"dialect"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	Url          string `json:"url"`
	MaxIdleConns int    `json:"max_idle_conns"`
	MaxOpenConns int    `json:"max_open_conns"`
}

func (cfg *DBConfig) Validate() {
	if cfg.Dialect != DBDialectMysql && cfg.Dialect != DBDialectSqlite3 {
		panic(fmt.Sprintf("only %s and %s supported", DBDialectMysql, DBDialectSqlite3))
	}
	if cfg.Dialect == DBDialectMysql && (cfg.Username == "" || cfg.Url == "") {
		panic("db config is not correct, missing username and/or url")
	}
	if cfg.MaxIdleConns == 0 || cfg.MaxOpenConns == 0 {
		panic("db connections is not correct")
	}
}

type LogConfig struct {
	Level                        string `json:"level"`
	Filename                     string `json:"filename"`
	MaxFileSizeInMB              int    `json:"max_file_size_in_mb"`
	MaxBackupsOfLogFiles         int    `json:"max_backups_of_log_files"`
	MaxAgeToRetainLogFilesInDays int    `json:"max_age_to_retain_log_files_in_days"`
	UseConsoleLogger             bool   `json:"use_console_logger"`
	UseFileLogger                bool   `json:"use_file_logger"`
	Compress                     bool   `json:"compress"`
}

func (cfg *LogConfig) Validate() {
	if cfg.UseFileLogger {
		if cfg.Filename == "" {
			panic("filename should not be empty if use file logger")
		}
		if cfg.MaxFileSizeInMB <= 0 {
			panic("max_file_size_in_mb should be larger than 0 if use file logger")
		}
		if cfg.MaxBackupsOfLogFiles <= 0 {
			panic("max_backups_off_log_files should be larger than 0 if use file logger")
		}
	}
}

func (c *Config) Validate() {
	c.LogConfig.Validate()
	c.DBConfig.Validate()
	if c.ServerConfig.HTTPAddress == "" {
		panic("server http_address should not be empty")
	}
}

func ParseConfigFromJson(content string) *Config {
	var config Config
	if err := json.Unmarshal([]byte(content), &config); err != nil {
		panic(err)
	}
	return &config
}

func ParseConfigFromFile(filePath string) *Config {
	bz, err := os.ReadFile(filePath)
	if err != nil {
		panic(err)
	}

	var config Config
	if err := json.Unmarshal(bz, &config); err != nil {
		panic(err)
	}
	return &config
}
