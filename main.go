package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/truthlens/proof-hub/cache"
	"github.com/truthlens/proof-hub/config"
	"github.com/truthlens/proof-hub/db"
	"github.com/truthlens/proof-hub/external"
	"github.com/truthlens/proof-hub/logging"
	"github.com/truthlens/proof-hub/metrics"
	"github.com/truthlens/proof-hub/restapi"
	"github.com/truthlens/proof-hub/restapi/handlers"
	"github.com/truthlens/proof-hub/service"
)

func initFlags() {
	flag.String(config.FlagConfigPath, "", "config file path")
	flag.String(config.FlagConfigType, "", "config type, local or aws")
	flag.String(config.FlagConfigAwsRegion, "", "aws region")
	flag.String(config.FlagConfigAwsSecretKey, "", "aws secret key")
	flag.String(config.FlagConfigPrivateKey, "", "ledger private key")
	flag.String(config.FlagConfigDbPass, "", "db password")

	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	pflag.Parse()
	err := viper.BindPFlags(pflag.CommandLine)
	if err != nil {
		panic(err)
	}
}

func printUsage() {
	fmt.Print("usage: ./proof-hub --config-type local --config-path configFile\n")
	fmt.Print("usage: ./proof-hub --config-type aws --aws-region awsRegion --aws-secret-key awsSecretKey\n")
}

func main() {
	var (
		cfg                        *config.Config
		configType, configFilePath string
	)
	initFlags()
	configType = viper.GetString(config.FlagConfigType)
	if configType == "" {
		configType = os.Getenv(config.EnvVarConfigType)
	}
	if configType != config.AWSConfig && configType != config.LocalConfig {
		printUsage()
		return
	}
	if configType == config.AWSConfig {
		awsSecretKey := viper.GetString(config.FlagConfigAwsSecretKey)
		if awsSecretKey == "" {
			printUsage()
			return
		}
		awsRegion := viper.GetString(config.FlagConfigAwsRegion)
		if awsRegion == "" {
			printUsage()
			return
		}
		configContent, err := config.GetSecret(awsSecretKey, awsRegion)
		if err != nil {
			fmt.Printf("get aws config error, err=%s", err.Error())
			return
		}
		cfg = config.ParseConfigFromJson(configContent)
	} else {
		configFilePath = viper.GetString(config.FlagConfigPath)
		if configFilePath == "" {
			configFilePath = os.Getenv(config.EnvVarConfigFilePath)
			if configFilePath == "" {
				printUsage()
				return
			}
		}
		cfg = config.ParseConfigFromFile(configFilePath)
	}
	if cfg == nil {
		panic("failed to get configuration")
	}
	cfg.Validate()
	logging.InitLogger(&cfg.LogConfig)

	password := viper.GetString(config.FlagConfigDbPass)
	if password == "" {
		password = os.Getenv(config.EnvVarDBUserPass)
		if password == "" {
			password = cfg.DBConfig.Password
		}
	}
	privateKey := viper.GetString(config.FlagConfigPrivateKey)
	if privateKey == "" {
		privateKey = os.Getenv(config.EnvVarPrivateKey)
	}
	if privateKey != "" {
		cfg.LedgerConfig.PrivateKey = privateKey
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Silent,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
	var dialector gorm.Dialector
	if cfg.DBConfig.Dialect == config.DBDialectMysql {
		dbPath := fmt.Sprintf("%s:%s@%s", cfg.DBConfig.Username, password, cfg.DBConfig.Url)
		dialector = mysql.Open(dbPath)
	} else {
		dialector = sqlite.Open(cfg.DBConfig.Url)
	}
	database, err := gorm.Open(dialector, &gorm.Config{Logger: newLogger})
	if err != nil {
		panic(fmt.Sprintf("open db error, err=%s", err.Error()))
	}
	dbConfig, err := database.DB()
	if err != nil {
		panic(err)
	}
	dbConfig.SetMaxIdleConns(cfg.DBConfig.MaxIdleConns)
	dbConfig.SetMaxOpenConns(cfg.DBConfig.MaxOpenConns)
	db.AutoMigrateDB(database)

	dao := db.NewVerificationSvcDB(database)

	var anchorClient service.LedgerAnchor
	if cfg.LedgerConfig.Configured() {
		client, err := external.NewAnchorClient(&cfg.LedgerConfig)
		if err != nil {
			panic(fmt.Sprintf("new anchor client error, err=%s", err.Error()))
		}
		anchorClient = client
	} else {
		logging.Logger.Error("ledger not configured, verification submission will be rejected")
	}
	storeClient := external.NewStoreClient(&cfg.StoreConfig)
	if !cfg.StoreConfig.Configured() {
		logging.Logger.Error("content store not configured, captures will not be uploaded off-chain")
	}
	classifierClient := external.NewClassifierClient(&cfg.ClassifierConfig)
	if !cfg.ClassifierConfig.Configured() {
		logging.Logger.Error("classifier not configured, assessments will use the conservative default")
	}

	cacheService, err := cache.NewLocalCache(cfg.CacheConfig.GetCacheSize())
	if err != nil {
		panic(err)
	}

	if cfg.MetricsConfig.Enable {
		metricsServer := metrics.NewMetrics(cfg.MetricsConfig.HTTPAddress)
		metricsServer.Start()
	}

	svc := service.NewVerificationService(dao, anchorClient, storeClient, classifierClient, cacheService, cfg)
	router := restapi.SetupRouter(handlers.NewHandler(svc, cfg))

	logging.Logger.Infof("starting proof hub server at %s", cfg.ServerConfig.HTTPAddress)
	if err := router.Run(cfg.ServerConfig.HTTPAddress); err != nil {
		panic(err)
	}
}
