package main

import (
	"context"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"

	"github.com/malusev998/fixerio-import/storage"
)

type StorageConfig map[storage.Provider]interface{}

func getMysqlDSN(config map[string]string) string {
	mysqlDriverConfig := mysql.NewConfig()
	mysqlDriverConfig.User = config["user"]
	mysqlDriverConfig.Passwd = config["password"]
	mysqlDriverConfig.Addr = config["addr"]
	mysqlDriverConfig.Net = "tcp"
	mysqlDriverConfig.DBName = config["db"]

	return mysqlDriverConfig.FormatDSN()
}

func getStorageConfig(ctx context.Context, v *viper.Viper) ([]storage.Provider, StorageConfig, error) {
	providers, err := storage.ConvertToProvidersFromStringSlice(v.GetStringSlice("storage"))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid storage list: %w", err)
	}

	mysqlConfig := v.GetStringMapString("databases.mysql")
	mongodbConfig := v.GetStringMapString("databases.mongodb")

	storageBaseConfig := storage.BaseConfig{
		Cxt:     ctx,
		Migrate: v.GetBool("migrate"),
	}

	return providers, StorageConfig{
		storage.MySQL: storage.MySQLConfig{
			BaseConfig:       storageBaseConfig,
			ConnectionString: getMysqlDSN(mysqlConfig),
			TableName:        mysqlConfig["table"],
		},
		storage.MongoDB: storage.MongoDBConfig{
			BaseConfig:       storageBaseConfig,
			ConnectionString: mongodbConfig["uri"],
			Database:         mongodbConfig["db"],
			Collection:       mongodbConfig["collection"],
		},
	}, nil
}
