package config

import "time"

type (
	// StorageConfig selects the key-value backend that holds every storefront key
	StorageConfig struct {
		Type     string             `yaml:"type"`     // memory, disk, redis, db or mongo
		Disk     DiskStorageConfig  `yaml:"disk"`     // disk configuration for disk type
		Redis    RedisStorageConfig `yaml:"redis"`    // redis configuration for redis type
		Database DatabaseConfig     `yaml:"database"` // database configuration for db type
		Mongo    MongoStorageConfig `yaml:"mongo"`    // mongo configuration for mongo type
	}

	DiskStorageConfig struct {
		Path string `yaml:"path"` // directory holding one file per key
	}

	RedisStorageConfig struct {
		Addr     string `yaml:"addr"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"` // prepended to every key, e.g. "eliteshop:"
	}

	MongoStorageConfig struct {
		URI        string        `yaml:"uri"`
		Database   string        `yaml:"database"`
		Collection string        `yaml:"collection"`
		Timeout    time.Duration `yaml:"timeout"` // connect timeout
	}
)
