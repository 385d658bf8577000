package cnst

const (
	// AppName is the display name used in logs and traces
	AppName = "eliteshop"
	// CommandName is the name of the binary
	CommandName = "eliteshop"
	// ConfigYaml is the default config file name
	ConfigYaml = "eliteshop.yaml"
)

// Storage backend types
const (
	StorageTypeMemory = "memory"
	StorageTypeDisk   = "disk"
	StorageTypeRedis  = "redis"
	StorageTypeDB     = "db"
	StorageTypeMongo  = "mongo"
)

// Payment account numbers shown at checkout
const (
	NagadNumber = "01947249756"
	BKashNumber = "01712474001"
)
