package dispatcher

import "time"

type Config struct {
	RebuildDBTime   time.Duration `envconfig:"INTENT_DISPATCHER_REBUILD_DB_TIME" default:"15s"`
	MaxItemsStored  int           `envconfig:"INTENT_DISPATCHER_MAX_ITEMS_STORED"`
	MaxStorageTime  time.Duration `envconfig:"INTENT_DISPATCHER_MAX_STORAGE_TIME"`
	DBFlushSize     int           `envconfig:"INTENT_DISPATCHER_DB_FLUSH_SIZE" default:"10"`
	DBFlushTime     time.Duration `envconfig:"INTENT_DISPATCHER_DB_FLUSH_TIME" default:"5s"`
	EngineCacheSize int           `envconfig:"INTENT_DISPATCHER_ENGINE_CACHE_SIZE" default:"128"`
	AccuracyFloor   float64       `envconfig:"INTENT_DISPATCHER_ACCURACY_FLOOR" default:"0"`
}
