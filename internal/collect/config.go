package collect

import (
	"time"
)

type Config struct {
	RequestTimeout time.Duration `envconfig:"INTENT_COLLECT_REQUEST_TIMEOUT" default:"60s"`
}
