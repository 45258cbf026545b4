package accuracy

import "time"

type Config struct {
	RequestTimeout time.Duration `envconfig:"INTENT_ACCURACY_REQUEST_TIMEOUT" default:"30s"`
}
