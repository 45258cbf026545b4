package predict

import "time"

type Config struct {
	RequestTimeout  time.Duration `envconfig:"INTENT_PREDICT_REQUEST_TIMEOUT" default:"30s"`
	MaxDataItemsLen int           `envconfig:"INTENT_PREDICT_MAX_DATA_ITEMS_LEN" default:"10"`
}
