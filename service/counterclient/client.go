package counterclient

import (
	"errors"
	"net/http"
	"time"
)

var (
	ErrStatusCodeNotOk = errors.New("http.status != 200")
)

type ClientCfg struct {
	HttpClient http.Client
	Timeout    time.Duration
	// BaseURL of a counterd instance, e.g. http://localhost:8080
	BaseURL string
}
