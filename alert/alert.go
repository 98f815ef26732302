// Package alert ships per-business sync failures to the operations
// channels. Events are fire-and-forget: delivery failures are logged and
// never retried, and never fail the sync.
package alert

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Notifier receives one structured event per reported failure.
type Notifier interface {
	Post(level, message, source string, params map[string]string)
}

type event struct {
	Date    string            `json:"date"`
	Level   string            `json:"level"`
	Message string            `json:"message"`
	Method  string            `json:"method"`
	Params  map[string]string `json:"params"`
}

// Collector posts events as JSON to an HTTP collector endpoint (a
// SumoLogic-style hosted source URL).
type Collector struct {
	url    string
	client *http.Client
	log    *zap.SugaredLogger
	now    func() time.Time
}

func NewCollector(url string, log *zap.SugaredLogger) *Collector {
	return &Collector{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
		now:    time.Now,
	}
}

func (c *Collector) Post(level, message, source string, params map[string]string) {
	body, err := json.Marshal(event{
		Date:    c.now().Format("01/02/2006, 15:04:05"),
		Level:   level,
		Message: message,
		Method:  source,
		Params:  params,
	})
	if err != nil {
		c.log.Errorw("alert encode failed", "err", err)
		return
	}
	res, err := c.client.Post(c.url, "application/json", bytes.NewReader(body))
	if err != nil {
		c.log.Errorw("alert post failed", "err", err)
		return
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		c.log.Errorw("alert post rejected", "status", res.StatusCode)
	}
}

// Multi fans one event out to several notifiers.
type Multi []Notifier

func (m Multi) Post(level, message, source string, params map[string]string) {
	for _, n := range m {
		n.Post(level, message, source, params)
	}
}
