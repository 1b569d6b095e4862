package openweathermap

import (
	"errors"
	"strings"
)

// redactKey strips the appid value from transport errors, which echo the request URL
func redactKey(err error, apiKey string) error {
	if apiKey == "" {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), apiKey, "REDACTED"))
}

func truncate(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n]) + "..."
}
