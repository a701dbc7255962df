package client

import "net/http"

// Option represents option
type Option func(*Service)

// WithTable sets the table name
func WithTable(table string) Option {
	return func(s *Service) {
		if table != "" {
			s.table = table
		}
	}
}

// WithHTTPClient sets the HTTP client; pass one backed by the resilient
// transport to get transparent refresh-and-replay.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		s.client = client
	}
}
