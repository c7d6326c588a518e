package elastic

import (
	"context"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/SocialShift/Knowledge-Backend/internal/config"
)

// NewElasticClient connects with basic auth as the built-in "elastic" user and
// checks the cluster answers before returning.
func NewElasticClient(ctx context.Context, cfg config.ES) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Hosts,
		Username:  "elastic",
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elastic: bad client config: %w", err)
	}
	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("elastic: cannot connect to %v: %w", cfg.Hosts, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elastic: cluster returned error: %s", res.String())
	}
	return client, nil
}
