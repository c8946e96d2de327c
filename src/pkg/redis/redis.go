package redis

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	UseCluster      bool
	EnableTLS       bool
	Host            string
	Port            string
	Password        string
	DB              int
	ClusterNodes    string
	ClusterUsername string
	ClusterPassword string
}

func (c Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Nodes splits the ';' separated cluster node list.
func (c Config) Nodes() []string {
	var nodes []string
	for _, node := range strings.Split(c.ClusterNodes, ";") {
		if node = strings.TrimSpace(node); node != "" {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

func (c Config) TLS() *tls.Config {
	if !c.EnableTLS {
		return nil
	}
	return &tls.Config{MinVersion: tls.VersionTLS12}
}

// NewClient connects to a single node or a cluster and pings it once.
func NewClient(ctx context.Context, cfg Config) (redis.UniversalClient, error) {
	var client redis.UniversalClient
	if !cfg.UseCluster {
		client = redis.NewClient(&redis.Options{
			Addr:         cfg.Addr(),
			Password:     cfg.Password,
			DB:           cfg.DB,
			TLSConfig:    cfg.TLS(),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
			MaxRetries:   2,
		})
	} else {
		client = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:        cfg.Nodes(),
			Username:     cfg.ClusterUsername,
			Password:     cfg.ClusterPassword,
			TLSConfig:    cfg.TLS(),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
	}

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
