package config

import (
	"fmt"
	"net/http"

	"delivery-service/src/internal/gateway/routing"
	"delivery-service/src/pkg/log"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

// NewRoutingProvider builds the routed-distance provider named by
// routing.provider. "none" returns nil and every distance is Haversine.
// Providers wrap httpClient with apmhttp themselves.
func NewRoutingProvider(viper *viper.Viper, redisClient redis.UniversalClient, log log.Log) (routing.Provider, error) {
	httpClient := &http.Client{Timeout: viper.GetDuration("routing.timeout")}

	var provider routing.Provider
	switch name := viper.GetString("routing.provider"); name {
	case "google":
		google, err := routing.NewGoogleProvider(viper.GetString("thirdparty.google.api_key"), httpClient)
		if err != nil {
			return nil, err
		}
		provider = google
	case "osrm":
		provider = routing.NewOSRMProvider(viper.GetString("thirdparty.osrm.endpoint"), httpClient)
	case "none", "":
		log.Info("routing-config", "no routing provider configured, using haversine only", "NewRoutingProvider", "")
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown routing provider %q", name)
	}

	if viper.GetBool("routing.cache.enabled") && redisClient != nil {
		provider = routing.NewCachedProvider(provider, redisClient, viper.GetDuration("routing.cache.ttl"), log)
	}
	return provider, nil
}

func NewResolver(viper *viper.Viper, provider routing.Provider, log log.Log) *routing.Resolver {
	return routing.NewResolver(provider, viper.GetDuration("routing.timeout"), log)
}
