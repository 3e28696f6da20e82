package engine

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"github.com/vidscout/vidscout/classify"
	"github.com/vidscout/vidscout/config"
	"github.com/vidscout/vidscout/detect"
	"github.com/vidscout/vidscout/detect/custom"
	"github.com/vidscout/vidscout/key"
	"github.com/vidscout/vidscout/log"
	"github.com/vidscout/vidscout/manifest"
	"github.com/vidscout/vidscout/network"
	"github.com/vidscout/vidscout/registry"
	"github.com/vidscout/vidscout/score"
	"github.com/vidscout/vidscout/where"
)

// ClassifierFromConfig builds the classifier from the detect.* settings.
func ClassifierFromConfig() *classify.Classifier {
	return classify.New(classify.Options{
		MinVideoSize:   viper.GetInt64(key.DetectMinVideoSize),
		HighConfidence: viper.GetInt(key.DetectHighConfidence),
	})
}

// OptionsFromConfig wires every collaborator from the loaded configuration.
func OptionsFromConfig() (Options, error) {
	embedder, err := detect.NewEmbedder(viper.GetString(key.RelayHeaderParam), viper.GetStringSlice(key.RelayPatterns))
	if err != nil {
		return Options{}, fmt.Errorf("relay: %w", err)
	}

	reg := registry.New(registry.Options{
		TTL:        config.Duration(key.DetectTTL),
		Limit:      viper.GetInt(key.DetectResultLimit),
		Classifier: ClassifierFromConfig(),
		Scorer:     score.New(),
	})

	fetcher := manifest.NewFetcher(manifest.FetcherOptions{
		Client:    network.For(viper.GetBool(key.NetworkFingerprint)),
		Timeout:   config.Duration(key.ManifestFetchTimeout),
		MaxBody:   viper.GetInt64(key.ManifestMaxBody),
		PerSecond: viper.GetFloat64(key.ManifestRateLimit),
	})

	opts := Options{
		Registry:     reg,
		Fetcher:      fetcher,
		Embedder:     embedder,
		VariantLimit: viper.GetInt(key.ManifestVariantLimit),
		PollInterval: config.Duration(key.NavigationPollInterval),
	}

	if viper.GetBool(key.ExtractorsEnable) {
		extractors, err := custom.LoadAll(where.Extractors())
		if err != nil {
			log.Warnf("extractors: %s", err)
		}
		opts.Extractors = extractors
	}

	return opts, nil
}

// FromConfig returns an Engine wired from the loaded configuration.
func FromConfig(ctx context.Context) (*Engine, error) {
	opts, err := OptionsFromConfig()
	if err != nil {
		return nil, err
	}

	return New(ctx, opts), nil
}
