package persist

import (
	"github.com/sca-research/rankgo/codec"
	"github.com/sca-research/rankgo/endian"
	"github.com/sca-research/rankgo/internal/options"
)

// config holds the settings SaveWeightTable/SaveScoresTable and
// LoadWeightTable/LoadScoresTable apply their functional options to.
type config struct {
	algorithm codec.Algorithm
	engine    endian.EndianEngine
	checksum  bool
}

func defaultConfig() *config {
	return &config{
		algorithm: codec.Zstd,
		engine:    DefaultEngine,
		checksum:  true,
	}
}

// Option configures a Save or Load call. Built with WithAlgorithm and
// WithEngine; the underlying type is internal/options' generic
// functional-options wrapper, the same pattern the rest of this
// module's ambient stack uses wherever a constructor takes optional
// settings.
type Option = options.Option[*config]

// WithAlgorithm selects the compression algorithm SaveWeightTable or
// SaveScoresTable writes with. Ignored by Load calls, which read the
// algorithm back out of the file's own header. Defaults to codec.Zstd.
func WithAlgorithm(algorithm codec.Algorithm) Option {
	return options.NoError[*config](func(c *config) { c.algorithm = algorithm })
}

// WithEngine overrides the byte order used for a table's multi-byte
// header fields. Defaults to little-endian. A Load call must be given
// the same engine a matching Save call used, since the header doesn't
// self-describe its own byte order.
func WithEngine(engine endian.EndianEngine) Option {
	return options.NoError[*config](func(c *config) { c.engine = engine })
}

// WithChecksum controls whether Save computes and stores an xxHash64
// checksum of the uncompressed payload, and whether Load verifies it.
// Defaults to true. Passing false trades corruption detection for a
// small amount of Save/Load time, useful when the caller already
// checksums the underlying storage (e.g. content-addressed blobs).
func WithChecksum(enabled bool) Option {
	return options.NoError[*config](func(c *config) { c.checksum = enabled })
}

func applyOptions(opts []Option) (*config, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}
