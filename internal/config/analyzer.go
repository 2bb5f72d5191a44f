package config

import (
	"context"
	"fmt"

	"github.com/alvinbaena/pwd-analyzer/internal/i18n"
	"github.com/alvinbaena/pwd-analyzer/pkg/leak"
	"github.com/alvinbaena/pwd-analyzer/pkg/strength"
	"github.com/rs/zerolog/log"
)

// Attackers are the crack time attacker models for the configured rates.
func (c Config) Attackers() []strength.AttackerModel {
	return []strength.AttackerModel{
		{Name: strength.DefaultAttackers[0].Name, Rate: c.SlowAttackRate},
		{Name: strength.DefaultAttackers[1].Name, Rate: c.FastAttackRate},
	}
}

func (c Config) S3Options() leak.S3Options {
	return leak.S3Options{
		Region:    c.S3Region,
		Endpoint:  c.S3Endpoint,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
	}
}

// OpenCorpus loads the configured leak source. The returned func releases it.
func (c Config) OpenCorpus(ctx context.Context) (strength.Corpus, func(), error) {
	noop := func() {}

	switch c.LeakSource {
	case SourceDefault, "":
		return leak.Default(), noop, nil
	case SourceFile:
		s, err := leak.LoadFile(c.LeakFile)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	case SourceGCS:
		corpus, err := leak.OpenGCS(c.GcsFile, c.GcsCacheSize)
		if err != nil {
			return nil, noop, err
		}
		return corpus, corpus.Close, nil
	case SourceRedis:
		client, err := leak.NewRedisClient(ctx, c.RedisURL)
		if err != nil {
			return nil, noop, err
		}
		defer client.Close()

		s, err := leak.LoadRedisSet(ctx, client, c.RedisKey)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	case SourceS3:
		client, err := leak.NewS3Client(ctx, c.S3Options())
		if err != nil {
			return nil, noop, err
		}

		s, err := leak.LoadS3Set(ctx, client, c.S3Bucket, c.S3Key)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	}

	return nil, noop, fmt.Errorf("%w: unknown leak source %q", ErrInvalidConfig, c.LeakSource)
}

// NewAnalyzer wires the leak source, locale and crack time model into an
// Analyzer. The returned func releases the leak source.
func (c Config) NewAnalyzer(ctx context.Context) (*strength.Analyzer, func(), error) {
	corpus, release, err := c.OpenCorpus(ctx)
	if err != nil {
		return nil, release, fmt.Errorf("open leak source %s: %w", c.LeakSource, err)
	}

	localizer, err := i18n.New(c.Locale)
	if err != nil {
		release()
		return nil, func() {}, err
	}

	var estimator strength.CrackTimeEstimator
	switch c.CrackTimeModel {
	case ModelScore:
		estimator = strength.ScoreEstimator{Attackers: c.Attackers(), Localizer: localizer}
	default:
		estimator = strength.FeatureEstimator{Attackers: c.Attackers(), Localizer: localizer}
	}

	log.Info().Msgf("using %s leak source, %s crack time model, locale %s", c.LeakSource, c.CrackTimeModel, c.Locale)
	return strength.NewAnalyzer(corpus,
		strength.WithLocalizer(localizer),
		strength.WithEstimator(estimator),
	), release, nil
}
