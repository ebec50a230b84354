package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/echolens/core"
	"github.com/lixenwraith/echolens/feed"
)

var (
	pubSentiment string
	pubIntensity string
	pubTimeout   time.Duration
)

var publishCmd = &cobra.Command{
	Use:   "publish [emotion]",
	Short: "Publish one emotional state to the Redis feed",
	Long: `Publishes one emotional state to the configured Redis channel.
Sentiment defaults to the conventional sentiment of the emotion.

Example:
  echolens publish happy --intensity high`,
	Args: cobra.ExactArgs(1),
	RunE: publish,
}

func init() {
	publishCmd.Flags().StringVar(&pubSentiment, "sentiment", "", "negative, neutral or positive")
	publishCmd.Flags().StringVar(&pubIntensity, "intensity", string(core.IntensityMedium), "low, medium or high")
	publishCmd.Flags().DurationVar(&pubTimeout, "timeout", 5*time.Second, "broker timeout")
}

func publish(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Feed.RedisAddr == "" {
		return errors.New("no redis address, set feed.redis_addr or ECHOLENS_REDIS_ADDR")
	}

	state := core.EmotionalState{
		Emotion:   core.EmotionLabel(args[0]),
		Sentiment: core.SentimentLabel(pubSentiment),
		Intensity: core.IntensityLabel(pubIntensity),
	}.Normalize()
	if state.Sentiment == "" {
		state.Sentiment = core.SentimentFor(state.Emotion)
	}

	pub := feed.NewPublisher(feed.RedisOptions{
		Addr:     cfg.Feed.RedisAddr,
		Password: cfg.Feed.RedisPassword,
		DB:       cfg.Feed.RedisDB,
		Channel:  cfg.Feed.Channel,
	})
	defer pub.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), pubTimeout)
	defer cancel()

	n, err := pub.Publish(ctx, state)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "published %s to %s (%d receivers, session %s)\n", state, cfg.Feed.Channel, n, pub.Session())
	return nil
}
