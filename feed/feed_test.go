package feed

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/echolens/core"
)

type collector struct {
	mu     sync.Mutex
	states []core.EmotionalState
}

func (c *collector) handle(s core.EmotionalState) {
	c.mu.Lock()
	c.states = append(c.states, s)
	c.mu.Unlock()
}

func (c *collector) snapshot() []core.EmotionalState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]core.EmotionalState(nil), c.states...)
}

func TestDecodeNormalizes(t *testing.T) {
	m, err := Decode([]byte(`{"session":"s1","emotion":" Happy ","sentiment":"POSITIVE","intensity":"high"}`))
	require.NoError(t, err)
	assert.Equal(t, "s1", m.Session)
	assert.Equal(t, core.EmotionalState{
		Emotion:   core.EmotionHappy,
		Sentiment: core.SentimentPositive,
		Intensity: core.IntensityHigh,
	}, m.EmotionalState)
}

func TestDecodeRejects(t *testing.T) {
	cases := map[string]string{
		"not json":      `{emotion`,
		"empty emotion": `{"emotion":"","sentiment":"neutral","intensity":"low"}`,
		"bad sentiment": `{"emotion":"sad","sentiment":"meh","intensity":"low"}`,
		"bad intensity": `{"emotion":"sad","sentiment":"negative","intensity":"max"}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(payload))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestDecodeAcceptsUnknownEmotion(t *testing.T) {
	m, err := Decode([]byte(`{"emotion":"nostalgic","sentiment":"neutral","intensity":"medium"}`))
	require.NoError(t, err)
	assert.Equal(t, core.EmotionLabel("nostalgic"), m.Emotion)
}

func TestSubscriberDeliversAndDrops(t *testing.T) {
	mr := miniredis.RunT(t)
	c := &collector{}

	sub := NewSubscriber(RedisOptions{Addr: mr.Addr(), Channel: "echolens:emotion"}, c.handle, nil)
	require.NoError(t, sub.Init())
	require.NoError(t, sub.Start())
	defer sub.Stop()

	mr.Publish("echolens:emotion", `{"emotion":"excited","sentiment":"positive","intensity":"high"}`)
	mr.Publish("echolens:emotion", `garbage`)
	mr.Publish("echolens:emotion", `{"emotion":"sad","sentiment":"negative","intensity":"low"}`)

	require.Eventually(t, func() bool {
		return sub.Received() == 2 && sub.Dropped() == 1
	}, 2*time.Second, 10*time.Millisecond)

	got := c.snapshot()
	require.Len(t, got, 2)
	assert.Equal(t, core.EmotionExcited, got[0].Emotion)
	assert.Equal(t, core.EmotionSad, got[1].Emotion)
}

func TestSubscriberInitRequiresAddr(t *testing.T) {
	sub := NewSubscriber(RedisOptions{Channel: "x"}, nil, nil)
	assert.Error(t, sub.Init())
}

func TestSubscriberInitAddrArg(t *testing.T) {
	mr := miniredis.RunT(t)
	sub := NewSubscriber(RedisOptions{Channel: "x"}, nil, nil)
	require.NoError(t, sub.Init(mr.Addr()))
	require.NoError(t, sub.Start())
	require.NoError(t, sub.Stop())
	require.NoError(t, sub.Stop())
}

func TestPublisherRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	c := &collector{}

	opts := RedisOptions{Addr: mr.Addr(), Channel: "echolens:emotion"}
	sub := NewSubscriber(opts, c.handle, nil)
	require.NoError(t, sub.Init())
	require.NoError(t, sub.Start())
	defer sub.Stop()

	pub := NewPublisher(opts)
	defer pub.Close()
	assert.NotEmpty(t, pub.Session())

	n, err := pub.Publish(context.Background(), core.EmotionalState{
		Emotion: core.EmotionContent, Sentiment: core.SentimentPositive, Intensity: core.IntensityMedium,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.Eventually(t, func() bool { return sub.Received() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, core.EmotionContent, c.snapshot()[0].Emotion)
}

func TestPublisherRejectsInvalid(t *testing.T) {
	mr := miniredis.RunT(t)
	pub := NewPublisher(RedisOptions{Addr: mr.Addr(), Channel: "x"})
	defer pub.Close()

	_, err := pub.Publish(context.Background(), core.EmotionalState{Emotion: core.EmotionSad})
	assert.ErrorIs(t, err, core.ErrInvalidState)
}

func TestSimulatorDrawsKnownStates(t *testing.T) {
	sim := NewSimulator(time.Second, 42, nil, nil)
	known := make(map[core.EmotionLabel]bool)
	for _, e := range core.KnownEmotions {
		known[e] = true
	}
	for i := 0; i < 200; i++ {
		s := sim.Next()
		require.True(t, known[s.Emotion], "unexpected emotion %q", s.Emotion)
		assert.Equal(t, core.SentimentFor(s.Emotion), s.Sentiment)
		require.NoError(t, s.Validate())
	}
}

func TestSimulatorDeterministicSeed(t *testing.T) {
	a := NewSimulator(time.Second, 7, nil, nil)
	b := NewSimulator(time.Second, 7, nil, nil)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestSimulatorRuns(t *testing.T) {
	c := &collector{}
	sim := NewSimulator(time.Hour, 1, c.handle, nil)
	require.NoError(t, sim.Init(5*time.Millisecond))
	require.NoError(t, sim.Start())

	require.Eventually(t, func() bool { return len(c.snapshot()) >= 3 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, sim.Stop())
	require.NoError(t, sim.Stop())
}
