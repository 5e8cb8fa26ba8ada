// Package kafka consumes crawled batches published by the crawler
// layer and feeds them through the filter/score/rank pipeline. One
// message carries one batch; offsets are marked per message so a
// failed pipeline run is redelivered.
package kafka

import (
	"context"
	"log"
	"strings"

	"github.com/IBM/sarama"

	"trendradar/config"
)

// BatchProcessor handles one consumed batch message. Returning
// shouldMark=false or a non-nil error leaves the offset unmarked so
// the group redelivers the message.
type BatchProcessor interface {
	HandleMessage(ctx context.Context, message []byte) (shouldMark bool, err error)
}

// ConsumerConfig names the brokers and the crawled-batch topic.
type ConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// ConfigFromEnv reads KAFKA_BROKERS (comma-separated), KAFKA_TOPIC and
// KAFKA_GROUP_ID, with local defaults.
func ConfigFromEnv() ConsumerConfig {
	return ConsumerConfig{
		Brokers: strings.Split(config.GetEnvOrDefault("KAFKA_BROKERS", "localhost:9092"), ","),
		Topic:   config.GetEnvOrDefault("KAFKA_TOPIC", "crawled-batches"),
		GroupID: config.GetEnvOrDefault("KAFKA_GROUP_ID", "trendradar-pipeline"),
	}
}

// Consumer subscribes a sarama consumer group to the crawled-batch
// topic and hands each message to a BatchProcessor.
type Consumer struct {
	group     sarama.ConsumerGroup
	processor BatchProcessor
	topic     string
	groupID   string
	ready     chan struct{}
}

// NewConsumer connects a consumer group for the given config. Offsets
// start at newest: a pipeline that was down has no use for stale
// batches, the next crawl supersedes them.
func NewConsumer(cfg ConsumerConfig, processor BatchProcessor) (*Consumer, error) {
	sc := sarama.NewConfig()
	sc.Version = sarama.V3_6_0_0
	sc.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	sc.Consumer.Offsets.Initial = sarama.OffsetNewest
	sc.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, sc)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		group:     group,
		processor: processor,
		topic:     cfg.Topic,
		groupID:   cfg.GroupID,
		ready:     make(chan struct{}),
	}, nil
}

// Start joins the group and consumes until ctx is cancelled. It
// returns once the first session is established.
func (c *Consumer) Start(ctx context.Context) error {
	h := &groupHandler{processor: c.processor, ready: c.ready}

	go func() {
		for {
			// Consume returns on every rebalance; loop to rejoin.
			if err := c.group.Consume(ctx, []string{c.topic}, h); err != nil {
				if err == context.Canceled {
					return
				}
				log.Printf("Kafka consume error: %v", err)
			}
			if ctx.Err() != nil {
				return
			}
			h.ready = make(chan struct{})
		}
	}()

	go func() {
		for err := range c.group.Errors() {
			log.Printf("Kafka consumer error: %v", err)
		}
	}()

	<-c.ready
	log.Printf("Consuming crawled batches (group: %s, topic: %s)", c.groupID, c.topic)
	return nil
}

// Close leaves the group and releases the client.
func (c *Consumer) Close() error {
	log.Println("Closing Kafka consumer...")
	return c.group.Close()
}

// groupHandler implements sarama.ConsumerGroupHandler over a
// BatchProcessor.
type groupHandler struct {
	processor BatchProcessor
	ready     chan struct{}
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error {
	close(h.ready)
	return nil
}

func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case msg := <-claim.Messages():
			if msg == nil {
				return nil
			}
			shouldMark, err := h.processor.HandleMessage(session.Context(), msg.Value)
			if err != nil {
				log.Printf("Batch at partition=%d offset=%d failed, leaving unmarked: %v",
					msg.Partition, msg.Offset, err)
			}
			if shouldMark {
				session.MarkMessage(msg, "")
			}
		case <-session.Context().Done():
			return nil
		}
	}
}
