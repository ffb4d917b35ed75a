// Package kafka publishes batch tallies as one message per source.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	kafka "github.com/segmentio/kafka-go"

	"github.com/alexanderjulianmartinez/csvwatch/internal/sink"
)

type Publisher struct {
	writer *kafka.Writer
	log    *slog.Logger
}

// event is the JSON value of each message. The message key is the label.
type event struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
	Label     string    `json:"label"`
	Rows      int       `json:"rows"`
	Columns   int       `json:"columns"`
}

func New(brokers []string, topic string, log *slog.Logger) (*Publisher, error) {
	var addrs []string
	for _, b := range brokers {
		if b = strings.TrimSpace(b); b != "" {
			addrs = append(addrs, b)
		}
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("no kafka brokers provided")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(addrs...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
		log: log,
	}, nil
}

func (p *Publisher) Name() string {
	return "kafka"
}

func (p *Publisher) Record(ctx context.Context, run sink.Run) error {
	msgs, err := encodeMessages(run)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write to %s: %w", p.writer.Topic, err)
	}
	if p.log != nil {
		p.log.Info("run recorded", "sink", p.Name(), "run_id", run.ID, "entries", len(msgs))
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func encodeMessages(run sink.Run) ([]kafka.Message, error) {
	msgs := make([]kafka.Message, 0, len(run.Entries))
	for _, e := range run.Entries {
		value, err := json.Marshal(event{
			RunID:     run.ID,
			StartedAt: run.StartedAt,
			Label:     e.Label,
			Rows:      e.Rows,
			Columns:   e.Columns,
		})
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(e.Label),
			Value: value,
			Time:  run.StartedAt,
		})
	}
	return msgs, nil
}
