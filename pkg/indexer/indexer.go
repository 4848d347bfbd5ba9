package indexer

import (
	"time"

	"github.com/acorn-io/acorn-registry/pkg/registry"
	"github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/wait"
)

const batchSize = 100

type EventSource interface {
	Events(after uint64, limit int) ([]registry.LoggedEvent, error)
}

type Handler func(event registry.LoggedEvent) error

// Indexer follows the registry event log and hands every new event to a
// handler, in sequence order, exactly once per process.
type Indexer struct {
	source   EventSource
	interval time.Duration
	after    uint64
}

func New(source EventSource, after uint64, interval time.Duration) *Indexer {
	return &Indexer{
		source:   source,
		interval: interval,
		after:    after,
	}
}

// Run polls until stopCh is closed.
func (i *Indexer) Run(stopCh <-chan struct{}, handle Handler) {
	logrus.Infof("following registry events after seq %d, poll interval: %v", i.after, i.interval)
	wait.JitterUntil(func() { i.poll(handle) }, i.interval, .002, true, stopCh)
}

// Last is the sequence number of the last event handed to the handler.
func (i *Indexer) Last() uint64 {
	return i.after
}

func (i *Indexer) poll(handle Handler) {
	for {
		events, err := i.source.Events(i.after, batchSize)
		if err != nil {
			logrus.Errorf("problem reading registry events: %v", err)
			return
		}

		for _, event := range events {
			if err := handle(event); err != nil {
				logrus.Errorf("handling event %d failed, will retry: %v", event.Seq, err)
				return
			}
			i.after = event.Seq
		}

		if len(events) < batchSize {
			return
		}
	}
}
