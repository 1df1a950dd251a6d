package notifsvc

import (
	"context"
	"sync"

	"github.com/trezcool/darasa/core"
)

// logNotifier writes recording outcomes to the application logger.
type logNotifier struct {
	logger core.Logger
}

var _ core.Notifier = (*logNotifier)(nil)

func NewLogNotifier(logger core.Logger) *logNotifier {
	return &logNotifier{logger: logger}
}

func (n logNotifier) Success(_ context.Context, msg string) { n.logger.Info(msg) }
func (n logNotifier) Error(_ context.Context, msg string)   { n.logger.Error(msg) }

// Mock records notifications for tests.
type Mock struct {
	mu        sync.Mutex
	Successes []string
	Errors    []string
}

var _ core.Notifier = (*Mock)(nil)

func (m *Mock) Success(_ context.Context, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Successes = append(m.Successes, msg)
}

func (m *Mock) Error(_ context.Context, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors = append(m.Errors, msg)
}
