package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"cofactor-club/pkg/email"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendWelcome(ctx context.Context, msg Welcome) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch did not finish")
	}
}

func TestDispatch(t *testing.T) {
	msg := Welcome{Email: "ada@example.com", Name: "Ada"}

	t.Run("delivers asynchronously", func(t *testing.T) {
		n := new(mockNotifier)
		n.On("SendWelcome", mock.Anything, msg).Return(nil).Once()

		waitDone(t, Dispatch(n, msg))
		n.AssertExpectations(t)
	})

	t.Run("swallows errors", func(t *testing.T) {
		n := new(mockNotifier)
		n.On("SendWelcome", mock.Anything, msg).Return(errors.New("smtp down")).Once()

		waitDone(t, Dispatch(n, msg))
		n.AssertExpectations(t)
	})

	t.Run("recovers from panic", func(t *testing.T) {
		n := new(mockNotifier)
		n.On("SendWelcome", mock.Anything, msg).Run(func(mock.Arguments) { panic("boom") }).Return(nil)

		waitDone(t, Dispatch(n, msg))
	})

	t.Run("nil notifier", func(t *testing.T) {
		waitDone(t, Dispatch(nil, msg))
	})
}

func TestNew_SelectsTransport(t *testing.T) {
	assert.IsType(t, Noop{}, New(email.Config{}, KafkaConfig{}))
	assert.IsType(t, &SMTPNotifier{}, New(email.Config{Host: "smtp.example.com", Username: "bot"}, KafkaConfig{}))

	n := New(email.Config{Host: "smtp.example.com", Username: "bot"}, KafkaConfig{Broker: "localhost:9092", Topic: "user.welcome"})
	require.IsType(t, &KafkaNotifier{}, n)
	assert.NoError(t, n.(*KafkaNotifier).Close())
}

// ===== SMTP =====

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendWithTemplate(to string, subject string, tmpl *email.Template, data interface{}) error {
	args := m.Called(to, subject, tmpl, data)
	return args.Error(0)
}

func TestSMTPNotifier(t *testing.T) {
	msg := Welcome{Email: "ada@example.com", Name: "Ada"}

	t.Run("skipped when not configured", func(t *testing.T) {
		mailer := new(mockMailer)
		n := &SMTPNotifier{mailer: mailer, enabled: false}

		require.NoError(t, n.SendWelcome(context.Background(), msg))
		mailer.AssertNotCalled(t, "SendWithTemplate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("sends welcome template", func(t *testing.T) {
		mailer := new(mockMailer)
		mailer.On("SendWithTemplate", "ada@example.com", "Welcome to Cofactor Club", welcomeTemplate, msg).Return(nil).Once()
		n := &SMTPNotifier{mailer: mailer, enabled: true}

		require.NoError(t, n.SendWelcome(context.Background(), msg))
		mailer.AssertExpectations(t)
	})

	t.Run("propagates send error", func(t *testing.T) {
		mailer := new(mockMailer)
		mailer.On("SendWithTemplate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("535 auth failed"))
		n := &SMTPNotifier{mailer: mailer, enabled: true}

		assert.Error(t, n.SendWelcome(context.Background(), msg))
	})
}

func TestWelcomeTemplate(t *testing.T) {
	html, err := welcomeTemplate.Render(Welcome{Name: "Grace <3"})
	require.NoError(t, err)
	assert.Contains(t, html, "Welcome to Cofactor Club, Grace &lt;3!")
}

// ===== Kafka =====

type fakeWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestKafkaNotifier_Publishes(t *testing.T) {
	w := &fakeWriter{}
	n := &KafkaNotifier{writer: w}

	require.NoError(t, n.SendWelcome(context.Background(), Welcome{Email: "ada@example.com", Name: "Ada"}))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "ada@example.com", string(w.msgs[0].Key))
	assert.JSONEq(t, `{"email":"ada@example.com","name":"Ada"}`, string(w.msgs[0].Value))

	w.err = errors.New("leader not available")
	assert.ErrorContains(t, n.SendWelcome(context.Background(), Welcome{Email: "x@example.com"}), "publish welcome event")
}

type fakeReader struct {
	mu        sync.Mutex
	msgs      []kafka.Message
	committed []int64
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.msgs) == 0 {
		r.mu.Unlock()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.msgs[0]
	r.msgs = r.msgs[1:]
	r.mu.Unlock()
	return msg, nil
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) committedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.committed)
}

func (r *fakeReader) Close() error { return nil }

func TestConsumer_Run(t *testing.T) {
	good, _ := json.Marshal(Welcome{Email: "ada@example.com", Name: "Ada"})
	failing, _ := json.Marshal(Welcome{Email: "bounce@example.com", Name: "Bob"})
	reader := &fakeReader{msgs: []kafka.Message{
		{Offset: 1, Value: good},
		{Offset: 2, Value: []byte("not json")},
		{Offset: 3, Value: failing},
	}}

	next := new(mockNotifier)
	next.On("SendWelcome", mock.Anything, Welcome{Email: "ada@example.com", Name: "Ada"}).Return(nil).Once()
	next.On("SendWelcome", mock.Anything, Welcome{Email: "bounce@example.com", Name: "Bob"}).Return(errors.New("mailbox full")).Once()

	c := &Consumer{reader: reader, next: next}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	require.Eventually(t, func() bool { return reader.committedCount() == 3 }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}

	next.AssertExpectations(t)
	assert.Equal(t, []int64{1, 2, 3}, reader.committed)
}
