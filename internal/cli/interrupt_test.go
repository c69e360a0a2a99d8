package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// syncBuffer provides thread-safe access to a bytes.Buffer.
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (s *syncBuffer) Write(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestNewInterruptHandler(t *testing.T) {
	tests := []struct {
		writer io.Writer
		name   string
	}{
		{
			name:   "with custom writer",
			writer: &bytes.Buffer{},
		},
		{
			name:   "with nil writer",
			writer: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewInterruptHandler(tt.writer)
			assert.NotNil(t, handler)
			assert.NotNil(t, handler.writer)
			assert.False(t, handler.interrupted)
		})
	}
}

func TestHandleInterrupts(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output)

	ctx := handler.HandleInterrupts(context.Background(), "Copy")

	select {
	case <-ctx.Done():
		t.Fatal("Context should not be canceled initially")
	default:
	}

	handler.trigger()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("Context should be canceled after an interrupt")
	}

	assert.True(t, handler.WasInterrupted())
	assert.Contains(t, output.String(), "Copy interrupted!")
}

func TestHandleInterrupts_ParentCanceled(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output)

	parent, cancel := context.WithCancel(context.Background())
	ctx := handler.HandleInterrupts(parent, "Update")
	cancel()

	<-ctx.Done()
	time.Sleep(10 * time.Millisecond)

	assert.False(t, handler.WasInterrupted(), "finishing normally is not an interrupt")
	assert.Empty(t, output.String())
}

func TestMultipleInterrupts(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output)
	_ = handler.HandleInterrupts(context.Background(), "Copy")

	handler.trigger()
	handler.trigger()

	count := strings.Count(output.String(), "Copy interrupted!")
	assert.Equal(t, 1, count, "Interrupt message should only be shown once")
}

func TestShowInterruptMessage(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		expected  []string
	}{
		{
			name:      "named operation",
			operation: "Log",
			expected:  []string{"Log interrupted!", "only saved once an action completes"},
		},
		{
			name:     "unnamed operation",
			expected: []string{"Operation interrupted!"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var output bytes.Buffer
			handler := &InterruptHandler{
				writer:    &output,
				operation: tt.operation,
			}

			handler.showInterruptMessage()

			for _, expected := range tt.expected {
				assert.Contains(t, output.String(), expected)
			}
		})
	}
}
