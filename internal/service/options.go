package service

import (
	"time"

	"go.uber.org/zap"

	"groupnet/memberhub/pkg/crypto"
)

// WorkflowConfig is read once at start and never changes.
type WorkflowConfig struct {
	InviteTTLDays int
}

// PasswordHasher hashes and verifies member credentials.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(hashed, plaintext string) bool
}

// TokenGenerator returns a fresh unguessable invite token.
type TokenGenerator func() (string, error)

// EventRecorder receives one event per workflow operation.
type EventRecorder interface {
	RecordWorkflowEvent(operation, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) RecordWorkflowEvent(string, string) {}

type options struct {
	now      func() time.Time
	newToken TokenGenerator
	recorder EventRecorder
	logger   *zap.Logger
}

type Option func(*options)

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithTokenGenerator(g TokenGenerator) Option {
	return func(o *options) { o.newToken = g }
}

func WithEventRecorder(r EventRecorder) Option {
	return func(o *options) { o.recorder = r }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	o := options{
		now:      time.Now,
		newToken: crypto.GenerateInviteToken,
		recorder: nopRecorder{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
