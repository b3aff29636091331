package mongo_test

import (
	"errors"
	"fmt"
	"testing"

	mongostore "orderflow/internal/adapters/out/mongo"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestIsTransactionNotSupported(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"should ignore nil error", nil, false},
		{"should ignore generic error", errors.New("some random error"), false},
		{"should match command error code 20", mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member"}, true},
		{"should match command error code 51", mongo.CommandError{Code: 51, Message: "Illegal operation"}, true},
		{"should match command error code 263", mongo.CommandError{Code: 263, Message: "Cannot run in a multi-document transaction"}, true},
		{"should ignore other command error code", mongo.CommandError{Code: 100, Message: "Some other error"}, false},
		{"should match wrapped command error", fmt.Errorf("begin: %w", mongo.CommandError{Code: 20}), true},
		{"should match transaction and replica set keywords", errors.New("transaction failed because this is not a replica set member"), true},
		{"should match session and not supported keywords", errors.New("session operations are not supported on this server"), true},
		{"should ignore a single keyword", errors.New("transaction failed"), false},
		{"should match regardless of case", errors.New("TRANSACTION FAILED on REPLICA SET"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mongostore.IsTransactionNotSupported(tt.err))
		})
	}
}
