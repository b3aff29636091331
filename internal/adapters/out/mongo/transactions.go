package mongo

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// Server codes seen when a deployment cannot run multi-document transactions.
var transactionUnsupportedCodes = []int{20, 51, 263}

var transactionUnsupportedKeywords = [][2]string{
	{"transaction", "replica set"},
	{"session", "not supported"},
	{"transaction", "session"},
	{"illegal operation", "transaction"},
}

// IsTransactionNotSupported reports whether err means the deployment has no
// transaction support, as with a standalone mongod.
func IsTransactionNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) {
		for _, code := range transactionUnsupportedCodes {
			if serverErr.HasErrorCode(code) {
				return true
			}
		}
	}

	msg := strings.ToLower(err.Error())
	for _, pair := range transactionUnsupportedKeywords {
		if strings.Contains(msg, pair[0]) && strings.Contains(msg, pair[1]) {
			return true
		}
	}
	return false
}
