package kafka

import "errors"

var (
	ErrProducerClosed = errors.New("kafka: producer is closed")
	ErrEmptyKey       = errors.New("kafka: message key cannot be empty")
	ErrEmptyValue     = errors.New("kafka: message value cannot be empty")
)
