package kafkaconfig

const (
	EnvKafkaBrokers = "KAFKA_BROKERS"

	EnvBookingEventsTopic = "KAFKA_BOOKING_EVENTS_TOPIC"
	EnvConsumerGroupID    = "KAFKA_CONSUMER_GROUP_ID"

	EnvProducerMaxAttempts  = "KAFKA_PRODUCER_MAX_ATTEMPTS"
	EnvProducerBatchTimeout = "KAFKA_PRODUCER_BATCH_TIMEOUT"

	EnvConsumerMinBytes       = "KAFKA_CONSUMER_MIN_BYTES"
	EnvConsumerMaxBytes       = "KAFKA_CONSUMER_MAX_BYTES"
	EnvConsumerMaxWait        = "KAFKA_CONSUMER_MAX_WAIT"
	EnvConsumerCommitInterval = "KAFKA_CONSUMER_COMMIT_INTERVAL"
)
