package storage

type options struct {
	// Where to reach the AWS service, when it's not the default for the
	// region, e.g., a DynamoDB Local instance.
	endpoint string

	// Throttle DynamoDB requests on our side based on provisioned capacity.
	throttle bool
}

type Option func(*options)

func WithEndpoint(value string) Option {
	return func(o *options) {
		o.endpoint = value
	}
}

func WithThrottling(value bool) Option {
	return func(o *options) {
		o.throttle = value
	}
}
