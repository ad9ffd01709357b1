// Kvlambda is the AWS Lambda entry point of the key/value facade. It is meant
// to sit behind an API Gateway proxy integration whose route captures the
// "table" and "key" path parameters. See package lambdaproxy for the details
// of the request mapping, and cmd/kvserver for the HTTP semantics.
//
// All configuration comes from KVGATE_* environment variables, plus the
// standard AWS_REGION.
package main // import "github.com/nicolagi/kvgate/cmd/kvlambda"
