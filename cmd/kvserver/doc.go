// Kvserver serves the key/value facade over HTTP, as a long-running process.
// It is mostly useful for local development and for deployments outside of
// AWS Lambda; cmd/kvlambda is the Lambda equivalent.
//
// Valid requests are GETs and POSTs to paths of the form "/table/key". A GET
// returns 200 and the value as the body, or 404 with no body if the key is not
// there. A POST stores the body as the value and returns 204; it requires the
// header "Authorization: Token: <secret>", where the secret is taken from the
// KVGATE_SECRET environment variable. If that is unset, all writes are
// rejected with 401. Other methods get 405, store failures get 500.
//
// The configuration file (see -config) is in rjson format, e.g.:
//
//	{
//		address: ":8080"
//		debug: true
//		store: {
//			type: "dynamodb"
//			region: "eu-west-2"
//			throttle: true
//		}
//	}
//
// Store types are "memory", "disk", "bolt", "sqlite", "dynamodb", "s3" and "remote".
package main // import "github.com/nicolagi/kvgate/cmd/kvserver"
