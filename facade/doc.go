// Package facade implements a key/value access facade over a storage.Store.
//
// Only two requests are understood:
//
//	GET  /{table}/{key}
//	POST /{table}/{key}
//
// A GET returns the stored value with 200, or 404 with no body if the key was
// never written. A POST stores the request body, which must be UTF-8 text, as
// the new value and returns 204. Writes require an Authorization header of the
// form "Token: <secret>". Any other method is answered with 405, whatever the
// path. Store failures of any kind are answered with 500 and no body; details
// are only logged.
//
// The package knows nothing about the transport. Adapters build a Request,
// call Dispatcher.Serve and write out the Response.
package facade // import "github.com/nicolagi/kvgate/facade"
