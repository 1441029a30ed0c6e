// Package httpapi exposes a queue.Registry over HTTP using the
// method+pattern routing introduced in Go 1.22's net/http.ServeMux. No
// third-party router is used: every retrieved reference implementation
// of this kind of service reaches for the same small hand-rolled
// net/http style, so this package follows suit.
//
// Route table:
//
//	GET  /                        service banner
//	GET  /queues                  newline-separated queue ids
//	POST /new/{qid}                create a queue
//	POST /delete/{qid}             delete a queue
//	GET  /show/{qid}               Done/Pending/Queued/All counters
//	GET  /show/{qid}/pending       one pending item id per line
//	GET  /show/{qid}/archive       recent archived events for the queue
//	POST /enqueue/{qid}            item=<bytes>
//	POST /next/{qid}               pop the oldest queued item
//	POST /done/{qid}               item=<id>
//	POST /expire/{qid}             item=<id>
//	POST /extend/{qid}             item=<id>
//	POST /ttl/{qid}                item=<id>
//	GET  /healthz                  liveness probe
//
// Server never holds a Queue or Registry lock while writing a response
// body; every handler resolves its queue, performs one queue.Queue
// method call, and only then writes the response.
package httpapi
