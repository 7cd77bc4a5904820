// Package crawler implements the control loop that drives a crawl: it
// dequeues candidates from the frontier, dispatches them to the browser
// and probe collaborators, feeds derived requests back to the frontier,
// and consults the crawl delay mechanism between iterations.
//
// The loop is single-threaded and cooperative: exactly one candidate is
// in flight at a time, and the only suspension point is the politeness
// sleep, which observes the stop signal. Collaborator failures never
// abort the loop; they are reported through events and the loop moves to
// the next candidate.
//
// The Browser and Prober collaborators are interfaces on purpose. This
// package owns scheduling, not transport: wiring in a real WebDriver
// client or HTTP stack is the embedding's job.
package crawler
