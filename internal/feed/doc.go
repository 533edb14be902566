// Package feed keeps a local copy of a server-side feed (a chat thread or
// the notification list) in sync by polling.
//
// A Poller fetches full snapshots on a fixed interval, one fetch at a time,
// and hands them out as Events. A Thread or an Inbox reconciles each
// snapshot into local state without touching what only exists locally: the
// unsent draft, the scroll anchor, messages already confirmed by a send and
// notifications marked read but not yet reflected by the server.
//
// Thread and Inbox are not safe for concurrent use; they belong to the
// single goroutine running the view (the Bubble Tea event loop).
package feed
