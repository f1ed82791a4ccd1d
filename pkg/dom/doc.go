// Package dom is the element model shared by popover hosts.
//
// Element is the narrow interface the popover core binds to. Document and
// Node are a concrete in-memory implementation: hosts mirror Node state to
// their real surface (a browser over a websocket, a terminal) and feed user
// input back through Document.Dispatch.
package dom
