// Package live serves a popover to the browser over a websocket.
//
// The browser renders static markup and mirrors what the server decides:
// every popover instance lives on the server, one per connection, and the
// page only reports clicks, key presses and measured geometry.
//
// # Protocol
//
// Messages are JSON objects with a "type" field.
//
// Client to server:
//   - click: {"type":"click","target":"trigger-0"}
//   - keydown: {"type":"keydown","target":"content","key":"Escape"}
//   - frame: {"type":"frame","frame":3,"rects":{...},"viewport":{...}},
//     the answer to a raf request, sent from requestAnimationFrame
//   - layout: {"type":"layout","rects":{...},"viewport":{...}},
//     sent on resize and scroll
//
// Server to client:
//   - attrs: {"type":"attrs","target":"content","set":{...},"remove":[...]}
//   - focus: {"type":"focus","target":"trigger-0"}
//   - place: {"type":"place","target":"content","position":{...}}
//   - raf: {"type":"raf","frame":3}
//
// # Usage
//
//	cfg := live.DefaultConfig()
//	cfg.Triggers = []string{"Profile", "Settings"}
//	srv := live.New(cfg)
//	http.ListenAndServe(":8080", srv.Handler())
package live
