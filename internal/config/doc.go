// Package config loads popover.json or popover.yaml.
//
// # Configuration File Structure
//
//	server:
//	  addr: localhost:8080
//	  frameTimeout: 100ms
//	  metrics: true
//	  metricsPath: /metrics
//	  readLimit: 65536
//	popover:
//	  placement: bottom-start
//	  arrowSize: 8
//	  gutter: 5
//	  flip: true
//	  overflowPadding: 8
//	  open: false
//	  triggers: [Profile, Settings, Help]
//	log:
//	  level: info
//	  format: text
//	tui:
//	  altScreen: true
//	  fps: 30
//
// The same structure is accepted as JSON in popover.json.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Addr:", cfg.Server.Addr)
package config
