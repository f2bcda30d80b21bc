// Package config provides configuration parsing for streambind.
//
// The configuration lives in streambind.yaml (or streambind.json) at the
// project root. YAML and JSON carry the same schema; the format is picked
// from the file extension.
//
// # Configuration File Structure
//
//	server:
//	  host: localhost
//	  port: 3000
//	demo:
//	  tick: 1s
//	  streams: 2
//	snapshot:
//	  backend: s3          # none, memory, dir or s3
//	  bucket: frames
//	  prefix: dev/
//	  region: eu-west-1
//	log:
//	  level: info
//	  format: text
//	debug: false
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
