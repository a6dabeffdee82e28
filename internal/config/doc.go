// Package config provides configuration parsing for the store CLI.
//
// The configuration is stored in store.json. This package handles loading,
// saving, and validating it.
//
// # Configuration File Structure
//
//	{
//	  "name": "counter",
//	  "initial": 0,
//	  "writes": [1, 2, 3],
//	  "reentrant": false,
//	  "log": {
//	    "level": "info"
//	  },
//	  "server": {
//	    "host": "localhost",
//	    "port": 3100
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "store"
//	  },
//	  "tracing": {
//	    "enabled": false,
//	    "tracerName": "store"
//	  }
//	}
//
// Values under "initial" and "writes" may be any JSON value.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
