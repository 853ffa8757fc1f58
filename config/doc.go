// Package config loads elemrun scenarios from YAML.
//
// A scenario names the browser instances to drive and the element steps to
// fan out across them. `${VAR}` references are expanded from the environment
// before parsing; a missing variable is an error.
//
//	instances:
//	  - name: chrome
//	    url: https://example.com/login
//	    stealth: true
//	  - name: remote
//	    remote: ${REMOTE_CDP_URL}
//	steps:
//	  - command: setValue
//	    using: css selector
//	    value: "#user"
//	    args: [alice]
//	  - command: click
//	    value: "#submit"
package config
