// Package cli implements the sensordash command-line interface.
//
// # Command Structure
//
// The root command is "sensordash". Run bare, it opens the dashboard:
//
//	sensordash                 - Live dashboard (same as monitor)
//	sensordash monitor         - Live dashboard, plain lines when piped
//	sensordash snapshot        - Fetch once, print text or --json
//	sensordash init            - Create .sensordash.yaml
//	sensordash doctor          - Diagnose config, endpoint and metrics setup
//	sensordash version         - Build information
//	sensordash completion      - Shell completion scripts
//
// # Configuration
//
// Every command that talks to the sensor resolves its settings the same way:
// the config file found by config.Find (or --config), then SENSORDASH_*
// environment variables, then any dashboard flags the user actually set
// (--endpoint, --interval, --timeout, --ordering, --threshold, --page-size,
// --metrics-addr). The merged result is validated before anything runs.
//
// While monitor runs, edits to the config file's threshold, page_size and
// clamp_page apply immediately unless the matching flag was given.
//
// # Output Modes
//
// The dashboard needs a terminal. When stdout isn't one, monitor prints one
// summary line per fetch until interrupted. snapshot --json wraps its result,
// or its error, in JSONEnvelope.
package cli
