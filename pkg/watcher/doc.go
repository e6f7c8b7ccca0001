// Package watcher keeps the dependency graph in sync with manifests on
// disk. File events from fsnotify are debounced per path before the
// manifest is re-parsed and written back to the store; a cron schedule
// periodically re-derives package-to-package edges.
package watcher
