// Package views derives everything the dashboard renders from the canonical
// widget collection: the filtered and sorted card list, per-type chart
// options, and the simulated load, stream and highlight sources a consuming
// view subscribes to. Nothing here is persisted.
package views
