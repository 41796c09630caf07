// Package orchestrator ties the pieces together: it opens a Session that
// validates a form model, seeds a formstate store, mounts condition runtimes
// for every conditional field, and answers visibility queries that combine
// structured conditions with VisibleWhen rule strings.
package orchestrator
