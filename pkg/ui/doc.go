// Package ui defines the user-facing collaborator interfaces consumed by the
// transport and session layers: a loading indicator, a blocking alert, a
// confirmation prompt, and a view navigator.
//
// The toolkit never renders anything itself; host applications plug in
// whatever presentation they have (terminal prompts, desktop dialogs, a GUI
// bridge). Noop implementations are provided for headless hosts and tests,
// and a minimal console implementation for CLI hosts.
package ui
