// Package lsp serves mu's code checks to editors over the Language Server
// Protocol on stdio.
//
// Only document sync and diagnostics are implemented. Every open Python
// document is checked on its own after a debounce; results are published
// with 0-based positions taken straight from the diagnostic model.
package lsp
