// Package ui adapts command lifecycle events into console output for users.
package ui
