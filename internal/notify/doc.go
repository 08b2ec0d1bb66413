// Package notify delivers scan outcome announcements to the terminal and to
// desktop notification services.
package notify
