// Command quill is the operator CLI. It talks to a running quilld daemon
// over the HTTP admin API.
package main
