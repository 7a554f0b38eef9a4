// Package api exposes typed helpers for every backend endpoint the client
// consumes. Each service is a thin layer over the gateway: it shapes
// requests and decodes responses, nothing more.
package api

// Message is the bare acknowledgement many endpoints answer with.
type Message struct {
	Message string `json:"message"`
}

// Action is the success/message pair returned by vote and best-answer calls.
type Action struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
