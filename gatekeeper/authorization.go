package gatekeeper

import "time"

// Authorization is what a Checker produces for a successful Request: a
// fresh identifier under which the transport stores it in the ledger, plus
// the re-encrypted token that only the named client's private key can open.
//
// Wire form (JSON): {"id": UUID, "timestamp": RFC3339 UTC, "name": string,
// "command": string, "token": base64}.
type Authorization struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Name      string    `json:"name"`
	Command   string    `json:"command"`
	Token     string    `json:"token"`
}
