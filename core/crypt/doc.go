// Package crypt protects credential files at rest.
//
// It implements AES-256-CTR with a key derived from a configured secret
// and a random IV prefixed to the ciphertext. The push notification
// feature uses it to read its server key file, and the encrypt command
// uses it to produce that file in the first place.
package crypt
