// Package protocol defines the messages exchanged between the coordination
// layer and its two peers: the native classification host and the in-page
// content agent.
//
// Host messages travel over the native messaging wire format: a 32-bit
// little-endian length prefix followed by that many bytes of UTF-8 JSON.
// Page messages are plain typed values passed between page contexts.
package protocol
