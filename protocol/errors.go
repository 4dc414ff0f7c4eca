//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package protocol

import "errors"

// ErrTransport is returned when a peer sends a message out of the
// expected sequence (a tag other than the one expected).
var ErrTransport = errors.New("protocol: unexpected message")

// ErrAborted is returned when a session step fails and the session is
// abandoned: a message from the peer cannot be received or decoded, a
// garbled table fails to decrypt, the circuit is malformed, or OT
// fails.
var ErrAborted = errors.New("protocol: session aborted")

// ErrInput is returned when a party's operand does not fit the
// circuit's input width.
var ErrInput = errors.New("protocol: input out of range")
