/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package protocol

import "errors"

// Decode error sentinels. The common-header, messageLength and TLV length
// checks wrap one of these so callers can distinguish a truncated read from a
// self-inconsistent messageLength from a structurally invalid TLV, and none
// of the decoders ever read past the claimed messageLength. Other decode
// failures (an unsupported TLV type, a malformed Signaling, PTPText or
// PortAddress field) are returned as plain errors.
var (
	// ErrInvalidHeaderLength is returned when fewer than headerSize bytes
	// are available to decode the common header.
	ErrInvalidHeaderLength = errors.New("protocol: invalid header length")
	// ErrInvalidMessageLength is returned when a message's messageLength
	// field claims more bytes than are actually available, or fewer than
	// the message's fixed body requires.
	ErrInvalidMessageLength = errors.New("protocol: invalid message length")
	// ErrInvalidData is returned when bytes are well-sized but structurally
	// inconsistent (e.g. a malformed TLV, an unsupported message type).
	ErrInvalidData = errors.New("protocol: invalid data")
)
