package att

import "errors"

// Sentinel errors raised locally by the client, never carried on the wire.
var (
	// ErrInvalidArgument is returned when a caller-supplied argument
	// violates a precondition the Bluetooth Core Spec places on a
	// request (offset, length, handle ordering).
	ErrInvalidArgument = errors.New("att: invalid argument")

	// ErrInvalidResponse is returned when a peer's response does not
	// match the expected opcode or has an implausible length for the
	// request that provoked it.
	ErrInvalidResponse = errors.New("att: invalid response")

	// ErrSeqProtoTimeout is returned when no response to an outstanding
	// request arrives within the protocol timeout. [Vol 3, Part F, 3.3.3]
	ErrSeqProtoTimeout = errors.New("att: sequential protocol timeout")

	// ErrClientClosed is returned by any in-flight or new request once
	// the client has been stopped or its Conn has disconnected.
	ErrClientClosed = errors.New("att: client closed")
)

// rspOfReq maps each request opcode to the opcode of the response
// that answers it, so the dispatch loop in sendReq can recognize a match
// without re-deriving the ATT opcode numbering rules at every call site.
var rspOfReq = map[byte]byte{
	ExchangeMTURequestCode:      ExchangeMTUResponseCode,
	FindInformationRequestCode:  FindInformationResponseCode,
	FindByTypeValueRequestCode:  FindByTypeValueResponseCode,
	ReadByTypeRequestCode:       ReadByTypeResponseCode,
	ReadRequestCode:             ReadResponseCode,
	ReadBlobRequestCode:         ReadBlobResponseCode,
	ReadMultipleRequestCode:     ReadMultipleResponseCode,
	ReadByGroupTypeRequestCode:  ReadByGroupTypeResponseCode,
	WriteRequestCode:            WriteResponseCode,
	PrepareWriteRequestCode:     PrepareWriteResponseCode,
	ExecuteWriteRequestCode:     ExecuteWriteResponseCode,
}
