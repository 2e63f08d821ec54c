package guardian

import "errors"

var (
	// ErrUnknownGuardian means a node id is not in the active registry.
	ErrUnknownGuardian = errors.New("unknown guardian node")

	// ErrMalformedSignature means a signature could not be decoded for the node's scheme.
	ErrMalformedSignature = errors.New("malformed signature")

	// ErrSignatureMismatch means a well-formed signature does not verify.
	ErrSignatureMismatch = errors.New("signature does not verify")

	// ErrUnsupportedScheme means the node's declared key type cannot be verified.
	ErrUnsupportedScheme = errors.New("unsupported signature scheme")

	// ErrInvalidProposal means the proposal cannot be canonicalized.
	ErrInvalidProposal = errors.New("invalid address proposal")
)
