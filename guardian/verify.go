package guardian

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// FailureKind classifies why a node's signature did not pass.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureUnknownNode
	FailureMalformedSignature
	FailureCryptographicMismatch
	FailureUnsupportedScheme
	FailureInvalidProposal
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureUnknownNode:
		return "unknown_node"
	case FailureMalformedSignature:
		return "malformed_signature"
	case FailureCryptographicMismatch:
		return "signature_mismatch"
	case FailureUnsupportedScheme:
		return "unsupported_scheme"
	case FailureInvalidProposal:
		return "invalid_proposal"
	}
	return "unknown"
}

// NodeResult is the outcome of checking one guardian's signature.
type NodeResult struct {
	NodeID  string
	Passed  bool
	Failure FailureKind
	Reason  string
}

// Error returns the node-attributed failure description, or "" on pass.
func (r NodeResult) Error() string {
	if r.Passed {
		return ""
	}
	return r.NodeID + ": " + r.Reason
}

// VerifyOne checks a single guardian's signature over msg using registry.
// It never panics on bad input; every failure is reported in the result.
func VerifyOne(registry *Registry, nodeID, signature string, msg CanonicalMessage) NodeResult {
	node, err := registry.Resolve(nodeID)
	if err != nil {
		return NodeResult{NodeID: nodeID, Failure: FailureUnknownNode, Reason: ErrUnknownGuardian.Error()}
	}

	sig, err := DecodeSignature(signature)
	if err != nil {
		return NodeResult{NodeID: nodeID, Failure: FailureMalformedSignature, Reason: err.Error()}
	}

	if err := verifySignature(node.Scheme, node.PublicKey, msg.b, sig); err != nil {
		return NodeResult{NodeID: nodeID, Failure: classify(err), Reason: err.Error()}
	}

	return NodeResult{NodeID: nodeID, Passed: true}
}

func classify(err error) FailureKind {
	switch {
	case errors.Is(err, ErrMalformedSignature):
		return FailureMalformedSignature
	case errors.Is(err, ErrUnsupportedScheme):
		return FailureUnsupportedScheme
	default:
		return FailureCryptographicMismatch
	}
}

// DecodeSignature decodes a guardian signature string. The bridge returns
// standard base64; 0x-prefixed hex is accepted as well.
func DecodeSignature(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty signature", ErrMalformedSignature)
	}

	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		b, err := hex.DecodeString(s[2:])
		if err != nil {
			return nil, fmt.Errorf("%w: bad hex: %v", ErrMalformedSignature, err)
		}
		return b, nil
	}

	b, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return b, nil
	}
	if b, rawErr := base64.RawStdEncoding.DecodeString(s); rawErr == nil {
		return b, nil
	}

	return nil, fmt.Errorf("%w: bad base64: %v", ErrMalformedSignature, err)
}
