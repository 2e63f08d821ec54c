// Package guardian verifies guardian attestations of bridge deposit addresses.
//
// A bridge response carries a generated address and a map of guardian node
// id to signature. The package rebuilds the message the guardians signed from
// the caller's own request parameters, checks each signature against the
// compiled-in key for that node and network, and folds the outcomes into a
// Verdict. Nothing here performs I/O; the response is treated as untrusted.
package guardian

import (
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SignatureSet maps guardian node id to its signature string.
type SignatureSet map[string]string

// Verifier checks signature sets against one registry and quorum policy.
// It is immutable and safe for concurrent use.
type Verifier struct {
	registry    *Registry
	policy      QuorumPolicy
	parallelism int
	logger      *zap.Logger
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithRegistry replaces the compiled-in registry, e.g. with keys pinned from a file.
func WithRegistry(r *Registry) Option {
	return func(v *Verifier) { v.registry = r }
}

// WithPolicy sets the quorum policy.
func WithPolicy(p QuorumPolicy) Option {
	return func(v *Verifier) {
		p.Required = append([]string(nil), p.Required...)
		v.policy = p
	}
}

// WithParallelism bounds how many signatures are checked at once. 1 is sequential.
func WithParallelism(n int) Option {
	return func(v *Verifier) {
		if n > 0 {
			v.parallelism = n
		}
	}
}

// WithLogger attaches a logger; the verifier only logs at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(v *Verifier) {
		if l != nil {
			v.logger = l
		}
	}
}

// NewVerifier returns a Verifier for network using the compiled-in registry
// unless WithRegistry is given.
func NewVerifier(network Network, opts ...Option) *Verifier {
	v := &Verifier{
		registry:    RegistryFor(network),
		policy:      DefaultQuorumPolicy(),
		parallelism: runtime.NumCPU(),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.registry == nil {
		// Unknown network: every node resolves as unknown.
		v.registry = &Registry{network: network, nodes: map[string]GuardianNode{}}
	}
	return v
}

// Registry returns the registry the verifier resolves nodes against.
func (v *Verifier) Registry() *Registry {
	return v.registry
}

// Verify checks every signature in sigs against the canonical form of
// proposal and returns the quorum verdict. It does not fail; all problems
// are reported through the Verdict.
func (v *Verifier) Verify(sigs SignatureSet, proposal AddressProposal) Verdict {
	verdict, _ := v.VerifyResults(sigs, proposal)
	return verdict
}

// VerifyResults is Verify plus the per-node results sorted by node id.
func (v *Verifier) VerifyResults(sigs SignatureSet, proposal AddressProposal) (Verdict, []NodeResult) {
	ids := make([]string, 0, len(sigs))
	for id := range sigs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	msg, err := Canonicalize(proposal)
	if err != nil {
		return v.rejectProposal(ids, err)
	}

	log := v.logger.With(
		zap.String("network", v.registry.Network().String()),
		zap.String("message_fingerprint", msg.Fingerprint()),
	)

	results := make([]NodeResult, len(ids))

	var g errgroup.Group
	g.SetLimit(v.parallelism)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			results[i] = VerifyOne(v.registry, id, sigs[id], msg)
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range results {
		if r.Passed {
			log.Debug("guardian signature verified", zap.String("node_id", r.NodeID))
		} else {
			log.Debug("guardian signature rejected",
				zap.String("node_id", r.NodeID),
				zap.Stringer("failure", r.Failure),
				zap.String("reason", r.Reason))
		}
	}

	verdict := Aggregate(results, v.policy)
	log.Debug("guardian verdict",
		zap.Bool("success", verdict.Success),
		zap.Int("verified_count", verdict.VerifiedCount),
		zap.Int("provided", len(ids)))

	return verdict, results
}

// rejectProposal fails every present node when the proposal itself cannot
// be serialized. Nodes are still resolved so unknown ids and a missing
// required node are reported; the proposal error comes first.
func (v *Verifier) rejectProposal(ids []string, err error) (Verdict, []NodeResult) {
	v.logger.Debug("proposal rejected", zap.Error(err))

	results := make([]NodeResult, 0, len(ids))
	for _, id := range ids {
		if _, rerr := v.registry.Resolve(id); rerr != nil {
			results = append(results, NodeResult{NodeID: id, Failure: FailureUnknownNode, Reason: ErrUnknownGuardian.Error()})
			continue
		}
		results = append(results, NodeResult{NodeID: id, Failure: FailureInvalidProposal, Reason: "proposal rejected"})
	}

	verdict := Aggregate(results, v.policy)
	verdict.Errors = append([]string{"proposal: " + err.Error()}, verdict.Errors...)
	return verdict, results
}

// VerifyDepositAddressSignatures verifies sigs for proposal against the
// compiled-in guardian set of network with the default quorum policy.
func VerifyDepositAddressSignatures(network Network, sigs SignatureSet, proposal AddressProposal) Verdict {
	return NewVerifier(network).Verify(sigs, proposal)
}
