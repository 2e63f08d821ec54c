// Package proofverifier re-checks a saved generated-address response offline.
package proofverifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"hyperunit-sdk/chains"
	"hyperunit-sdk/client"
	"hyperunit-sdk/guardian"
	"hyperunit-sdk/shared"
)

var (
	// ErrQuorumNotReached is returned when the bundle's signatures do not satisfy the quorum policy.
	ErrQuorumNotReached = errors.New("guardian quorum not reached")
	// ErrAddressFormat is returned when the generated address does not parse for its chain.
	ErrAddressFormat = errors.New("generated address has wrong format")
)

// Bundle is everything needed to re-verify a generated address: the request
// the caller made and the bridge's answer.
type Bundle struct {
	Version   int                            `json:"version"`
	Network   guardian.Network               `json:"network"`
	Params    client.GenerateAddressParams   `json:"params"`
	Response  client.GenerateAddressResponse `json:"response"`
	CreatedAt time.Time                      `json:"createdAt,omitempty"`
}

// NewBundle records a /gen exchange.
func NewBundle(network guardian.Network, params client.GenerateAddressParams, resp client.GenerateAddressResponse) Bundle {
	return Bundle{
		Version:   BundleVersion,
		Network:   network,
		Params:    params,
		Response:  resp,
		CreatedAt: time.Now().UTC(),
	}
}

// Options tune Validate.
type Options struct {
	RegistryPath string                 // Pins guardian keys instead of the compiled-in set
	Policy       *guardian.QuorumPolicy // Defaults to guardian.DefaultQuorumPolicy
	Logger       *shared.Logger
}

// WriteBundle stores b as indented JSON at path.
func WriteBundle(path string, b Bundle) error {
	if b.Version == 0 {
		b.Version = BundleVersion
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode bundle: %w", err)
	}
	if err := os.WriteFile(path, data, bundleFileMode); err != nil {
		return fmt.Errorf("failed to write bundle: %w", err)
	}
	return nil
}

// LoadBundle reads and schema-checks the bundle at path.
func LoadBundle(path string) (Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Bundle{}, fmt.Errorf("cannot open bundle: %w", err)
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(bundleSchema))
	if err != nil {
		return Bundle{}, fmt.Errorf("failed to compile bundle schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return Bundle{}, fmt.Errorf("failed to decode bundle JSON: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return Bundle{}, fmt.Errorf("invalid bundle: %s", strings.Join(msgs, "; "))
	}

	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return Bundle{}, fmt.Errorf("failed to decode bundle JSON: %w", err)
	}
	if b.Version > BundleVersion {
		return Bundle{}, fmt.Errorf("bundle version %d is newer than supported version %d", b.Version, BundleVersion)
	}
	return b, nil
}

// Validate loads the bundle at bundlePath and verifies its guardian
// signatures. The verdict is returned even when the check fails.
func Validate(bundlePath string, opts Options) (guardian.Verdict, error) {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewNopLogger()
	}

	b, err := LoadBundle(bundlePath)
	if err != nil {
		return guardian.Verdict{}, err
	}
	log := logger.WithNetwork(b.Network.String()).With(zap.String("bundle", bundlePath))

	verifierOpts := []guardian.Option{guardian.WithLogger(log)}
	if opts.RegistryPath != "" {
		registry, err := guardian.LoadRegistryFile(opts.RegistryPath)
		if err != nil {
			return guardian.Verdict{}, err
		}
		if registry.Network() != b.Network {
			return guardian.Verdict{}, fmt.Errorf("registry is for %s but bundle is for %s", registry.Network(), b.Network)
		}
		verifierOpts = append(verifierOpts, guardian.WithRegistry(registry))
	}
	if opts.Policy != nil {
		verifierOpts = append(verifierOpts, guardian.WithPolicy(*opts.Policy))
	}

	verdict := guardian.NewVerifier(b.Network, verifierOpts...).
		Verify(b.Response.Signatures, b.Params.Proposal(b.Response.Address))

	if !verdict.Success {
		logger.Security("bundle failed guardian verification",
			zap.String("bundle", bundlePath),
			zap.Strings("errors", verdict.Errors))
		return verdict, fmt.Errorf("%w: %s", ErrQuorumNotReached, strings.Join(verdict.Errors, "; "))
	}
	log.Info("guardian signatures valid", zap.Int("verified_count", verdict.VerifiedCount))

	src := chains.Chain(b.Params.SrcChain)
	if err := chains.ValidateAddress(src, b.Response.Address, b.Network == guardian.Testnet); err != nil {
		return verdict, fmt.Errorf("%w: %v", ErrAddressFormat, err)
	}

	return verdict, nil
}
