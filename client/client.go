// Package client talks to the HyperUnit bridge API and verifies the guardian
// signatures on generated deposit addresses before they are handed out.
package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"hyperunit-sdk/chains"
	"hyperunit-sdk/guardian"
	"hyperunit-sdk/shared"
)

// Metric and log labels per endpoint.
const (
	endpointGen             = "gen"
	endpointOperations      = "operations"
	endpointEstimateFees    = "estimate-fees"
	endpointWithdrawalQueue = "withdrawal-queue"
)

// Client is a HyperUnit API client. It is safe for concurrent use.
type Client struct {
	cfg       *Config
	transport *transport
	verifier  *guardian.Verifier
	cache     *cache.Cache
	logger    *shared.Logger
	metrics   *clientMetrics
}

// New creates a Client from cfg. A nil cfg means DefaultConfig().
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = shared.NewNopLogger()
	}

	metrics, err := newClientMetrics(cfg.Registerer)
	if err != nil {
		return nil, NewConfigurationError("Registerer", err.Error())
	}

	opts := []guardian.Option{guardian.WithLogger(logger.Logger)}
	if cfg.RegistryPath != "" {
		registry, err := guardian.LoadRegistryFile(cfg.RegistryPath)
		if err != nil {
			return nil, NewConfigurationError("RegistryPath", err.Error())
		}
		if registry.Network() != cfg.Network {
			logger.Critical("guardian registry network mismatch",
				zap.String("registry_path", cfg.RegistryPath),
				zap.String("registry_network", registry.Network().String()),
				zap.String("client_network", cfg.Network.String()))
			return nil, NewConfigurationError("RegistryPath",
				fmt.Sprintf("registry is for %s, client is configured for %s", registry.Network(), cfg.Network))
		}
		opts = append(opts, guardian.WithRegistry(registry))
	}

	c := &Client{
		cfg:      cfg,
		verifier: guardian.NewVerifier(cfg.Network, opts...),
		logger:   logger,
		metrics:  metrics,
	}
	c.transport = newTransport(cfg, logger, metrics)
	if cfg.CacheTTL > 0 {
		c.cache = cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}

	logger.WithNetwork(cfg.Network.String()).Debug("client created",
		zap.String("base_url", cfg.Endpoint()),
		zap.Int("guardians", c.verifier.Registry().Len()))

	return c, nil
}

// Network returns the network the client is bound to.
func (c *Client) Network() guardian.Network {
	return c.cfg.Network
}

// Verifier returns the guardian verifier used for generated addresses.
func (c *Client) Verifier() *guardian.Verifier {
	return c.verifier
}

// GenerateAddress asks the bridge for a deposit address.
// Maps to GET /gen/{src_chain}/{dst_chain}/{asset}/{dst_addr}.
func (c *Client) GenerateAddress(ctx context.Context, params GenerateAddressParams) (*APIResponse[GenerateAddressResponse], error) {
	if err := c.validateParams(params); err != nil {
		return nil, err
	}

	path := "/gen/" + strings.Join([]string{
		url.PathEscape(params.SrcChain),
		url.PathEscape(params.DstChain),
		url.PathEscape(params.Asset),
		url.PathEscape(params.DstAddr),
	}, "/")

	return getJSON[GenerateAddressResponse](ctx, c.transport, endpointGen, path, endpointGen)
}

// GetOperations lists the addresses and operations linked to address.
// Maps to GET /operations/{address}.
func (c *Client) GetOperations(ctx context.Context, address string) (*APIResponse[GetOperationsResponse], error) {
	if strings.TrimSpace(address) == "" {
		return nil, NewValidationError("address", address, "must not be empty")
	}
	return getJSON[GetOperationsResponse](ctx, c.transport, endpointOperations, "/operations/"+url.PathEscape(address), endpointOperations)
}

// EstimateFees returns per-network fee and ETA estimates.
// Maps to GET /v2/estimate-fees; answers are cached for CacheTTL.
func (c *Client) EstimateFees(ctx context.Context) (*APIResponse[EstimateFeesResponse], error) {
	return cachedGet[EstimateFeesResponse](ctx, c, endpointEstimateFees, "/v2/estimate-fees")
}

// GetWithdrawalQueue returns the bitcoin and ethereum withdrawal queues.
// Maps to GET /withdrawal-queue; answers are cached for CacheTTL.
func (c *Client) GetWithdrawalQueue(ctx context.Context) (*APIResponse[WithdrawalQueueResponse], error) {
	return cachedGet[WithdrawalQueueResponse](ctx, c, endpointWithdrawalQueue, "/withdrawal-queue")
}

func cachedGet[T any](ctx context.Context, c *Client, endpoint, path string) (*APIResponse[T], error) {
	if c.cache != nil {
		if v, ok := c.cache.Get(endpoint); ok {
			if resp, ok := v.(APIResponse[T]); ok {
				c.metrics.observeRequest(endpoint, outcomeCached)
				resp.Headers = copyHeaders(resp.Headers)
				return &resp, nil
			}
		}
	}

	resp, err := getJSON[T](ctx, c.transport, endpoint, path, "")
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		cached := *resp
		cached.Headers = copyHeaders(resp.Headers)
		c.cache.SetDefault(endpoint, cached)
	}
	return resp, nil
}

func copyHeaders(h map[string]string) map[string]string {
	if h == nil {
		return nil
	}
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}

// validateParams rejects requests the bridge could never serve.
func (c *Client) validateParams(p GenerateAddressParams) error {
	src, err := chains.ParseChain(p.SrcChain)
	if err != nil {
		return NewValidationError("src_chain", p.SrcChain, err.Error())
	}
	dst, err := chains.ParseChain(p.DstChain)
	if err != nil {
		return NewValidationError("dst_chain", p.DstChain, err.Error())
	}
	if src == dst {
		return NewValidationError("dst_chain", p.DstChain, "must differ from src_chain")
	}

	asset, err := chains.ParseAsset(p.Asset)
	if err != nil {
		return NewValidationError("asset", p.Asset, err.Error())
	}
	if native, _ := chains.NativeChain(asset); native != src && native != dst {
		return NewValidationError("asset", p.Asset, fmt.Sprintf("%s is not bridged between %s and %s", asset, src, dst))
	}

	if err := chains.ValidateAddress(dst, p.DstAddr, c.cfg.Network == guardian.Testnet); err != nil {
		return NewValidationError("dst_addr", p.DstAddr, err.Error())
	}
	return nil
}
