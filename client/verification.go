package client

import (
	"context"

	"go.uber.org/zap"

	"hyperunit-sdk/chains"
	"hyperunit-sdk/guardian"
)

// GenerateAddressWithVerification generates an address and verifies its
// guardian signatures against the caller's own request parameters. A failed
// verification is not an error; check Data.Trusted() before using the address.
func (c *Client) GenerateAddressWithVerification(ctx context.Context, params GenerateAddressParams) (*APIResponse[VerifiedAddressResponse], error) {
	resp, err := c.GenerateAddress(ctx, params)
	if err != nil {
		return nil, err
	}

	verified := c.VerifyAddressSignatures(resp.Data, params)
	if !verified.Trusted() {
		c.logger.Security("generated address is not trusted",
			zap.String("request_id", resp.RequestID),
			zap.String("address", resp.Data.Address),
			zap.Strings("errors", verified.Verification.Errors),
			zap.Bool("address_format_valid", verified.AddressFormatValid))
	}

	return &APIResponse[VerifiedAddressResponse]{
		Data:       verified,
		Status:     resp.Status,
		StatusText: resp.StatusText,
		Headers:    resp.Headers,
		RequestID:  resp.RequestID,
	}, nil
}

// VerifyAddressSignatures verifies an existing /gen response without any
// network access. params must be the parameters the address was requested with.
func (c *Client) VerifyAddressSignatures(resp GenerateAddressResponse, params GenerateAddressParams) VerifiedAddressResponse {
	verdict, results := c.verifier.VerifyResults(resp.Signatures, params.Proposal(resp.Address))
	c.metrics.observeVerdict(c.cfg.Network, verdict, results)
	for _, r := range results {
		if !r.Passed {
			c.logger.WithNode(r.NodeID).Debug("guardian signature not verified",
				zap.Stringer("failure", r.Failure),
				zap.String("reason", r.Reason))
		}
	}

	formatErr := chains.ValidateAddress(chains.Chain(params.SrcChain), resp.Address, c.cfg.Network == guardian.Testnet)
	if formatErr != nil {
		c.logger.Debug("generated address has wrong format",
			zap.String("src_chain", params.SrcChain),
			zap.Error(formatErr))
	}

	return VerifiedAddressResponse{
		GenerateAddressResponse: resp,
		Verification:            verdict,
		AddressFormatValid:      formatErr == nil,
	}
}

func depositParams(src chains.Chain, asset chains.Asset, dstAddr string) GenerateAddressParams {
	return GenerateAddressParams{
		SrcChain: src.String(),
		DstChain: chains.Hyperliquid.String(),
		Asset:    asset.String(),
		DstAddr:  dstAddr,
	}
}

// GenerateBitcoinDepositAddress generates a BTC deposit address credited to dstAddr on Hyperliquid.
func (c *Client) GenerateBitcoinDepositAddress(ctx context.Context, dstAddr string) (*APIResponse[GenerateAddressResponse], error) {
	return c.GenerateAddress(ctx, depositParams(chains.Bitcoin, chains.BTC, dstAddr))
}

func (c *Client) GenerateBitcoinDepositAddressWithVerification(ctx context.Context, dstAddr string) (*APIResponse[VerifiedAddressResponse], error) {
	return c.GenerateAddressWithVerification(ctx, depositParams(chains.Bitcoin, chains.BTC, dstAddr))
}

// GenerateEthereumDepositAddress generates an ETH deposit address credited to dstAddr on Hyperliquid.
func (c *Client) GenerateEthereumDepositAddress(ctx context.Context, dstAddr string) (*APIResponse[GenerateAddressResponse], error) {
	return c.GenerateAddress(ctx, depositParams(chains.Ethereum, chains.ETH, dstAddr))
}

func (c *Client) GenerateEthereumDepositAddressWithVerification(ctx context.Context, dstAddr string) (*APIResponse[VerifiedAddressResponse], error) {
	return c.GenerateAddressWithVerification(ctx, depositParams(chains.Ethereum, chains.ETH, dstAddr))
}

// GenerateSolanaDepositAddress generates a SOL deposit address credited to dstAddr on Hyperliquid.
func (c *Client) GenerateSolanaDepositAddress(ctx context.Context, dstAddr string) (*APIResponse[GenerateAddressResponse], error) {
	return c.GenerateAddress(ctx, depositParams(chains.Solana, chains.SOL, dstAddr))
}

func (c *Client) GenerateSolanaDepositAddressWithVerification(ctx context.Context, dstAddr string) (*APIResponse[VerifiedAddressResponse], error) {
	return c.GenerateAddressWithVerification(ctx, depositParams(chains.Solana, chains.SOL, dstAddr))
}
