package main

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"hyperunit-sdk/client"
	"hyperunit-sdk/guardian"
	"hyperunit-sdk/proofverifier"
)

type genCommand struct {
	app *app

	SrcChain string `long:"src" default:"bitcoin" description:"Source chain"`
	DstChain string `long:"dst" default:"hyperliquid" description:"Destination chain"`
	Asset    string `long:"asset" default:"btc" description:"Asset ticker"`
	Verify   bool   `long:"verify" description:"Verify guardian signatures and exit 2 if the address is not trusted"`
	Bundle   string `long:"bundle" description:"Write a verification bundle to this path (implies --verify)"`

	Args struct {
		DstAddr string `positional-arg-name:"dst_addr" description:"Destination address credited on the destination chain"`
	} `positional-args:"yes" required:"yes"`
}

func (g *genCommand) Execute([]string) error {
	c, err := g.app.client()
	if err != nil {
		return err
	}

	params := client.GenerateAddressParams{
		SrcChain: g.SrcChain,
		DstChain: g.DstChain,
		Asset:    g.Asset,
		DstAddr:  g.Args.DstAddr,
	}

	if !g.Verify && g.Bundle == "" {
		resp, err := c.GenerateAddress(g.app.ctx, params)
		if err != nil {
			return err
		}
		return g.app.print(resp)
	}

	resp, err := c.GenerateAddressWithVerification(g.app.ctx, params)
	if err != nil {
		return err
	}

	if g.Bundle != "" {
		bundle := proofverifier.NewBundle(c.Network(), params, resp.Data.GenerateAddressResponse)
		if err := proofverifier.WriteBundle(g.Bundle, bundle); err != nil {
			return err
		}
		g.app.log().Info("bundle written", zap.String("path", g.Bundle))
	}

	if err := g.app.print(resp); err != nil {
		return err
	}
	if !resp.Data.Trusted() {
		return errUntrusted
	}
	return nil
}

type verifyCommand struct {
	app *app

	Bundle string `long:"bundle" required:"true" description:"Bundle written by gen --bundle"`
}

func (v *verifyCommand) Execute([]string) error {
	verdict, err := proofverifier.Validate(v.Bundle, proofverifier.Options{
		RegistryPath: v.app.opts.Registry,
		Logger:       v.app.log(),
	})
	if verdict.VerificationDetails != nil {
		if perr := v.app.print(verdict); perr != nil {
			return perr
		}
	}
	if errors.Is(err, proofverifier.ErrQuorumNotReached) || errors.Is(err, proofverifier.ErrAddressFormat) {
		return fmt.Errorf("%w: %v", errUntrusted, err)
	}
	return err
}

type operationsCommand struct {
	app *app

	Args struct {
		Address string `positional-arg-name:"address" description:"Source or generated address"`
	} `positional-args:"yes" required:"yes"`
}

func (o *operationsCommand) Execute([]string) error {
	c, err := o.app.client()
	if err != nil {
		return err
	}
	resp, err := c.GetOperations(o.app.ctx, o.Args.Address)
	if err != nil {
		return err
	}
	return o.app.print(resp.Data)
}

type feesCommand struct {
	app *app
}

func (f *feesCommand) Execute([]string) error {
	c, err := f.app.client()
	if err != nil {
		return err
	}
	resp, err := c.EstimateFees(f.app.ctx)
	if err != nil {
		return err
	}
	return f.app.print(resp.Data)
}

type queueCommand struct {
	app *app
}

func (q *queueCommand) Execute([]string) error {
	c, err := q.app.client()
	if err != nil {
		return err
	}
	resp, err := c.GetWithdrawalQueue(q.app.ctx)
	if err != nil {
		return err
	}
	return q.app.print(resp.Data)
}

type guardiansCommand struct {
	app *app
}

type guardianEntry struct {
	NodeID    string `json:"nodeId"`
	Scheme    string `json:"scheme"`
	PublicKey string `json:"publicKey"`
}

func (g *guardiansCommand) Execute([]string) error {
	cfg, err := g.app.config()
	if err != nil {
		return err
	}

	registry := guardian.RegistryFor(cfg.Network)
	if cfg.RegistryPath != "" {
		if registry, err = guardian.LoadRegistryFile(cfg.RegistryPath); err != nil {
			return err
		}
	}

	nodes := registry.Nodes()
	entries := make([]guardianEntry, 0, len(nodes))
	for _, n := range nodes {
		entries = append(entries, guardianEntry{NodeID: n.NodeID, Scheme: n.Scheme.String(), PublicKey: n.PublicKeyHex()})
	}
	return g.app.print(struct {
		Network string          `json:"network"`
		Nodes   []guardianEntry `json:"nodes"`
	}{registry.Network().String(), entries})
}
