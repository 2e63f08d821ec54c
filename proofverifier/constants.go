package proofverifier

// Bundle format constants
const (
	BundleVersion  = 1     // Written into every bundle; newer versions are rejected
	bundleFileMode = 0o600 // Bundles name a user's destination address
)

const bundleSchema = `{
	"type": "object",
	"required": ["version", "network", "params", "response"],
	"properties": {
		"version": {"type": "integer", "minimum": 1},
		"network": {"enum": ["testnet", "mainnet"]},
		"params": {
			"type": "object",
			"required": ["src_chain", "dst_chain", "asset", "dst_addr"],
			"properties": {
				"src_chain": {"type": "string", "minLength": 1},
				"dst_chain": {"type": "string", "minLength": 1},
				"asset": {"type": "string", "minLength": 1},
				"dst_addr": {"type": "string", "minLength": 1}
			}
		},
		"response": {
			"type": "object",
			"required": ["address", "signatures"],
			"properties": {
				"address": {"type": "string", "minLength": 1},
				"signatures": {"type": "object", "additionalProperties": {"type": "string"}},
				"status": {"type": "string"}
			}
		},
		"createdAt": {"type": "string"}
	}
}`
